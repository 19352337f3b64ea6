package probe

// Canary is a well-known URL paired with the exact body an unobstructed
// network returns for it. Canaries are immutable and defined at process
// start.
type Canary struct {
	// URL is the canary endpoint, fetched with redirect following.
	URL string

	// ExpectedBody is the unmodified response body, compared after
	// trimming surrounding whitespace.
	ExpectedBody string
}

// DefaultSet returns the built-in canary set.
//
// These are the connectivity-check endpoints operated by Mozilla, GNOME,
// and Arch Linux. Each exists specifically for captive portal detection,
// so its body is stable and intentionally tiny. Keeping several and
// picking one at random per probe avoids hammering a single endpoint and
// prevents an interceptor from special-casing one well-known URL.
func DefaultSet() []Canary {
	return []Canary{
		{
			URL:          "http://detectportal.firefox.com/canonical.html",
			ExpectedBody: `<meta http-equiv="refresh" content="0;url=https://support.mozilla.org/kb/captive-portal"/>`,
		},
		{
			URL:          "http://nmcheck.gnome.org/check_network_status.txt",
			ExpectedBody: "NetworkManager is online",
		},
		{
			URL:          "http://ping.archlinux.org/",
			ExpectedBody: "This domain is used for connectivity checking (captive portal detection).",
		},
	}
}

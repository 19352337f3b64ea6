// Package main provides the entry point for the portalwatch CLI.
//
// portalwatch periodically checks whether the machine is online or
// trapped behind a captive portal, and logs into recognized portals
// automatically using configured credentials.
//
// Usage:
//
//	portalwatch watch
//	portalwatch check --all
//
// See --help for all available options.
package main

// main is the entry point for portalwatch.
func main() {
	Execute()
}

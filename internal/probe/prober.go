package probe

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"
	"golang.org/x/sync/errgroup"
)

// Status is the tri-state verdict of one connectivity probe.
type Status int

const (
	// StatusOnline means the canary body matched exactly: the network
	// path to the canary is unobstructed.
	StatusOnline Status = iota

	// StatusPortal means the canary request succeeded but returned
	// something other than the expected body: an interceptor answered
	// in the canary's place.
	StatusPortal

	// StatusUnreachable means the request failed at the transport level
	// (DNS, connect, TLS, timeout). This is "probably offline" and must
	// never be treated as a login trigger.
	StatusUnreachable
)

// String returns the human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "online"
	case StatusPortal:
		return "portal"
	case StatusUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

// Result is the outcome of a single probe. It is produced fresh for each
// cycle and never persisted.
type Result struct {
	// Status is the tri-state verdict.
	Status Status

	// Canary is the canary that was probed.
	Canary Canary

	// FinalURL is the URL after following redirects. A portal typically
	// redirects the canary to its own login page, so this is essential
	// classification input, not just diagnostics.
	FinalURL string

	// Body is the whitespace-trimmed, charset-decoded response body.
	// Empty for StatusUnreachable.
	Body string

	// Err holds the transport error for StatusUnreachable, for logging.
	Err error
}

// ErrEmptySet is returned by New when no canaries are provided.
// An empty probe set would make every cycle a silent no-op.
var ErrEmptySet = errors.New("probe: canary set must not be empty")

// Prober issues connectivity probes against a canary set.
//
// Design decision: We hold the http.Client in the struct rather than
// passing it on each call because:
//  1. Client configuration (timeout, redirect policy) should be consistent
//  2. Connection pooling works better with a shared client
//  3. Easier to test with a stub server's client
//
// The client deliberately has no cookie jar: probes must look like a
// first contact every time, or a portal that has half-authenticated us
// could skew detection.
type Prober struct {
	// client is the HTTP client used for canary requests.
	// Redirect following is the default client behavior and is required.
	client *http.Client

	// set is the immutable canary set.
	set []Canary

	// pick selects a canary index; replaceable for deterministic tests.
	pick func(n int) int

	// userAgent is sent with every probe request.
	userAgent string

	// maxBodySize caps the response body read.
	maxBodySize int64

	// timeout bounds each probe request.
	timeout time.Duration

	// concurrency limits the parallel requests of ProbeAll.
	concurrency int
}

// Option configures a Prober.
type Option func(*Prober)

// WithHTTPClient sets a custom HTTP client. Useful for tests and for
// routing probes over a specific interface.
func WithHTTPClient(client *http.Client) Option {
	return func(p *Prober) {
		if client != nil {
			p.client = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(p *Prober) {
		if timeout > 0 {
			p.timeout = timeout
		}
	}
}

// WithUserAgent sets a custom User-Agent header.
func WithUserAgent(ua string) Option {
	return func(p *Prober) {
		if ua != "" {
			p.userAgent = ua
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) Option {
	return func(p *Prober) {
		if size > 0 {
			p.maxBodySize = size
		}
	}
}

// WithPicker replaces the random canary selection. Tests use this to make
// probe runs deterministic.
func WithPicker(pick func(n int) int) Option {
	return func(p *Prober) {
		if pick != nil {
			p.pick = pick
		}
	}
}

// New creates a Prober over the given canary set.
// It returns ErrEmptySet if the set is empty.
func New(set []Canary, opts ...Option) (*Prober, error) {
	if len(set) == 0 {
		return nil, ErrEmptySet
	}

	p := &Prober{
		client:      &http.Client{},
		set:         set,
		pick:        rand.Intn,
		userAgent:   "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0",
		maxBodySize: 2 * 1024 * 1024, // 2MB
		timeout:     10 * time.Second,
		concurrency: 4,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Probe issues one canary request and classifies the response.
//
// One canary is selected uniformly at random, fetched with redirect
// following, and its trimmed body compared byte-for-byte against the
// expected body. No retries happen here; retry cadence is the caller's
// scheduling concern.
func (p *Prober) Probe(ctx context.Context) Result {
	canary := p.set[p.pick(len(p.set))]
	return p.probeCanary(ctx, canary)
}

// ProbeAll probes every canary in the set concurrently and returns one
// result per canary, in set order. This is a diagnostic sweep for the
// check command; the watch loop always uses the single-canary Probe.
func (p *Prober) ProbeAll(ctx context.Context) []Result {
	results := make([]Result, len(p.set))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)

	for i, canary := range p.set {
		i, canary := i, canary
		g.Go(func() error {
			results[i] = p.probeCanary(ctx, canary)
			return nil
		})
	}

	// Workers never return errors; failures are Results.
	_ = g.Wait()

	return results
}

// probeCanary fetches a single canary and classifies the outcome.
func (p *Prober) probeCanary(ctx context.Context, canary Canary) Result {
	result := Result{Canary: canary}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, canary.URL, nil)
	if err != nil {
		result.Status = StatusUnreachable
		result.Err = err
		return result
	}

	req.Header.Set("User-Agent", p.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		// Transport-level failure: probably offline, never a login trigger.
		result.Status = StatusUnreachable
		result.Err = err
		return result
	}
	defer resp.Body.Close()

	result.FinalURL = resp.Request.URL.String()

	body, err := decodeBody(resp, p.maxBodySize)
	if err != nil {
		result.Status = StatusUnreachable
		result.Err = err
		return result
	}
	result.Body = strings.TrimSpace(body)

	// The mismatch itself signals interception. Content inspection is
	// entirely the classifier's job.
	if result.Body == canary.ExpectedBody {
		result.Status = StatusOnline
		return result
	}

	result.Status = StatusPortal
	return result
}

// decodeBody reads the response body up to the size limit, converting it
// to UTF-8 according to the declared charset. Portal login pages are
// frequently served as ISO-8859-1; comparing or matching against raw
// bytes would break marker matching on those.
func decodeBody(resp *http.Response, limit int64) (string, error) {
	reader, err := charset.NewReader(io.LimitReader(resp.Body, limit), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", err
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

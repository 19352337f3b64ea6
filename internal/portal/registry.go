package portal

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Signature is one classification rule: substring markers over the
// portal's final URL and response body, naming the handler to run when
// they match. A signature must carry at least one marker.
type Signature struct {
	// Handler is the identity returned when this signature matches.
	Handler ID

	// URLMarker, when non-empty, must be a substring of the final URL.
	URLMarker string

	// BodyMarker, when non-empty, must be a substring of the response
	// body. Matching is done against the NFC-normalized body so that
	// accented markers (campus portals are frequently French) match
	// regardless of the page's normalization form.
	BodyMarker string
}

// matches reports whether the signature matches the observed response.
// The body must already be NFC-normalized by the caller.
func (s Signature) matches(finalURL, body string) bool {
	if s.URLMarker != "" && !strings.Contains(finalURL, s.URLMarker) {
		return false
	}
	if s.BodyMarker != "" && !strings.Contains(body, s.BodyMarker) {
		return false
	}
	return true
}

// subsumes reports whether every response matched by other is also
// matched by s, i.e. s's markers are weaker or equal. An empty marker
// matches everything; a marker that is a substring of another matches a
// superset of what the longer marker matches.
//
// Containment per field is an approximation: two signatures with markers
// on disjoint fields (URL-only vs body-only) pass this check yet can both
// match one response, in which case registration order decides. Vendors
// sharing a response that closely should carry markers on the same field.
func (s Signature) subsumes(other Signature) bool {
	if s.URLMarker != "" && !strings.Contains(other.URLMarker, s.URLMarker) {
		return false
	}
	if s.BodyMarker != "" && !strings.Contains(other.BodyMarker, s.BodyMarker) {
		return false
	}
	return true
}

// Registration defects. These indicate a programming or configuration
// error in the signature table and fail fast at startup rather than
// being tolerated at match time.
var (
	// ErrEmptySignature is returned when a signature has no markers.
	// Such a signature would match every portal.
	ErrEmptySignature = fmt.Errorf("portal: signature must carry at least one marker")
)

// Registry is an ordered list of signatures. Classification walks the
// list and returns the first match, so for well-formed tables the result
// is deterministic; Register rejects tables where order could matter
// (duplicate handlers, subsuming markers).
type Registry struct {
	sigs []Signature
}

// NewRegistry creates an empty registry.
// An empty registry classifies everything as "no match", which is valid:
// an unrecognized portal is reportable, not fatal.
func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a signature to the registry.
//
// It returns an error when the signature is a static defect:
//   - it carries no marker at all
//   - its handler identity is already registered
//   - its predicate subsumes, or is subsumed by, an existing signature,
//     which would make match order significant
func (r *Registry) Register(sig Signature) error {
	if sig.URLMarker == "" && sig.BodyMarker == "" {
		return ErrEmptySignature
	}

	// Classify matches against the NFC-normalized body, so the marker
	// must be stored in the same form or an NFD-encoded marker could
	// never match.
	sig.BodyMarker = norm.NFC.String(sig.BodyMarker)

	for _, existing := range r.sigs {
		if existing.Handler == sig.Handler {
			return fmt.Errorf("portal: handler %q registered twice", sig.Handler)
		}
		if existing.subsumes(sig) || sig.subsumes(existing) {
			return fmt.Errorf("portal: signature for %q overlaps signature for %q: match order would be ambiguous",
				sig.Handler, existing.Handler)
		}
	}

	r.sigs = append(r.sigs, sig)
	return nil
}

// Len returns the number of registered signatures.
func (r *Registry) Len() int {
	return len(r.sigs)
}

// Classify returns the handler identity of the first signature matching
// the observed portal response, or false when no signature matches.
//
// Given the same inputs, repeated calls always return the same result.
func (r *Registry) Classify(finalURL, body string) (ID, bool) {
	normalized := norm.NFC.String(body)

	for _, sig := range r.sigs {
		if sig.matches(finalURL, normalized) {
			return sig.Handler, true
		}
	}
	return "", false
}

// DefaultRegistry returns the registry of all known portal vendors.
// Registration errors here are programming defects; the caller should
// treat them as fatal at startup.
func DefaultRegistry() (*Registry, error) {
	r := NewRegistry()

	// The campus gateway redirects the canary to its SSO host and serves
	// a login page naming the service. Either alone could false-positive
	// on an unrelated CAS deployment, so both markers are required.
	if err := r.Register(Signature{
		Handler:    IDCampus,
		URLMarker:  "/sso/",
		BodyMarker: "Service d'authentification centralisé",
	}); err != nil {
		return nil, err
	}

	return r, nil
}

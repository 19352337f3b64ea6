// Package portal maps detected captive portals to vendor-specific login
// handlers and implements those handlers.
//
// Classification is explicit, not heuristic: a Registry holds an ordered
// list of Signatures (substring markers over the portal's final URL and
// response body), and the first match names the Handler to run. An
// unrecognized portal is a reportable condition, never a crash.
//
// A Handler executes its vendor's multi-step HTTP login choreography.
// Each attempt runs in a fresh session (its own cookie jar) that is
// discarded when Login returns, whatever the outcome. Failures are
// classified into the small taxonomy in errors.go so the orchestrator
// can report them without understanding any vendor's quirks.
package portal

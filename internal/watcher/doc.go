// Package watcher ties the connectivity probe, the portal classifier,
// and the login handlers together into the periodic check cycle.
//
// A cycle is: probe once, classify if a portal answered, run the matched
// vendor's login, report the outcome. Cycles are independent and
// idempotent (re-running after a successful login is just a normal
// online check) and no failure outcome ever terminates the loop.
package watcher

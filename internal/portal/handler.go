package portal

import (
	"context"
	"log/slog"

	"github.com/portalwatch/portalwatch/internal/config"
)

// ID is a stable handler identity. Classification returns an ID; a
// separate construction step keyed on the ID builds the handler.
//
// Design decision: Separating "which handler" (ID) from "how to build and
// invoke it" (Factory) keeps the registry free of construction concerns
// and lets the orchestrator decide how handlers are wired (logger,
// timeouts) without the registry knowing.
type ID string

// IDCampus identifies the campus SSO portal handler, the reference
// vendor implementation.
const IDCampus ID = "campus"

// Handler executes one vendor's login choreography.
// Implementations must be safe to construct per cycle; all per-attempt
// state (cookies, pending form data) lives inside Login and is discarded
// when it returns.
type Handler interface {
	// ID returns the handler's stable identity. It doubles as the name
	// of the credential section in the configuration file.
	ID() ID

	// Login performs the vendor's login sequence.
	//
	// finalURL and body are the portal response observed by the probe,
	// available for vendors whose flow continues from the intercepted
	// page. creds is the vendor's read-only credential section.
	//
	// A nil return means the session was established. Any failure is a
	// *LoginError carrying one of the Reason values; use ReasonOf to
	// classify. The context bounds the whole sequence.
	Login(ctx context.Context, finalURL, body string, creds config.Section) error
}

// Factory builds a handler instance with its runtime collaborators.
// A fresh handler per cycle keeps cycles independent.
type Factory func(cfg *config.Config, logger *slog.Logger) Handler

// Factories returns the factory for every known handler identity.
func Factories() map[ID]Factory {
	return map[ID]Factory{
		IDCampus: func(cfg *config.Config, logger *slog.Logger) Handler {
			return NewCampusHandler(
				WithCampusTimeout(cfg.Timeout),
				WithCampusUserAgent(cfg.UserAgent),
				WithCampusMaxBodySize(cfg.MaxBodySize),
				WithCampusLogger(logger),
			)
		},
	}
}

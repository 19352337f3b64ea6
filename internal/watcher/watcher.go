package watcher

import (
	"context"
	"log/slog"
	"time"

	"github.com/portalwatch/portalwatch/internal/config"
	"github.com/portalwatch/portalwatch/internal/portal"
	"github.com/portalwatch/portalwatch/internal/probe"
)

// Recorder receives completed cycle results. The history journal
// implements this; the watcher itself neither knows nor cares where the
// records go.
type Recorder interface {
	Record(ctx context.Context, result CycleResult) error
}

// Watcher runs check cycles: probe, classify, dispatch, report.
//
// Design decision: Handlers are constructed per cycle through their
// Factory rather than held as instances because every login attempt must
// start from a clean session. The watcher holds only read-only
// collaborators, so cycles share no mutable state.
type Watcher struct {
	prober    *probe.Prober
	registry  *portal.Registry
	factories map[portal.ID]portal.Factory
	cfg       *config.Config
	logger    *slog.Logger
	recorder  Recorder
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the watcher's logger.
func WithLogger(logger *slog.Logger) WatcherOption {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithRecorder sets a recorder for completed cycles.
func WithRecorder(recorder Recorder) WatcherOption {
	return func(w *Watcher) {
		w.recorder = recorder
	}
}

// WithFactories replaces the handler factory table. Tests use this to
// inject stub handlers.
func WithFactories(factories map[portal.ID]portal.Factory) WatcherOption {
	return func(w *Watcher) {
		if factories != nil {
			w.factories = factories
		}
	}
}

// New creates a Watcher.
func New(prober *probe.Prober, registry *portal.Registry, cfg *config.Config, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		prober:    prober,
		registry:  registry,
		factories: portal.Factories(),
		cfg:       cfg,
		logger:    slog.Default(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// RunCycle executes one complete check cycle and returns its result.
// It never returns an error: every failure mode is a classified outcome,
// because none of them may terminate the process.
func (w *Watcher) RunCycle(ctx context.Context) CycleResult {
	start := time.Now()
	result := CycleResult{Timestamp: start}

	probed := w.prober.Probe(ctx)
	result.CanaryURL = probed.Canary.URL

	switch probed.Status {
	case probe.StatusOnline:
		result.Outcome = OutcomeAlreadyOnline

	case probe.StatusUnreachable:
		// Expected steady state while offline. The next scheduled cycle
		// is the only retry.
		result.Outcome = OutcomeUnreachable
		result.Err = probed.Err

	case probe.StatusPortal:
		result = w.dispatch(ctx, probed, result)
	}

	result.Duration = time.Since(start)
	return result
}

// dispatch classifies a detected portal and runs the matched handler.
func (w *Watcher) dispatch(ctx context.Context, probed probe.Result, result CycleResult) CycleResult {
	result.PortalURL = probed.FinalURL

	id, ok := w.registry.Classify(probed.FinalURL, probed.Body)
	if !ok {
		result.Outcome = OutcomeUnknownPortal
		return result
	}
	result.Handler = id

	factory, ok := w.factories[id]
	if !ok {
		// A signature naming a handler with no factory is a wiring
		// defect, but at this point crashing would violate the "keep
		// scheduling cycles" contract, so report it like any other
		// unrecognized portal.
		w.logger.Warn("no factory for classified handler", "handler", string(id))
		result.Outcome = OutcomeUnknownPortal
		return result
	}

	handler := factory(w.cfg, w.logger)
	creds := w.cfg.Credentials(string(id))

	w.logger.Info("portal detected, attempting login",
		"handler", string(id),
		"portal_url", probed.FinalURL)

	err := handler.Login(ctx, probed.FinalURL, probed.Body, creds)
	if err == nil {
		result.Outcome = OutcomeLoggedIn
		return result
	}

	result.Outcome = OutcomeLoginFailed
	result.Err = err
	if reason, ok := portal.ReasonOf(err); ok {
		result.Reason = reason
	} else {
		result.Reason = portal.ReasonNetwork
	}
	return result
}

// Run executes check cycles on the configured update period until the
// context is cancelled. The first cycle runs after one full period, not
// immediately, so a freshly started watcher does not race a network
// still coming up.
//
// Cancellation is honored between cycles only: an in-flight login is not
// safe to abandon mid-step (the gateway could be left half-authenticated),
// so each cycle runs under a context detached from the shutdown signal
// and bounded by its own budget instead.
func (w *Watcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(w.cfg.UpdatePeriod)
	defer ticker.Stop()

	w.logger.Info("watch loop started",
		"update_period", w.cfg.UpdatePeriod.String())

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch loop stopping", "cause", ctx.Err().Error())
			return ctx.Err()
		case <-ticker.C:
		}

		// Budget: every cycle is at most a probe plus a handful of login
		// requests, each bounded by cfg.Timeout.
		cycleCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 8*w.cfg.Timeout)
		result := w.RunCycle(cycleCtx)
		cancel()

		w.report(ctx, result)

		// A shutdown that arrived during the cycle takes effect here,
		// not at the next tick.
		if ctx.Err() != nil {
			w.logger.Info("watch loop stopping", "cause", ctx.Err().Error())
			return ctx.Err()
		}
	}
}

// report logs a cycle result and hands it to the recorder, if any.
func (w *Watcher) report(ctx context.Context, result CycleResult) {
	attrs := []any{
		"outcome", result.Outcome.String(),
		"canary", result.CanaryURL,
		"duration", result.Duration.String(),
	}
	if result.PortalURL != "" {
		attrs = append(attrs, "portal_url", result.PortalURL)
	}
	if result.Handler != "" {
		attrs = append(attrs, "handler", string(result.Handler))
	}

	switch result.Outcome {
	case OutcomeLoginFailed:
		attrs = append(attrs, "reason", result.Reason.String(), "error", result.Err.Error())
		w.logger.Warn("check cycle finished", attrs...)
	case OutcomeUnknownPortal:
		w.logger.Warn("check cycle finished: portal not recognized", attrs...)
	default:
		w.logger.Info("check cycle finished", attrs...)
	}

	if w.recorder != nil {
		if err := w.recorder.Record(ctx, result); err != nil {
			// The journal is telemetry; losing a row must not affect
			// the loop.
			w.logger.Warn("failed to record cycle", "error", err.Error())
		}
	}
}

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalwatch/portalwatch/internal/config"
	"github.com/portalwatch/portalwatch/internal/history"
	"github.com/portalwatch/portalwatch/internal/log"
	"github.com/portalwatch/portalwatch/internal/portal"
	"github.com/portalwatch/portalwatch/internal/probe"
	"github.com/portalwatch/portalwatch/internal/watcher"
)

// NewWatchCmd creates the watch command.
func NewWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Periodically check connectivity and log into detected portals",
		Long: `Watch runs the periodic connectivity check loop.

Each cycle probes one well-known canary URL. If the response matches the
canary's documented body, the machine is online and nothing happens. If a
captive portal intercepted the request, the portal is classified against
the registered vendor signatures and the matching login handler runs with
credentials from the configuration file. Transport failures are treated
as "probably offline" and simply checked again next cycle.

No failure stops the loop; portalwatch keeps checking until interrupted.

Examples:
  # Watch with the default configuration search path
  portalwatch watch

  # Watch with an explicit configuration file, checking every 30 seconds
  portalwatch watch -c ./portalwatch.yml --period 30s

  # Record cycle outcomes for the history command
  portalwatch watch --save-history

Configuration file (portalwatch.yml) example:
  general:
    update_period: 60
  portals:
    campus:
      username: jdoe
      password: secret
      account: internal`,
		Args: cobra.NoArgs,
		RunE: runWatchCmd,
	}

	addConfigFlags(cmd)
	cmd.Flags().DurationP("period", "p", 0,
		"Interval between checks (overrides general.update_period)")
	cmd.Flags().String("db-dir", "",
		"Directory for the cycle journal database (implies --save-history)")
	cmd.Flags().Bool("save-history", false,
		"Record cycle outcomes to the journal (default dir: XDG data dir)")

	return cmd
}

// addConfigFlags registers the flags shared by watch and check.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: XDG config dir, ~/.portalwatch.yml, /etc/portalwatch.yml)")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header for probe and login requests")
}

// runWatchCmd executes the watch command.
func runWatchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	period, err := cmd.Flags().GetDuration("period")
	if err != nil {
		return err
	}
	if period > 0 {
		cfg.UpdatePeriod = period
	}

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	saveHistory, err := cmd.Flags().GetBool("save-history")
	if err != nil {
		return err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
		cfg.SaveHistory = true
	} else if saveHistory {
		cfg.DBDir = config.XDGDataDir()
		cfg.SaveHistory = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown.
	// Cancellation is honored between cycles; an in-flight login always
	// reaches a terminal state first.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, finishing current cycle...")
		cancel()
	}()

	return runWatch(ctx, cfg, logger)
}

// runWatch builds the watcher and runs the loop.
func runWatch(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	var recorder watcher.Recorder
	if cfg.SaveHistory {
		journal, err := history.Open(cfg.DBDir, history.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open cycle journal: %w", err)
		}
		defer journal.Close()
		logger.Info("cycle journal opened", "path", journal.Path())
		recorder = journal
	}

	w, err := buildWatcher(cfg, logger, recorder)
	if err != nil {
		return err
	}

	if err := w.Run(ctx); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// buildWatcher assembles the prober, registry, and watcher from the
// configuration snapshot, with an optional cycle recorder.
// Signature registration defects surface here, before the loop starts:
// they are the one failure class that must fail fast instead of being
// tolerated at runtime.
func buildWatcher(cfg *config.Config, logger *slog.Logger, recorder watcher.Recorder) (*watcher.Watcher, error) {
	prober, err := buildProber(cfg)
	if err != nil {
		return nil, err
	}

	registry, err := portal.DefaultRegistry()
	if err != nil {
		return nil, fmt.Errorf("portal signature table is defective: %w", err)
	}

	opts := []watcher.WatcherOption{watcher.WithLogger(logger)}
	if recorder != nil {
		opts = append(opts, watcher.WithRecorder(recorder))
	}

	return watcher.New(prober, registry, cfg, opts...), nil
}

// buildProber constructs the prober over the built-in canary set.
func buildProber(cfg *config.Config) (*probe.Prober, error) {
	return probe.New(probe.DefaultSet(),
		probe.WithTimeout(cfg.Timeout),
		probe.WithUserAgent(cfg.UserAgent),
		probe.WithMaxBodySize(cfg.MaxBodySize),
	)
}

// buildConfig creates a Config from the shared flags and the
// configuration file.
func buildConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// If the user explicitly specified a config file path, error if it is
	// not found. Otherwise silently run with an empty config: detection
	// still works without credentials, logins just cannot.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.File, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	// general.update_period is seconds, matching the original
	// configuration convention for this key.
	if seconds := cfg.File.General.GetInt("update_period", 0); seconds > 0 {
		cfg.UpdatePeriod = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the secure structured logger.
func setupLogger(verbose bool) *slog.Logger {
	return log.NewSecureLogger(os.Stderr, verbose)
}

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/portalwatch/portalwatch/internal/config"
	"github.com/portalwatch/portalwatch/internal/report"
)

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Run a single connectivity check and print the result",
		Long: `Check runs exactly one check cycle: probe a canary, classify any
detected portal, attempt a login if a vendor signature matches, and
report the outcome. It is the one-shot version of the watch loop and
exits 0 regardless of the outcome; the outcome is the report.

Examples:
  # Single check, human-readable output
  portalwatch check

  # Probe every canary for diagnostics
  portalwatch check --all

  # JSON output for scripting
  portalwatch check --json

  # Write a Markdown report to a file
  portalwatch check --markdown -o status.md`,
		Args: cobra.NoArgs,
		RunE: runCheckCmd,
	}

	addConfigFlags(cmd)
	cmd.Flags().BoolP("all", "a", false,
		"Probe every canary and include per-canary diagnostics")
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return err
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return err
	}
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	slog.SetDefault(logger)

	status, err := runCheck(cmd.Context(), cfg, logger, all)
	if err != nil {
		return err
	}

	return writeReport(cmd.OutOrStdout(), cfg, status)
}

// runCheck runs one cycle (and optionally a canary sweep) and builds the
// status report.
func runCheck(ctx context.Context, cfg *config.Config, logger *slog.Logger, all bool) (*report.Status, error) {
	w, err := buildWatcher(cfg, logger, nil)
	if err != nil {
		return nil, err
	}

	result := w.RunCycle(ctx)
	status := report.FromCycle(result)

	if all {
		prober, err := buildProber(cfg)
		if err != nil {
			return nil, err
		}
		status.AddProbes(prober.ProbeAll(ctx))
	}

	return status, nil
}

// writeReport renders the status in the configured format and destination.
func writeReport(stdout io.Writer, cfg *config.Config, status *report.Status) error {
	output := stdout
	if cfg.ReportFile != "" {
		if dir := filepath.Dir(cfg.ReportFile); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create report directory: %w", err)
			}
		}
		f, err := os.Create(cfg.ReportFile) //nolint:gosec // User-provided report path is intentional
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output)
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output)
	}

	if _, err := writer.Write(status); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

package main

import (
	"fmt"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/portalwatch/portalwatch/internal/config"
	"github.com/portalwatch/portalwatch/internal/history"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded check cycle outcomes",
		Long: `History lists recent check cycles recorded by "watch --save-history":
when a portal last intercepted the connection, whether logins succeeded,
and how often the network was unreachable.

Examples:
  # Show the 20 most recent cycles
  portalwatch history

  # Show more, from a custom journal location
  portalwatch history -n 100 --db-dir /var/lib/portalwatch

  # Show outcome totals
  portalwatch history --summary`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the cycle journal database")
	cmd.Flags().IntP("limit", "n", 20,
		"Maximum number of cycles to show")
	cmd.Flags().Bool("summary", false,
		"Show outcome totals instead of individual cycles")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	summary, err := cmd.Flags().GetBool("summary")
	if err != nil {
		return err
	}

	// Reading only: a missing journal means nothing was recorded yet,
	// which deserves a clear message, not an empty table.
	journal, err := history.Open(dbDir, history.Options{CreateIfNotExists: false, EnableWAL: false})
	if err != nil {
		return fmt.Errorf("no cycle journal found in %s (run \"portalwatch watch --save-history\" first): %w", dbDir, err)
	}
	defer journal.Close()

	out := cmd.OutOrStdout()

	if summary {
		counts, err := journal.CountByOutcome(cmd.Context())
		if err != nil {
			return err
		}
		outcomes := make([]string, 0, len(counts))
		for outcome := range counts {
			outcomes = append(outcomes, outcome)
		}
		sort.Strings(outcomes)

		tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
		fmt.Fprintln(tw, "OUTCOME\tCYCLES")
		for _, outcome := range outcomes {
			fmt.Fprintf(tw, "%s\t%d\n", outcome, counts[outcome])
		}
		return tw.Flush()
	}

	entries, err := journal.Recent(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(out, "journal is empty")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "TIME\tOUTCOME\tPORTAL\tHANDLER\tREASON")
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			e.Timestamp.Local().Format(time.DateTime),
			e.Outcome,
			orDash(e.PortalURL),
			orDash(e.Handler),
			orDash(e.Reason),
		)
	}
	return tw.Flush()
}

// orDash substitutes a dash for empty table cells.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

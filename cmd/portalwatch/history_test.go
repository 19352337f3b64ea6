package main

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/portalwatch/portalwatch/internal/history"
	"github.com/portalwatch/portalwatch/internal/watcher"
)

// seedJournal records the given outcomes into a fresh journal directory.
func seedJournal(t *testing.T, outcomes []watcher.Outcome) string {
	t.Helper()

	dir := t.TempDir()
	j, err := history.Open(dir, history.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open journal: %v", err)
	}
	defer j.Close()

	for i, o := range outcomes {
		result := watcher.CycleResult{
			Outcome:   o,
			Timestamp: time.Now().Add(time.Duration(i) * time.Minute),
			CanaryURL: "http://ping.archlinux.org",
		}
		if err := j.Record(context.Background(), result); err != nil {
			t.Fatalf("failed to record cycle: %v", err)
		}
	}
	return dir
}

// TestNewHistoryCmd tests the history command creation.
func TestNewHistoryCmd(t *testing.T) {
	t.Parallel()

	cmd := NewHistoryCmd()

	t.Run("has correct use", func(t *testing.T) {
		t.Parallel()
		if cmd.Use != "history" {
			t.Errorf("expected use 'history', got %q", cmd.Use)
		}
	})

	t.Run("has limit flag", func(t *testing.T) {
		t.Parallel()
		flag := cmd.Flags().Lookup("limit")
		if flag == nil {
			t.Fatal("expected limit flag")
		}
		if flag.Shorthand != "n" {
			t.Errorf("expected shorthand 'n', got %q", flag.Shorthand)
		}
		if flag.DefValue != "20" {
			t.Errorf("expected default '20', got %q", flag.DefValue)
		}
	})
}

// TestRunHistoryCmd tests the history command execution.
func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("lists recorded cycles", func(t *testing.T) {
		t.Parallel()

		dir := seedJournal(t, []watcher.Outcome{
			watcher.OutcomeAlreadyOnline,
			watcher.OutcomeUnreachable,
		})

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "already_online") {
			t.Errorf("expected already_online row, got:\n%s", output)
		}
		if !strings.Contains(output, "unreachable") {
			t.Errorf("expected unreachable row, got:\n%s", output)
		}
	})

	t.Run("summary rows are sorted by outcome", func(t *testing.T) {
		t.Parallel()

		dir := seedJournal(t, []watcher.Outcome{
			watcher.OutcomeUnreachable,
			watcher.OutcomeLoggedIn,
			watcher.OutcomeAlreadyOnline,
			watcher.OutcomeUnreachable,
		})

		var buf bytes.Buffer
		cmd := NewHistoryCmd()
		cmd.SetOut(&buf)
		cmd.SetArgs([]string{"--db-dir", dir, "--summary"})
		if err := cmd.Execute(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		iOnline := strings.Index(output, "already_online")
		iLogged := strings.Index(output, "logged_in")
		iUnreach := strings.Index(output, "unreachable")
		if iOnline < 0 || iLogged < 0 || iUnreach < 0 {
			t.Fatalf("expected all three outcomes in summary, got:\n%s", output)
		}
		if !(iOnline < iLogged && iLogged < iUnreach) {
			t.Errorf("expected lexicographic outcome order, got:\n%s", output)
		}
	})

	t.Run("missing journal is a clear error", func(t *testing.T) {
		t.Parallel()

		cmd := NewHistoryCmd()
		cmd.SetOut(new(bytes.Buffer))
		cmd.SetErr(new(bytes.Buffer))
		cmd.SetArgs([]string{"--db-dir", t.TempDir()})
		if err := cmd.Execute(); err == nil {
			t.Error("expected error for missing journal")
		}
	})
}

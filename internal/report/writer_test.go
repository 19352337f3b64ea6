package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/portalwatch/portalwatch/internal/portal"
	"github.com/portalwatch/portalwatch/internal/probe"
	"github.com/portalwatch/portalwatch/internal/watcher"
)

// sampleStatus returns a login-failed status with a diagnostic sweep
// attached, exercising every optional field.
func sampleStatus() *Status {
	s := FromCycle(watcher.CycleResult{
		Outcome:   watcher.OutcomeLoginFailed,
		Timestamp: time.Date(2026, 2, 3, 9, 30, 0, 0, time.UTC),
		Duration:  1200 * time.Millisecond,
		CanaryURL: "http://ping.archlinux.org",
		PortalURL: "https://sso.univ-campus.fr/sso/profil/",
		Handler:   portal.IDCampus,
		Reason:    portal.ReasonInvalidCredentials,
		Err:       errors.New("credential submission rejected"),
	})
	s.AddProbes([]probe.Result{
		{
			Status:   probe.StatusPortal,
			Canary:   probe.Canary{URL: "http://ping.archlinux.org"},
			FinalURL: "https://sso.univ-campus.fr/sso/profil/",
		},
		{
			Status: probe.StatusUnreachable,
			Canary: probe.Canary{URL: "http://nmcheck.gnome.org/check_network_status.txt"},
			Err:    errors.New("connection refused"),
		},
	})
	return s
}

func TestFromCycle(t *testing.T) {
	t.Parallel()

	t.Run("carries failure classification", func(t *testing.T) {
		t.Parallel()

		s := sampleStatus()
		if s.Outcome != "login_failed" {
			t.Errorf("expected login_failed, got %q", s.Outcome)
		}
		if s.Reason != "invalid_credentials" {
			t.Errorf("expected invalid_credentials, got %q", s.Reason)
		}
		if s.Detail != "credential submission rejected" {
			t.Errorf("expected failure detail, got %q", s.Detail)
		}
		if len(s.Probes) != 2 {
			t.Errorf("expected 2 probe entries, got %d", len(s.Probes))
		}
	})

	t.Run("omits reason on success", func(t *testing.T) {
		t.Parallel()

		s := FromCycle(watcher.CycleResult{
			Outcome:   watcher.OutcomeAlreadyOnline,
			Timestamp: time.Now(),
			CanaryURL: "http://ping.archlinux.org",
		})
		if s.Reason != "" {
			t.Errorf("expected empty reason, got %q", s.Reason)
		}
		if s.Detail != "" {
			t.Errorf("expected empty detail, got %q", s.Detail)
		}
	})
}

func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	n, err := NewSimpleWriter(&buf).Write(sampleStatus())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != buf.Len() {
		t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
	}

	output := buf.String()
	for _, want := range []string{
		"login_failed",
		"http://ping.archlinux.org",
		"invalid_credentials",
		"Canary diagnostics",
		"connection refused",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

func TestJSONWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewJSONWriter(&buf).Write(sampleStatus()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var decoded Status
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Outcome != "login_failed" {
		t.Errorf("expected login_failed, got %q", decoded.Outcome)
	}
	if decoded.Reason != "invalid_credentials" {
		t.Errorf("expected invalid_credentials, got %q", decoded.Reason)
	}
	if len(decoded.Probes) != 2 {
		t.Errorf("expected 2 probe entries, got %d", len(decoded.Probes))
	}
}

func TestJSONWriterOmitsEmptyFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	s := FromCycle(watcher.CycleResult{
		Outcome:   watcher.OutcomeAlreadyOnline,
		Timestamp: time.Now(),
		CanaryURL: "http://ping.archlinux.org",
	})
	if _, err := NewJSONWriter(&buf).Write(s); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, absent := range []string{"portal_url", "handler", "reason", "detail", "probes"} {
		if strings.Contains(output, absent) {
			t.Errorf("expected %q to be omitted, got:\n%s", absent, output)
		}
	}
}

func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(sampleStatus()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"# Connectivity Check",
		"## Canary diagnostics",
		"Outcome",
		"login_failed",
		"https://sso.univ-campus.fr/sso/profil/",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
}

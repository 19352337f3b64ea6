package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("loads a valid configuration file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "portalwatch.yml")
		content := `
general:
  update_period: 45
portals:
  campus:
    username: jdoe
    password: hunter2
`
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := f.General.GetInt("update_period", 0); got != 45 {
			t.Errorf("expected update_period 45, got %d", got)
		}
		if got := f.Portal("campus").GetString("username", ""); got != "jdoe" {
			t.Errorf("expected jdoe, got %q", got)
		}
	})

	t.Run("returns ErrConfigNotFound for a missing file", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfigFile(filepath.Join(t.TempDir(), "nope.yml"))
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("returns an error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "portalwatch.yml")
		if err := os.WriteFile(path, []byte("general: [broken\n"), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("initializes empty sections", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "portalwatch.yml")
		if err := os.WriteFile(path, []byte(""), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		f, err := LoadConfigFile(path)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.General == nil {
			t.Error("expected General section to be initialized")
		}
		if f.Portals == nil {
			t.Error("expected Portals map to be initialized")
		}
	})
}

func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path when it exists", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "custom.yml")
		if err := os.WriteFile(path, []byte("general:\n"), 0o600); err != nil {
			t.Fatalf("failed to write config file: %v", err)
		}

		if got := FindConfigFile(path); got != path {
			t.Errorf("expected %q, got %q", path, got)
		}
	})

	t.Run("returns empty string when explicit path is missing", func(t *testing.T) {
		t.Parallel()

		if got := FindConfigFile(filepath.Join(t.TempDir(), "nope.yml")); got != "" {
			t.Errorf("expected empty string, got %q", got)
		}
	})
}

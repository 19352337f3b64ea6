package config

import (
	"testing"

	"gopkg.in/yaml.v3"
)

// TestSectionGetters tests typed lookups with fallbacks.
func TestSectionGetters(t *testing.T) {
	t.Parallel()

	s := Section{
		"name":    "campus",
		"period":  "60",
		"enabled": "true",
		"broken":  "not-a-number",
	}

	t.Run("GetString", func(t *testing.T) {
		t.Parallel()

		if got := s.GetString("name", "x"); got != "campus" {
			t.Errorf("expected campus, got %q", got)
		}
		if got := s.GetString("missing", "fallback"); got != "fallback" {
			t.Errorf("expected fallback, got %q", got)
		}
	})

	t.Run("GetInt", func(t *testing.T) {
		t.Parallel()

		if got := s.GetInt("period", 0); got != 60 {
			t.Errorf("expected 60, got %d", got)
		}
		if got := s.GetInt("missing", 7); got != 7 {
			t.Errorf("expected 7, got %d", got)
		}
		// Unparseable values fall back rather than failing.
		if got := s.GetInt("broken", 7); got != 7 {
			t.Errorf("expected 7 for unparseable value, got %d", got)
		}
	})

	t.Run("GetBool", func(t *testing.T) {
		t.Parallel()

		if got := s.GetBool("enabled", false); !got {
			t.Error("expected true")
		}
		if got := s.GetBool("missing", true); !got {
			t.Error("expected fallback true")
		}
	})
}

// TestSectionUnmarshalYAML tests scalar tolerance in config sections.
func TestSectionUnmarshalYAML(t *testing.T) {
	t.Parallel()

	t.Run("accepts unquoted scalars", func(t *testing.T) {
		t.Parallel()

		var s Section
		input := "update_period: 60\nverbose: true\nname: campus\nempty:\n"
		if err := yaml.Unmarshal([]byte(input), &s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if s.GetInt("update_period", 0) != 60 {
			t.Errorf("expected 60, got %q", s["update_period"])
		}
		if !s.GetBool("verbose", false) {
			t.Errorf("expected true, got %q", s["verbose"])
		}
		if s.GetString("name", "") != "campus" {
			t.Errorf("expected campus, got %q", s["name"])
		}
		if v, ok := s["empty"]; !ok || v != "" {
			t.Errorf("expected empty value to be present and blank, got (%q, %v)", v, ok)
		}
	})

	t.Run("rejects nested mappings", func(t *testing.T) {
		t.Parallel()

		var s Section
		input := "outer:\n  inner: value\n"
		if err := yaml.Unmarshal([]byte(input), &s); err == nil {
			t.Error("expected nested mapping to be rejected")
		}
	})
}

// TestFilePortal tests vendor section lookup on the parsed file.
func TestFilePortal(t *testing.T) {
	t.Parallel()

	input := `
general:
  update_period: 30
portals:
  campus:
    username: jdoe
    password: hunter2
    account: internal
`
	var f File
	if err := yaml.Unmarshal([]byte(input), &f); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if f.General.GetInt("update_period", 0) != 30 {
		t.Errorf("expected update_period 30, got %q", f.General["update_period"])
	}

	campus := f.Portal("campus")
	if campus.GetString("username", "") != "jdoe" {
		t.Errorf("expected jdoe, got %q", campus.GetString("username", ""))
	}
	if campus.GetString("account", "") != "internal" {
		t.Errorf("expected internal, got %q", campus.GetString("account", ""))
	}

	if got := f.Portal("other"); len(got) != 0 {
		t.Errorf("expected empty section for unknown vendor, got %v", got)
	}
}

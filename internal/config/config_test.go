package config

import (
	"errors"
	"testing"
	"time"
)

// TestNewConfig tests default construction.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.UpdatePeriod != DefaultUpdatePeriod {
		t.Errorf("expected update period %v, got %v", DefaultUpdatePeriod, cfg.UpdatePeriod)
	}
	if cfg.Timeout != DefaultTimeout {
		t.Errorf("expected timeout %v, got %v", DefaultTimeout, cfg.Timeout)
	}
	if cfg.File == nil {
		t.Fatal("expected an initialized (empty) config file")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate, got %v", err)
	}
}

// TestConfigValidate tests validation failures.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:    "zero update period",
			mutate:  func(c *Config) { c.UpdatePeriod = 0 },
			wantErr: ErrInvalidUpdatePeriod,
		},
		{
			name:    "negative timeout",
			mutate:  func(c *Config) { c.Timeout = -time.Second },
			wantErr: ErrInvalidTimeout,
		},
		{
			name:    "negative max body size",
			mutate:  func(c *Config) { c.MaxBodySize = -1 },
			wantErr: ErrInvalidMaxBodySize,
		},
		{
			name: "conflicting report formats",
			mutate: func(c *Config) {
				c.JSONReport = true
				c.MarkdownReport = true
			},
			wantErr: ErrConflictingReportFormats,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

// TestConfigCredentials tests vendor credential lookup.
func TestConfigCredentials(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.File.Portals["campus"] = Section{"username": "jdoe"}

	if got := cfg.Credentials("campus").GetString("username", ""); got != "jdoe" {
		t.Errorf("expected username jdoe, got %q", got)
	}

	// Unknown vendors yield an empty, usable section.
	if got := cfg.Credentials("nonexistent").GetString("username", "fallback"); got != "fallback" {
		t.Errorf("expected fallback for unknown vendor, got %q", got)
	}
}

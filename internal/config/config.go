package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These match the behavior of common captive-portal detection clients
// where applicable, and are deliberately conservative elsewhere.
const (
	// DefaultUpdatePeriod is the interval between connectivity checks.
	// 60 seconds is frequent enough to recover a dropped portal session
	// quickly while staying well below any rate limit a portal gateway
	// might enforce on its login endpoints.
	DefaultUpdatePeriod = 60 * time.Second

	// DefaultTimeout is the per-request timeout for all outbound HTTP.
	// Captive portal gateways answer on the local network, so 10 seconds
	// is generous; anything slower is indistinguishable from offline.
	DefaultTimeout = 10 * time.Second

	// DefaultMaxBodySize limits the response body size to read.
	// Canary bodies are a few hundred bytes and portal login pages are
	// small HTML documents; 2MB prevents memory exhaustion from an
	// interceptor returning something unexpected.
	DefaultMaxBodySize = 2 * 1024 * 1024 // 2MB

	// DefaultUserAgent is sent with every probe and login request.
	// We mimic a regular browser because some portal gateways serve a
	// stripped-down (or empty) page to clients they classify as bots,
	// which would break both detection and form parsing.
	DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64; rv:109.0) Gecko/20100101 Firefox/115.0"

	// AppName is the application name used for XDG directory paths.
	AppName = "portalwatch"
)

// Config holds all runtime options for portalwatch.
// It is populated from CLI flags and the configuration file, validated
// once, and then passed through the application via dependency injection
// rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// because the number of options is manageable, and the struct is treated
// as an immutable snapshot after Validate(): components receive it at
// construction time and never write to it.
type Config struct {
	// UpdatePeriod is the interval between connectivity check cycles.
	// Read from general.update_period (seconds) in the config file
	// unless overridden by a flag.
	UpdatePeriod time.Duration

	// Timeout is the per-request timeout for probe and login HTTP calls.
	Timeout time.Duration

	// MaxBodySize is the maximum response body size in bytes to read.
	// Responses larger than this are truncated.
	MaxBodySize int64

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// Verbose enables detailed log output using slog.LevelDebug.
	Verbose bool

	// ConfigFilePath is the path to the configuration file.
	// If empty, the standard search path is used (see FindConfigFile).
	ConfigFilePath string

	// File holds the parsed configuration file, including the per-vendor
	// credential sections. Populated by LoadConfigFile.
	File *File

	// DBDir is the directory path for the SQLite cycle journal.
	// When set, cycle outcomes are recorded for the history command.
	// When empty, nothing is persisted.
	DBDir string

	// SaveHistory indicates whether to record cycle outcomes.
	// This is automatically set to true when DBDir is configured.
	SaveHistory bool

	// JSONReport enables JSON output for the check command.
	// Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport enables Markdown output for the check command.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output file path for the check report.
	// When set, the report is written to this file instead of stdout.
	ReportFile string
}

// NewConfig creates a new Config with default values.
// Many defaults are non-zero, so relying on zero values would be wrong;
// this constructor also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		UpdatePeriod: DefaultUpdatePeriod,
		Timeout:      DefaultTimeout,
		MaxBodySize:  DefaultMaxBodySize,
		UserAgent:    DefaultUserAgent,
		File:         NewFile(),
	}
}

// XDGDataDir returns the XDG data directory for portalwatch.
// On Linux: ~/.local/share/portalwatch
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for portalwatch.
// On Linux: ~/.config/portalwatch
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific sentinel error describing what is invalid.
// This is called once after CLI parsing, before the first cycle runs,
// so defects fail fast instead of surfacing mid-loop.
func (c *Config) Validate() error {
	if c.UpdatePeriod <= 0 {
		return ErrInvalidUpdatePeriod
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	return nil
}

// Credentials returns the credential section for the given vendor,
// or an empty section if the vendor is not configured.
// The returned Section is read-only by convention; handlers must never
// mutate it.
func (c *Config) Credentials(vendor string) Section {
	if c.File == nil {
		return Section{}
	}
	return c.File.Portal(vendor)
}

package config

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name used in the XDG config
// directory and under /etc.
const DefaultConfigFile = "portalwatch.yml"

// EtcConfigPath is the system-wide configuration file location, checked
// last in the search path.
const EtcConfigPath = "/etc/portalwatch.yml"

// ErrConfigNotFound is returned when the configuration file does not exist.
// Callers should handle this error appropriately based on whether the
// config file path was explicitly specified by the user.
var ErrConfigNotFound = errors.New("configuration file not found")

// LoadConfigFile loads the configuration from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	// Initialize maps if absent so lookups never nil-deref
	if f.General == nil {
		f.General = Section{}
	}
	if f.Portals == nil {
		f.Portals = make(map[string]Section)
	}

	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. portalwatch.yml in the XDG config directory (~/.config/portalwatch)
//  3. .portalwatch.yml in the user's home directory
//  4. /etc/portalwatch.yml
//
// Returns the path to the configuration file if found, or empty string
// if not found.
func FindConfigFile(configPath string) string {
	// If explicit path is provided, use it
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	// Check XDG config directory
	xdgConfig := filepath.Join(XDGConfigDir(), DefaultConfigFile)
	if _, err := os.Stat(xdgConfig); err == nil {
		return xdgConfig
	}

	// Check home directory dotfile
	home, err := os.UserHomeDir()
	if err == nil {
		homeConfig := filepath.Join(home, ".portalwatch.yml")
		if _, err := os.Stat(homeConfig); err == nil {
			return homeConfig
		}
	}

	// Check system-wide location
	if _, err := os.Stat(EtcConfigPath); err == nil {
		return EtcConfigPath
	}

	return ""
}

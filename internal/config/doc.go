// Package config provides configuration structures and utilities for
// portalwatch. It defines the runtime options for connectivity checking,
// the YAML configuration file with its per-vendor credential sections,
// and the configuration file search path.
package config

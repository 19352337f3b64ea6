package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Section is a flat key→value lookup backing one block of the
// configuration file. Values are kept as strings and converted on access
// with an explicit fallback, mirroring how operators actually write
// credential sections: a mix of strings, numbers, and booleans.
//
// Design decision: We expose typed getters with fallbacks instead of the
// raw map because every consumer of a section has a sensible default for
// every key it reads (vendor constants, update period). A missing key is
// normal, not an error.
type Section map[string]string

// GetString returns the value for key, or fallback if the key is absent.
func (s Section) GetString(key, fallback string) string {
	v, ok := s[key]
	if !ok {
		return fallback
	}
	return v
}

// GetInt returns the value for key parsed as an integer, or fallback if
// the key is absent or not a valid integer.
func (s Section) GetInt(key string, fallback int) int {
	v, ok := s[key]
	if !ok {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

// GetBool returns the value for key parsed as a boolean, or fallback if
// the key is absent or not a recognized boolean literal.
func (s Section) GetBool(key string, fallback bool) bool {
	v, ok := s[key]
	if !ok {
		return fallback
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return b
}

// Has reports whether the key is present in the section.
func (s Section) Has(key string) bool {
	_, ok := s[key]
	return ok
}

// UnmarshalYAML decodes a YAML mapping into the section, converting scalar
// values (ints, booleans, floats) to their string form. Without this,
// `update_period: 60` would fail to decode into a string-valued map and
// operators would have to quote every number.
func (s *Section) UnmarshalYAML(value *yaml.Node) error {
	var raw map[string]any
	if err := value.Decode(&raw); err != nil {
		return err
	}

	out := make(Section, len(raw))
	for k, v := range raw {
		switch val := v.(type) {
		case string:
			out[k] = val
		case nil:
			out[k] = ""
		default:
			// Scalars only; nested mappings inside a section are a
			// configuration mistake worth surfacing.
			if _, isMap := v.(map[string]any); isMap {
				return fmt.Errorf("section key %q: nested mappings are not supported", k)
			}
			out[k] = fmt.Sprint(val)
		}
	}
	*s = out
	return nil
}

// File represents the structure of the portalwatch configuration file.
//
// Example:
//
//	general:
//	  update_period: 60
//	portals:
//	  campus:
//	    username: jdoe
//	    password: hunter2
//	    account: internal
type File struct {
	// General holds process-wide settings such as update_period (seconds
	// between checks).
	General Section `yaml:"general,omitempty"`

	// Portals maps a vendor name (a handler identity, e.g. "campus") to
	// its credential section. Keys within a section are vendor-specific.
	Portals map[string]Section `yaml:"portals,omitempty"`
}

// NewFile returns an empty configuration file structure with initialized
// maps, safe to use when no configuration file was found.
func NewFile() *File {
	return &File{
		General: Section{},
		Portals: make(map[string]Section),
	}
}

// Portal returns the credential section for the given vendor name, or an
// empty section if the vendor is not configured.
func (f *File) Portal(vendor string) Section {
	if s, ok := f.Portals[vendor]; ok {
		return s
	}
	return Section{}
}

// Package config provides the (section, key, default) configuration
// source consulted when counters are constructed.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source resolves configuration values by section and key, falling back
// to the caller's default when a value is absent.
type Source interface {
	GetInt(section, key string, def int) int
}

// Static is an in-memory Source for tests and embedders that configure
// programmatically. The zero value resolves everything to defaults.
type Static map[string]map[string]int

// GetInt returns the configured value or def.
func (s Static) GetInt(section, key string, def int) int {
	if sec, ok := s[section]; ok {
		if v, ok := sec[key]; ok {
			return v
		}
	}
	return def
}

// File is a YAML-backed Source. The document is a mapping of sections to
// key/value mappings:
//
//	perfcounter:
//	  computation_interval_seconds: 30
type File struct {
	sections map[string]map[string]any
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return f, nil
}

// Parse parses YAML configuration data.
func Parse(data []byte) (*File, error) {
	sections := make(map[string]map[string]any)
	if err := yaml.Unmarshal(data, &sections); err != nil {
		return nil, err
	}
	return &File{sections: sections}, nil
}

// GetInt returns the configured integer or def when the section or key is
// missing or not an integer.
func (f *File) GetInt(section, key string, def int) int {
	sec, ok := f.sections[section]
	if !ok {
		return def
	}
	v, ok := sec[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

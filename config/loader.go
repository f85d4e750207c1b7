// Package config loads YAML configuration into typed structs.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Validator is implemented by configuration types that can check
// themselves after decoding.
type Validator interface {
	Validate() error
}

// Defaulter is implemented by configuration types that fill unset fields
// after decoding and before validation.
type Defaulter interface {
	ApplyDefaults()
}

// LoadYAML reads the YAML file at path into target.
func LoadYAML[T any](path string, target *T) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", path, err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("configuration file does not exist: %s", absPath)
		}
		return fmt.Errorf("failed to read configuration file %q: %w", absPath, err)
	}

	return decode(data, target)
}

// LoadYAMLFromString decodes YAML held in memory into target.
func LoadYAMLFromString[T any](yamlContent string, target *T) error {
	return decode([]byte(yamlContent), target)
}

func decode[T any](data []byte, target *T) error {
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("failed to parse YAML configuration: %w", err)
	}

	if d, ok := any(target).(Defaulter); ok {
		d.ApplyDefaults()
	}

	if v, ok := any(target).(Validator); ok {
		if err := v.Validate(); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	return nil
}

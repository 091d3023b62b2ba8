// Package config provides YAML-based configuration loading with environment variable expansion.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"
)

// Validator is an interface for configuration validation.
type Validator interface {
	Validate() error
}

// Override adjusts a loaded configuration, e.g. from command-line flags.
type Override[T any] func(*T)

// Load fills target from a YAML file with environment variable expansion, then
// applies overrides in order and validates the result. A missing file leaves
// target unchanged so defaults and overrides alone can configure the program.
func Load[T any](filename string, target *T, overrides ...Override[T]) error {
	if err := decodeFile(filename, target); err != nil {
		return err
	}

	for _, o := range overrides {
		o(target)
	}

	if validator, ok := any(target).(Validator); ok {
		if err := validator.Validate(); err != nil {
			return fmt.Errorf("config validation failed: %w", err)
		}
	}

	return nil
}

func decodeFile[T any](filename string, target *T) error {
	if filename == "" {
		return nil
	}
	data, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read config file %s: %w", filename, err)
	}

	expandedData := os.ExpandEnv(string(data))

	if err := yaml.Unmarshal([]byte(expandedData), target); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", filename, err)
	}
	return nil
}

// Package config provides tool-level configuration: defaults for the build
// flags, loaded from ~/.cargo-magisk/config.yaml and the environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cargo-magisk/cli/internal/project"
)

// LogConfig contains logging-related settings.
type LogConfig struct {
	// Timestamps controls whether timestamps are shown in log output.
	// Default: true. Override with --timestamps flag.
	Timestamps *bool `mapstructure:"timestamps" yaml:"timestamps,omitempty"`
}

// Config is the contents of the config file.
type Config struct {
	// Target is the default build target, a rustc triple or ABI name.
	// Env: CARGO_MAGISK_TARGET
	Target string `mapstructure:"target" yaml:"target,omitempty"`

	// Release selects the release profile by default.
	// Env: CARGO_MAGISK_RELEASE
	Release *bool `mapstructure:"release" yaml:"release,omitempty"`

	// CargoToolchain is passed to cargo as +<toolchain>.
	// Env: CARGO_MAGISK_CARGO_TOOLCHAIN
	CargoToolchain string `mapstructure:"cargoToolchain" yaml:"cargoToolchain,omitempty"`

	// Pack zips the staged module after every build.
	// Env: CARGO_MAGISK_PACK
	Pack *bool `mapstructure:"pack" yaml:"pack,omitempty"`

	// Log contains logging-related settings.
	Log LogConfig `mapstructure:"log" yaml:"log,omitempty"`
}

func boolPtr(b bool) *bool { return &b }

// DefaultConfig returns a Config with all default values populated.
// Used by `config init` to generate the initial config file.
func DefaultConfig() *Config {
	return &Config{
		Target:  project.Arm64V8a.Triple(),
		Release: boolPtr(false),
		Pack:    boolPtr(false),
		Log: LogConfig{
			Timestamps: boolPtr(true),
		},
	}
}

// WriteDefault writes DefaultConfig to path as YAML. An existing file is
// only replaced when force is set.
func WriteDefault(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s: %w", path, os.ErrExist)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return fmt.Errorf("encoding default config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/cargo-magisk/cli/internal/output"
	"github.com/cargo-magisk/cli/internal/project"
)

// ConfigSource indicates where a configuration value came from.
type ConfigSource string

const (
	// SourceFlag indicates value came from command-line flag.
	SourceFlag ConfigSource = "flag"
	// SourceEnv indicates value came from environment variable.
	SourceEnv ConfigSource = "env"
	// SourceConfig indicates value came from config file.
	SourceConfig ConfigSource = "config"
	// SourceDefault indicates value is the built-in default.
	SourceDefault ConfigSource = "default"
)

// ResolvedValue records how one setting was resolved.
type ResolvedValue struct {
	Key    string
	Value  string
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// Flags holds command-line values. A nil pointer means the flag was not set.
type Flags struct {
	Target         *string
	Release        *bool
	CargoToolchain *string
	Pack           *bool
	Timestamps     *bool
}

// Settings is the effective configuration of one invocation.
type Settings struct {
	Target         project.Target
	Release        bool
	CargoToolchain string
	Pack           bool
	Timestamps     bool

	// Values lists the resolution of every key, for verbose logging.
	Values []ResolvedValue
}

// resolve picks the first set value in flag > env > config > default order.
func resolve(key, envVar string, flag, file *string, def string) ResolvedValue {
	rv := ResolvedValue{Key: key, Shadowed: make(map[ConfigSource]string)}

	candidates := []struct {
		source ConfigSource
		value  *string
	}{
		{SourceFlag, flag},
		{SourceEnv, lookupEnv(envVar)},
		{SourceConfig, file},
		{SourceDefault, &def},
	}
	for _, c := range candidates {
		if c.value == nil {
			continue
		}
		if rv.Source == "" {
			rv.Value = *c.value
			rv.Source = c.source
			continue
		}
		rv.Shadowed[c.source] = *c.value
	}
	return rv
}

func lookupEnv(name string) *string {
	if v, ok := os.LookupEnv(name); ok && v != "" {
		return &v
	}
	return nil
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func formatBool(b *bool) *string {
	if b == nil {
		return nil
	}
	s := strconv.FormatBool(*b)
	return &s
}

// Resolve merges flags, environment, the config file and defaults into
// Settings. file may be nil when no config file exists.
func Resolve(flags Flags, file *Config) (*Settings, error) {
	if file == nil {
		file = &Config{}
	}
	def := DefaultConfig()

	values := []ResolvedValue{
		resolve("target", EnvTarget, flags.Target, stringPtr(file.Target), def.Target),
		resolve("release", EnvRelease, formatBool(flags.Release), formatBool(file.Release), strconv.FormatBool(*def.Release)),
		resolve("cargoToolchain", EnvCargoToolchain, flags.CargoToolchain, stringPtr(file.CargoToolchain), def.CargoToolchain),
		resolve("pack", EnvPack, formatBool(flags.Pack), formatBool(file.Pack), strconv.FormatBool(*def.Pack)),
		resolve("log.timestamps", EnvLogTimestamps, formatBool(flags.Timestamps), formatBool(file.Log.Timestamps), strconv.FormatBool(*def.Log.Timestamps)),
	}

	s := &Settings{Values: values}
	var err error
	if s.Target, err = project.ParseTarget(values[0].Value); err != nil {
		return nil, sourceError(values[0], err)
	}
	if s.Release, err = strconv.ParseBool(values[1].Value); err != nil {
		return nil, sourceError(values[1], err)
	}
	s.CargoToolchain = values[2].Value
	if s.Pack, err = strconv.ParseBool(values[3].Value); err != nil {
		return nil, sourceError(values[3], err)
	}
	if s.Timestamps, err = strconv.ParseBool(values[4].Value); err != nil {
		return nil, sourceError(values[4], err)
	}
	return s, nil
}

// ResolveTimestamps resolves log.timestamps on its own. Logging is set up
// before any subcommand settings are resolved.
func ResolveTimestamps(flag *bool, file *Config) (ResolvedValue, bool, error) {
	var fileValue *bool
	if file != nil {
		fileValue = file.Log.Timestamps
	}
	rv := resolve("log.timestamps", EnvLogTimestamps, formatBool(flag), formatBool(fileValue), "true")
	b, err := strconv.ParseBool(rv.Value)
	if err != nil {
		return rv, true, sourceError(rv, err)
	}
	return rv, b, nil
}

func sourceError(rv ResolvedValue, err error) error {
	return fmt.Errorf("invalid %s %q from %s: %w", rv.Key, rv.Value, rv.Source, err)
}

// ResolveConfigPathResult contains the resolved config path and its source.
type ResolveConfigPathResult struct {
	// ConfigPath is the resolved config file path.
	ConfigPath string
	// Source indicates where the config path came from.
	Source ConfigSource
	// Shadowed contains values that were overridden by higher precedence.
	Shadowed map[ConfigSource]string
}

// ResolveConfigPath resolves the config file path using precedence:
// (1) --config flag, (2) CARGO_MAGISK_CONFIG env, (3) ~/.cargo-magisk/config.yaml
func ResolveConfigPath(flagValue string) (ResolveConfigPathResult, error) {
	paths, err := DefaultPaths()
	if err != nil {
		return ResolveConfigPathResult{}, err
	}
	rv := resolve("config", EnvConfig, stringPtr(flagValue), nil, paths.ConfigFile)
	return ResolveConfigPathResult{
		ConfigPath: rv.Value,
		Source:     rv.Source,
		Shadowed:   rv.Shadowed,
	}, nil
}

// LogResolvedValues logs configuration resolution at DEBUG level.
func LogResolvedValues(values []ResolvedValue) {
	for _, v := range values {
		output.Debug("config value resolved",
			"key", v.Key,
			"value", v.Value,
			"source", v.Source,
		)
		for source, shadowed := range v.Shadowed {
			output.Debug("  shadowed by higher precedence",
				"key", v.Key,
				"shadowed_source", source,
				"shadowed_value", shadowed,
			)
		}
	}
}

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/spf13/viper"
)

// Environment variables recognised by the loader and the resolver.
const (
	envPrefix = "CARGO_MAGISK"

	EnvConfig         = "CARGO_MAGISK_CONFIG"
	EnvTarget         = "CARGO_MAGISK_TARGET"
	EnvRelease        = "CARGO_MAGISK_RELEASE"
	EnvCargoToolchain = "CARGO_MAGISK_CARGO_TOOLCHAIN"
	EnvPack           = "CARGO_MAGISK_PACK"
	EnvLogTimestamps  = "CARGO_MAGISK_LOG_TIMESTAMPS"
)

// Loader reads the config file with viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a loader that overlays environment variables on the
// file, giving the effective configuration.
func NewLoader() *Loader {
	v := viper.New()

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("target", EnvTarget)
	_ = v.BindEnv("release", EnvRelease)
	_ = v.BindEnv("cargoToolchain", EnvCargoToolchain)
	_ = v.BindEnv("pack", EnvPack)
	_ = v.BindEnv("log.timestamps", EnvLogTimestamps)

	return &Loader{v: v}
}

// NewFileLoader creates a loader that reads the file only. The resolver
// consults the environment itself so it can report where a value came from.
func NewFileLoader() *Loader {
	return &Loader{v: viper.New()}
}

// Load loads configuration from configFile. A missing file is not an error
// and yields an empty Config.
func (l *Loader) Load(configFile string) (*Config, error) {
	expandedPath, err := ExpandPath(configFile)
	if err != nil {
		return nil, fmt.Errorf("expanding config path: %w", err)
	}

	l.v.SetConfigFile(expandedPath)
	l.v.SetConfigType("yaml")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/cargo-magisk/cli/internal/config"
	"github.com/cargo-magisk/cli/internal/project"
)

// projectFlags are shared by every command that works on a crate.
type projectFlags struct {
	Target       string
	Release      bool
	ManifestPath string
}

// AddTo registers the flags on cmd.
func (f *projectFlags) AddTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.Target, "target", "t", "",
		"Android target: a rustc triple or ABI name (env: CARGO_MAGISK_TARGET)")
	cmd.Flags().BoolVar(&f.Release, "release", false,
		"Use the release profile (env: CARGO_MAGISK_RELEASE)")
	cmd.Flags().StringVar(&f.ManifestPath, "manifest-path", "",
		"Path to Cargo.toml (default: search upwards from the working directory)")
}

// configFlags converts the flags the user actually set into config.Flags.
func (f *projectFlags) configFlags(cmd *cobra.Command) config.Flags {
	var cf config.Flags
	if cmd.Flags().Changed("target") {
		cf.Target = &f.Target
	}
	if cmd.Flags().Changed("release") {
		cf.Release = &f.Release
	}
	return cf
}

// finder returns the manifest finder selected by --manifest-path.
func (f *projectFlags) finder() project.ManifestFinder {
	if f.ManifestPath != "" {
		return project.StaticFinder(f.ManifestPath)
	}
	wd, _ := os.Getwd()
	return project.WalkFinder{Start: wd}
}

// resolveSettings merges cf with env, the config file and defaults, and logs
// where every value came from.
func resolveSettings(cf config.Flags) (*config.Settings, error) {
	settings, err := config.Resolve(cf, fileConfig)
	if err != nil {
		return nil, reportError("resolving settings", configError(configPath, err))
	}
	config.LogResolvedValues(settings.Values)
	return settings, nil
}

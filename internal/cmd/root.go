package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cargo-magisk/cli/internal/config"
	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/output"
)

var (
	// Global flags
	configFlag     string
	verboseFlag    bool
	timestampsFlag bool

	// Loaded during PersistentPreRunE.
	configPath string
	fileConfig *config.Config
)

// NewRootCmd creates the root command for the cargo-magisk CLI.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "cargo-magisk",
		Short: "Package Rust crates as Magisk modules",
		Long: `cargo-magisk builds a crate for an Android target and stages the result as a
Magisk module, driven by the [package.metadata.magisk] table of Cargo.toml.

It can be run directly or as a cargo subcommand: cargo magisk build -t arm64-v8a`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initializeGlobals(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Path to config file (env: CARGO_MAGISK_CONFIG)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&timestampsFlag, "timestamps", true, "Show timestamps in log output (env: CARGO_MAGISK_LOG_TIMESTAMPS)")

	rootCmd.AddCommand(NewBuildCmd())
	rootCmd.AddCommand(NewDeployCmd())
	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewConfigCmd())
	rootCmd.AddCommand(NewVersionCmd())

	return rootCmd
}

// NormalizeArgs drops the "magisk" argument cargo inserts when the binary is
// run as `cargo magisk ...`.
func NormalizeArgs(args []string) []string {
	if len(args) > 0 && args[0] == "magisk" {
		return args[1:]
	}
	return args
}

// initializeGlobals sets up logging and loads the config file.
func initializeGlobals(cmd *cobra.Command) error {
	fileConfig = nil
	configPath = ""

	pathResult, err := config.ResolveConfigPath(configFlag)
	if err != nil {
		// No home directory; run on flags, env and defaults only.
		output.Debug("config path not resolved", "error", err)
	} else {
		configPath = pathResult.ConfigPath
		cfg, err := config.NewFileLoader().Load(configPath)
		if err != nil {
			return reportError("loading configuration", configError(configPath, err))
		}
		fileConfig = cfg
	}

	var flag *bool
	if cmd.Flags().Changed("timestamps") {
		flag = output.BoolPtr(timestampsFlag)
	}
	_, timestamps, err := config.ResolveTimestamps(flag, fileConfig)
	output.SetupLogging(output.LogConfig{
		Verbose:    verboseFlag,
		Timestamps: output.BoolPtr(timestamps),
	})
	if err != nil {
		return reportError("resolving log.timestamps", configError(configPath, err))
	}

	if verboseFlag {
		output.Debug("initializing CLI",
			"config", configPath,
			"command", cmd.CommandPath(),
		)
	}
	return nil
}

// configError reports a bad config file or environment value as a
// validation failure.
func configError(path string, err error) error {
	return &merrors.DetailError{
		Type:     "validation failed",
		Message:  err.Error(),
		Location: path,
		Hint:     "Fix the value or regenerate the file with 'cargo magisk config init --force'",
		Cause:    merrors.ErrValidation,
	}
}

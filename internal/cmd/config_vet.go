package cmd

import (
	"errors"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/cargo-magisk/cli/internal/config"
	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/output"
)

// NewConfigVetCmd creates the config vet command.
func NewConfigVetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "vet",
		Short: "Validate configuration",
		Long: `Validate the cargo-magisk configuration.

Checks performed:
  1. Config file exists at the resolved path
  2. Config file is valid YAML
  3. Every value, with CARGO_MAGISK_* environment overrides applied, is valid

Examples:
  cargo magisk config vet
  cargo magisk config vet --config /path/to/config.yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			output.Debug("validating config", "path", configPath)

			if _, err := os.Stat(configPath); errors.Is(err, fs.ErrNotExist) || configPath == "" {
				return reportError("validating configuration", merrors.NewNotFoundError(
					"configuration file not found",
					configPath,
					"Run 'cargo magisk config init' to create default configuration",
				))
			}

			if err := config.ValidateFile(configPath); err != nil {
				return reportError("validating configuration", configError(configPath, err))
			}

			output.Println(output.FormatCheckmark("Configuration is valid: " + configPath))
			return nil
		},
	}
}

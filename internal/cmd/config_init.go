package cmd

import (
	"errors"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/cargo-magisk/cli/internal/config"
	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/output"
)

// NewConfigInitCmd creates the config init command.
func NewConfigInitCmd() *cobra.Command {
	var forceFlag bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize default configuration",
		Long: `Write the default configuration file.

The file is written to the resolved config path:
  --config flag > CARGO_MAGISK_CONFIG env > ~/.cargo-magisk/config.yaml

Examples:
  cargo magisk config init
  cargo magisk config init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return reportError("initializing configuration",
					merrors.NewNotFoundError("could not determine the config path", "", "Pass --config or set CARGO_MAGISK_CONFIG"))
			}

			err := config.WriteDefault(configPath, forceFlag)
			switch {
			case errors.Is(err, fs.ErrExist):
				return reportError("initializing configuration", &merrors.DetailError{
					Type:     "validation failed",
					Message:  "configuration already exists",
					Location: configPath,
					Hint:     "Use --force to overwrite existing configuration.",
					Cause:    merrors.ErrValidation,
				})
			case err != nil:
				return reportError("initializing configuration", err)
			}

			output.Println(output.FormatCheckmark("Configuration initialized at " + configPath))
			output.Println("Validate with: cargo magisk config vet")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&forceFlag, "force", "f", false, "Overwrite existing configuration")

	return cmd
}

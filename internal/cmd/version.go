package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargo-magisk/cli/internal/output"
	"github.com/cargo-magisk/cli/internal/version"
)

// NewVersionCmd creates the version command.
func NewVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long: `Show cargo-magisk version information.

Displays:
  - cargo-magisk version, commit, and build date
  - the cargo found in PATH`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			info := version.Get()

			output.Println(fmt.Sprintf("cargo-magisk version %s", info.Version))
			output.Println(fmt.Sprintf("  Commit:    %s", info.GitCommit))
			output.Println(fmt.Sprintf("  Built:     %s", info.BuildDate))
			output.Println(fmt.Sprintf("  Go:        %s", info.GoVersion))
			if info.IsDevBuild() {
				output.Debug("development build", "version", info.Version)
			}

			output.Println("")
			output.Println("cargo:")
			output.Println(version.DetectCargo().String())
			return nil
		},
	}
}

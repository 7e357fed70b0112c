package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cargo-magisk/cli/internal/project"
)

// NewDeployCmd creates the deploy command.
func NewDeployCmd() *cobra.Command {
	var pf projectFlags
	var packFlag bool

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Stage the module from existing build output",
		Long: `Compile the manifest and stage the module without running cargo.

The staging directory target/<triple>/<profile>/magisk is removed and
rebuilt from scratch on every run.

Examples:
  cargo magisk deploy -t arm64-v8a --release
  cargo magisk deploy --manifest-path ../crate/Cargo.toml --pack`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cf := pf.configFlags(cmd)
			if cmd.Flags().Changed("pack") {
				cf.Pack = &packFlag
			}
			settings, err := resolveSettings(cf)
			if err != nil {
				return err
			}
			finder := pf.finder()
			proj := project.New(settings.Target, settings.Release, finder)
			return stageModule(cmd.Context(), finder, proj, settings.Pack)
		},
	}

	pf.AddTo(cmd)
	cmd.Flags().BoolVar(&packFlag, "pack", false,
		"Zip the staged module (env: CARGO_MAGISK_PACK)")

	return cmd
}

package cmd

import (
	"bytes"
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cargo-magisk/cli/internal/cargo"
	"github.com/cargo-magisk/cli/internal/output"
	"github.com/cargo-magisk/cli/internal/project"
)

// NewBuildCmd creates the build command.
func NewBuildCmd() *cobra.Command {
	var pf projectFlags

	var (
		toolchainFlag string
		skipCargoFlag bool
		packFlag      bool
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the crate and stage it as a Magisk module",
		Long: `Build the crate with cargo for an Android target, then stage the module
described by [package.metadata.magisk] under target/<triple>/<profile>/magisk.

Examples:
  # Debug build for arm64
  cargo magisk build -t arm64-v8a

  # Release build with a nightly toolchain, packed into a zip
  cargo magisk build -t aarch64-linux-android --release --cargo-toolchain nightly --pack

  # Restage without rebuilding
  cargo magisk build -t x86_64 --skip-cargo`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cf := pf.configFlags(cmd)
			if cmd.Flags().Changed("cargo-toolchain") {
				cf.CargoToolchain = &toolchainFlag
			}
			if cmd.Flags().Changed("pack") {
				cf.Pack = &packFlag
			}

			settings, err := resolveSettings(cf)
			if err != nil {
				return err
			}

			finder := pf.finder()
			proj := project.New(settings.Target, settings.Release, finder)

			if !skipCargoFlag {
				if err := runCargo(cmd.Context(), proj, settings.CargoToolchain); err != nil {
					return err
				}
			}
			return stageModule(cmd.Context(), finder, proj, settings.Pack)
		},
	}

	pf.AddTo(cmd)
	cmd.Flags().StringVar(&toolchainFlag, "cargo-toolchain", "",
		"Toolchain passed to cargo as +<toolchain> (env: CARGO_MAGISK_CARGO_TOOLCHAIN)")
	cmd.Flags().BoolVar(&skipCargoFlag, "skip-cargo", false,
		"Do not run cargo; stage the existing build output")
	cmd.Flags().BoolVar(&packFlag, "pack", false,
		"Zip the staged module into target/<triple>/<profile>/<id>-<version>.zip (env: CARGO_MAGISK_PACK)")

	return cmd
}

// runCargo builds the crate. On a terminal cargo's output is captured behind
// a spinner and only shown on failure; otherwise, or with --verbose, it is
// streamed.
func runCargo(ctx context.Context, proj *project.Project, toolchain string) error {
	bin := cargo.NewBinary(toolchain)
	build := func() error { return bin.Build(ctx, proj) }
	profile := project.Profile(proj.Release())

	var err error
	if verboseFlag || !output.IsTTY() {
		output.Info("building", "target", proj.Target().Triple(), "profile", profile, "toolchain", toolchain)
		err = output.RunWithSpinner(ctx, build, output.WithoutSpinner())
	} else {
		var buf bytes.Buffer
		bin.Stdout = &buf
		bin.Stderr = &buf
		err = output.RunWithSpinner(ctx, build,
			output.WithTitle(fmt.Sprintf("cargo build --target %s (%s)", proj.Target().Triple(), profile)))
		if err != nil {
			output.Details(buf.String())
		}
	}
	if err != nil {
		return reportError("cargo build failed", err)
	}
	return nil
}

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/cargo-magisk/cli/internal/build"
	"github.com/cargo-magisk/cli/internal/core/asset"
	"github.com/cargo-magisk/cli/internal/output"
	"github.com/cargo-magisk/cli/internal/project"
)

// moduleView is the serialized form of a compiled descriptor.
type moduleView struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Version     string `json:"version" yaml:"version"`
	VersionCode string `json:"versionCode" yaml:"versionCode"`
	Author      string `json:"author" yaml:"author"`
}

type assetView struct {
	Source string `json:"source" yaml:"source"`
	Dest   string `json:"dest" yaml:"dest"`
}

// inspectView is what inspect prints in yaml and json form.
type inspectView struct {
	Manifest   string      `json:"manifest" yaml:"manifest"`
	Target     string      `json:"target" yaml:"target"`
	Profile    string      `json:"profile" yaml:"profile"`
	StagingDir string      `json:"stagingDir" yaml:"stagingDir"`
	Module     moduleView  `json:"module" yaml:"module"`
	Assets     []assetView `json:"assets" yaml:"assets"`
}

func newInspectView(cfg *build.Config, proj project.Provider) (inspectView, error) {
	staging, err := asset.StagingDir(proj)
	if err != nil {
		return inspectView{}, err
	}
	m := cfg.Module
	v := inspectView{
		Manifest:   cfg.ManifestPath,
		Target:     proj.Target().Triple(),
		Profile:    project.Profile(proj.Release()),
		StagingDir: staging,
		Module: moduleView{
			ID:          m.ID(),
			Name:        m.Name(),
			Version:     m.Version(),
			VersionCode: m.VersionCode().String(),
			Author:      m.Author(),
		},
		Assets: make([]assetView, 0, len(cfg.Assets)),
	}
	for _, a := range cfg.Assets {
		v.Assets = append(v.Assets, assetView{Source: a.Source, Dest: a.Dest})
	}
	return v, nil
}

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	var pf projectFlags
	var outputFlag string

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Show the compiled module descriptor",
		Long: `Compile the manifest and print the module descriptor and the resolved asset
paths without touching the filesystem.

Output formats:
  yaml    descriptor and assets as YAML (default)
  json    descriptor and assets as JSON
  table   descriptor fields and an asset table
  prop    the module.prop that deploy would write

Examples:
  cargo magisk inspect -t arm64-v8a
  cargo magisk inspect -o prop`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, ok := output.ParseFormat(outputFlag)
			if !ok {
				return &ExitError{
					Code: ExitGeneralError,
					Err:  fmt.Errorf("invalid output format %q (valid: %v)", outputFlag, output.ValidFormats()),
				}
			}

			settings, err := resolveSettings(pf.configFlags(cmd))
			if err != nil {
				return err
			}
			finder := pf.finder()
			proj := project.New(settings.Target, settings.Release, finder)

			cfg, err := compileManifest(cmd.Context(), finder, proj)
			if err != nil {
				return err
			}
			return writeInspect(cmd.OutOrStdout(), format, cfg, proj)
		},
	}

	pf.AddTo(cmd)
	cmd.Flags().StringVarP(&outputFlag, "output", "o", "yaml",
		"Output format: yaml, json, table, prop")

	return cmd
}

func writeInspect(w io.Writer, format output.Format, cfg *build.Config, proj project.Provider) error {
	switch format {
	case output.FormatProp:
		_, err := io.WriteString(w, cfg.Module.Prop())
		return err
	case output.FormatTable:
		fields := output.NewTable("KEY", "VALUE")
		for _, kv := range cfg.Module.PropEntries() {
			fields.Row(kv[0], kv[1])
		}
		assets := output.NewTable("#", "SOURCE", "DEST")
		for i, a := range cfg.Assets {
			assets.Row(fmt.Sprint(i), a.Source, a.Dest)
		}
		_, err := fmt.Fprintf(w, "%s\n%s\n", fields.String(), assets.String())
		return err
	default:
		v, err := newInspectView(cfg, proj)
		if err != nil {
			return err
		}
		return output.Encode(w, format, v)
	}
}

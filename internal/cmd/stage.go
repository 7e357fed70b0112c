package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/cargo-magisk/cli/internal/build"
	"github.com/cargo-magisk/cli/internal/core/asset"
	"github.com/cargo-magisk/cli/internal/deploy"
	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/output"
	"github.com/cargo-magisk/cli/internal/project"
)

// compileManifest loads and compiles the manifest, reporting failures with
// their manifest location.
func compileManifest(ctx context.Context, finder project.ManifestFinder, proj project.Provider) (*build.Config, error) {
	cfg, err := build.Load(ctx, finder, proj)
	if err != nil {
		manifestPath, _ := finder.FindManifestPath()
		return nil, reportError("compiling manifest", build.Detail(err, manifestPath))
	}
	return cfg, nil
}

// stageModule compiles the manifest, deploys it into the staging directory
// and optionally packs it.
func stageModule(ctx context.Context, finder project.ManifestFinder, proj *project.Project, pack bool) error {
	cfg, err := compileManifest(ctx, finder, proj)
	if err != nil {
		return err
	}

	modLog := output.ModuleLogger(cfg.Module.ID())
	modLog.Info(output.StyleAction.Render("staging")+" "+output.FormatModule(cfg.Module.ID(), cfg.Module.Version()),
		"versionCode", cfg.Module.VersionCode().String(),
		"target", proj.Target().Triple(),
		"profile", project.Profile(proj.Release()),
	)

	report, err := deploy.NewStager(proj).Deploy(ctx, cfg)
	if err != nil {
		return reportError("staging module", stagingDetail(proj, err))
	}

	files, err := deploy.StagedFiles(report.StagingDir)
	if err != nil {
		output.Warn("could not list staged files", "error", err)
	} else {
		output.Println(output.RenderFileTree(asset.StagingDirName, files))
	}

	if pack {
		archive, err := deploy.Pack(ctx, cfg, proj)
		if err != nil {
			return reportError("packing module", stagingDetail(proj, err))
		}
		modLog.Info(output.StyleAction.Render("packed")+" "+output.StyleNoun.Render(archive))
	}

	output.Println(output.FormatCheckmark(fmt.Sprintf("module %s staged in %s",
		output.FormatModule(cfg.Module.ID(), cfg.Module.Version()), report.StagingDir)))
	return nil
}

// stagingDetail adds context to errors a user can act on.
func stagingDetail(proj project.Provider, err error) error {
	var missing *deploy.AssetMissingError
	switch {
	case errors.As(err, &missing):
		return &merrors.DetailError{
			Type:     "not found",
			Message:  err.Error(),
			Location: missing.Source,
			Field:    fmt.Sprintf("package.metadata.magisk.assets[%d].source", missing.Index),
			Hint:     "Build the crate first or check that the asset path is spelled correctly",
			Cause:    err,
		}
	case errors.Is(err, fs.ErrPermission):
		dir, _ := proj.TargetPath()
		return merrors.NewPermissionError(err.Error(),
			map[string]string{"TargetPath": dir},
			"Check that the target directory is writable")
	default:
		return err
	}
}

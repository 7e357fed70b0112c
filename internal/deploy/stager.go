// Package deploy materializes a compiled module into the staging directory
// and optionally packs it into an installable zip.
package deploy

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cargo-magisk/cli/internal/build"
	"github.com/cargo-magisk/cli/internal/core/asset"
	"github.com/cargo-magisk/cli/internal/core/module"
	"github.com/cargo-magisk/cli/internal/output"
)

// Entry is one staged asset and what happened to it.
type Entry struct {
	Source string
	Dest   string
	Status string
}

// Report describes a finished deploy.
type Report struct {
	StagingDir string
	PropPath   string
	Entries    []Entry
}

// Stager writes the module layout under <build-output root>/magisk.
//
// Staging is not transactional: a failure leaves whatever was written so far
// in place, and the next Deploy starts by removing it.
type Stager struct {
	roots asset.Roots
}

// NewStager creates a stager for the given roots.
func NewStager(roots asset.Roots) *Stager {
	return &Stager{roots: roots}
}

// Deploy cleans the staging directory, copies every asset in manifest order
// and writes module.prop. It stops at the first failure.
func (s *Stager) Deploy(ctx context.Context, cfg *build.Config) (*Report, error) {
	dir, err := asset.StagingDir(s.roots)
	if err != nil {
		return nil, err
	}

	if err := s.Clean(); err != nil {
		return nil, err
	}

	modLog := output.ModuleLogger(cfg.Module.ID())
	report := &Report{StagingDir: dir}

	for i, a := range cfg.Assets {
		select {
		case <-ctx.Done():
			return report, fmt.Errorf("deploy canceled: %w", ctx.Err())
		default:
		}

		status, err := s.copyAsset(i, a)
		if err != nil {
			modLog.Error(output.FormatAssetLine(relTo(dir, a.Dest), output.StatusFailed))
			return report, err
		}
		modLog.Info(output.FormatAssetLine(relTo(dir, a.Dest), status))
		report.Entries = append(report.Entries, Entry{Source: a.Source, Dest: a.Dest, Status: status})
	}

	if err := s.WriteModuleProp(cfg.Module); err != nil {
		return report, err
	}
	report.PropPath = filepath.Join(dir, module.PropFileName)
	modLog.Info(output.FormatAssetLine(module.PropFileName, output.StatusWritten))

	return report, nil
}

// Clean removes the staging directory if it exists.
func (s *Stager) Clean() error {
	dir, err := asset.StagingDir(s.roots)
	if err != nil {
		return err
	}
	output.Debug("cleaning staging directory", "dir", dir)
	return ioErr("remove", dir, os.RemoveAll(dir))
}

// CopyAsset copies one asset into place and returns its staging status.
// A regular file keeps its permission bits; a directory has its contents
// copied into Dest. Any other source type is skipped.
func (s *Stager) CopyAsset(a asset.Asset) (string, error) {
	return s.copyAsset(0, a)
}

func (s *Stager) copyAsset(index int, a asset.Asset) (string, error) {
	info, err := os.Stat(a.Source)
	if errors.Is(err, fs.ErrNotExist) {
		return output.StatusFailed, &AssetMissingError{Index: index, Source: a.Source}
	}
	if err != nil {
		return output.StatusFailed, ioErr("stat", a.Source, err)
	}

	if err := os.MkdirAll(filepath.Dir(a.Dest), 0o755); err != nil {
		return output.StatusFailed, ioErr("mkdir", filepath.Dir(a.Dest), err)
	}

	switch {
	case info.Mode().IsRegular():
		if err := copyFile(a.Source, a.Dest, info.Mode().Perm()); err != nil {
			return output.StatusFailed, err
		}
	case info.IsDir():
		if err := copyDir(a.Source, a.Dest); err != nil {
			return output.StatusFailed, err
		}
	default:
		output.Warn("skipping asset that is neither a file nor a directory",
			"source", a.Source, "mode", info.Mode().Type().String())
		return output.StatusSkipped, nil
	}
	return output.StatusCopied, nil
}

// WriteModuleProp writes module.prop at the staging root, replacing any
// existing file.
func (s *Stager) WriteModuleProp(d *module.Descriptor) error {
	dir, err := asset.StagingDir(s.roots)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return ioErr("mkdir", dir, err)
	}
	path := filepath.Join(dir, module.PropFileName)
	return ioErr("write", path, os.WriteFile(path, []byte(d.Prop()), 0o644))
}

func copyFile(src, dst string, perm fs.FileMode) error {
	in, err := os.Open(src)
	if err != nil {
		return ioErr("open", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return ioErr("create", dst, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return ioErr("copy", dst, err)
	}
	if err := out.Close(); err != nil {
		return ioErr("close", dst, err)
	}
	// OpenFile applies the umask; restore the source bits.
	return ioErr("chmod", dst, os.Chmod(dst, perm))
}

func copyDir(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return ioErr("mkdir", dst, err)
	}
	return ioErr("copy", src, os.CopyFS(dst, os.DirFS(src)))
}

// relTo returns path relative to base in slash form, or path itself when it
// is not below base.
func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil {
		return path
	}
	return filepath.ToSlash(rel)
}

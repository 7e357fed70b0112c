package deploy

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/cargo-magisk/cli/internal/build"
	"github.com/cargo-magisk/cli/internal/core/asset"
)

// ArchivePath returns <build-output root>/<id>-<version>.zip.
func ArchivePath(cfg *build.Config, roots asset.Roots) (string, error) {
	root, err := roots.TargetPath()
	if err != nil {
		return "", err
	}
	name := fmt.Sprintf("%s-%s.zip", cfg.Module.ID(), cfg.Module.Version())
	return filepath.Join(root, name), nil
}

// Pack zips the staging directory so that module.prop sits at the archive
// root, which is the layout Magisk installs from. It returns the archive path.
func Pack(ctx context.Context, cfg *build.Config, roots asset.Roots) (string, error) {
	dir, err := asset.StagingDir(roots)
	if err != nil {
		return "", err
	}
	dest, err := ArchivePath(cfg, roots)
	if err != nil {
		return "", err
	}
	if err := zipDir(ctx, dir, dest); err != nil {
		return "", err
	}
	return dest, nil
}

func zipDir(ctx context.Context, srcDir, dest string) (err error) {
	f, err := os.Create(dest)
	if err != nil {
		return ioErr("create", dest, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = ioErr("close", dest, cerr)
		}
	}()

	w := zip.NewWriter(f)
	defer func() {
		if cerr := w.Close(); err == nil {
			err = ioErr("close", dest, cerr)
		}
	}()

	return filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return ioErr("walk", path, walkErr)
		}
		if ctx.Err() != nil {
			return fmt.Errorf("pack canceled: %w", ctx.Err())
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		info, err := d.Info()
		if err != nil {
			return ioErr("stat", path, err)
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return ioErr("zip", path, err)
		}
		header.Name = filepath.ToSlash(rel)
		header.Method = zip.Deflate

		writer, err := w.CreateHeader(header)
		if err != nil {
			return ioErr("zip", path, err)
		}
		return copyInto(writer, path)
	})
}

func copyInto(w io.Writer, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return ioErr("open", path, err)
	}
	defer file.Close()
	_, err = io.Copy(w, file)
	return ioErr("zip", path, err)
}

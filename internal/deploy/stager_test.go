package deploy

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargo-magisk/cli/internal/build"
	"github.com/cargo-magisk/cli/internal/core/asset"
	"github.com/cargo-magisk/cli/internal/core/module"
	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/testutil"
)

const crateManifest = `[package]
name = "hello"
version = "1.0.0-beta.2"

[package.metadata.magisk]
id = "hello"
name = "Hello Module"
author = "someone"
assets = [
  { source = "target/hello", dest = "system/bin/hello" },
  { source = "assets/customize.sh", dest = "customize.sh" },
  { source = "assets/webroot", dest = "webroot" },
]
`

// newCrate lays out a crate with a built binary and auxiliary assets and
// returns its roots and compiled config.
func newCrate(t *testing.T) (testutil.Roots, *build.Config) {
	t.Helper()
	roots := testutil.NewCrate(t, crateManifest, "aarch64-linux-android", "release")
	testutil.WriteFile(t, roots.Target, "hello", "ELF")
	testutil.WriteFile(t, roots.Project, "assets/customize.sh", "ui_print hello\n")
	testutil.WriteFile(t, roots.Project, "assets/webroot/index.html", "<html></html>")
	testutil.WriteFile(t, roots.Project, "assets/webroot/js/app.js", "init()")

	cfg, err := build.LoadFromPath(context.Background(), filepath.Join(roots.Project, "Cargo.toml"), roots)
	require.NoError(t, err)
	return roots, cfg
}

func TestDeploy(t *testing.T) {
	roots, cfg := newCrate(t)

	report, err := NewStager(roots).Deploy(context.Background(), cfg)
	require.NoError(t, err)

	staging := filepath.Join(roots.Target, asset.StagingDirName)
	assert.Equal(t, staging, report.StagingDir)
	assert.Equal(t, filepath.Join(staging, module.PropFileName), report.PropPath)
	require.Len(t, report.Entries, 3)
	for _, e := range report.Entries {
		assert.Equal(t, "copied", e.Status)
	}

	assert.Equal(t, map[string]string{
		"system/bin/hello":   "ELF",
		"customize.sh":       "ui_print hello\n",
		"webroot/index.html": "<html></html>",
		"webroot/js/app.js":  "init()",
		"module.prop": "id=hello\n" +
			"name=Hello Module\n" +
			"author=someone\n" +
			"version=1.0.0-beta.2\n" +
			"versionCode=010000202\n",
	}, testutil.Snapshot(t, staging))
}

func TestDeploy_Idempotent(t *testing.T) {
	roots, cfg := newCrate(t)
	stager := NewStager(roots)
	staging := filepath.Join(roots.Target, asset.StagingDirName)

	_, err := stager.Deploy(context.Background(), cfg)
	require.NoError(t, err)
	first := testutil.Snapshot(t, staging)

	// Leftovers from an earlier layout must not survive a redeploy.
	testutil.WriteFile(t, staging, "stale/file", "old")

	_, err = stager.Deploy(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, first, testutil.Snapshot(t, staging))
}

func TestDeploy_MissingSource(t *testing.T) {
	roots, cfg := newCrate(t)
	require.NoError(t, os.Remove(filepath.Join(roots.Project, "assets", "customize.sh")))

	report, err := NewStager(roots).Deploy(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, errors.Is(err, merrors.ErrAssetMissing))

	var missing *AssetMissingError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, 1, missing.Index)

	// The first asset was staged before the failure and module.prop was not.
	require.Len(t, report.Entries, 1)
	staging := filepath.Join(roots.Target, asset.StagingDirName)
	assert.FileExists(t, filepath.Join(staging, "system", "bin", "hello"))
	assert.NoFileExists(t, filepath.Join(staging, module.PropFileName))
}

func TestDeploy_Canceled(t *testing.T) {
	roots, cfg := newCrate(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewStager(roots).Deploy(ctx, cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCopyAsset_PreservesMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not meaningful on windows")
	}
	dir := t.TempDir()
	src := testutil.WriteFile(t, dir, "bin/tool", "#!/bin/sh\n")
	require.NoError(t, os.Chmod(src, 0o755))
	dst := filepath.Join(dir, "out", "nested", "tool")

	status, err := NewStager(testutil.Roots{Project: dir, Target: dir}).CopyAsset(asset.Asset{Source: src, Dest: dst})
	require.NoError(t, err)
	assert.Equal(t, "copied", status)

	info, err := os.Stat(dst)
	require.NoError(t, err)
	assert.Equal(t, fs.FileMode(0o755), info.Mode().Perm())
}

func TestWriteModuleProp_Overwrites(t *testing.T) {
	dir := t.TempDir()
	roots := testutil.Roots{Project: dir, Target: dir}
	testutil.WriteFile(t, dir, "magisk/module.prop", "garbage that is longer than the real thing\n")

	d, err := module.NewDescriptor("hello", "Hello", "2.0.0", "me")
	require.NoError(t, err)
	require.NoError(t, NewStager(roots).WriteModuleProp(d))

	data, err := os.ReadFile(filepath.Join(dir, "magisk", "module.prop"))
	require.NoError(t, err)
	assert.Equal(t, "id=hello\nname=Hello\nauthor=me\nversion=2.0.0\nversionCode=020000900\n", string(data))
}

func TestIOError_Unwrap(t *testing.T) {
	err := error(&IOError{Op: "write", Path: "/x", Err: fs.ErrPermission})
	assert.ErrorIs(t, err, merrors.ErrIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.Equal(t, "write /x: permission denied", err.Error())
}

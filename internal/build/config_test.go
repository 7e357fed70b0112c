package build

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargo-magisk/cli/internal/core/asset"
	"github.com/cargo-magisk/cli/internal/core/module"
	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/project"
)

type mockProject struct{}

func (mockProject) ProjectPath() (string, error) {
	return filepath.FromSlash("/workspace"), nil
}

func (mockProject) TargetPath() (string, error) {
	return filepath.FromSlash("/workspace/target/arch/build_type"), nil
}

const manifestHead = `
[package]
name = "cargo-magisk"
version = "1.2.3-rc.4"

[package.metadata.magisk]
id = "cargo-magisk"
name = "Cargo Magisk"
author = "someone"
`

func TestCompile(t *testing.T) {
	data := manifestHead + `assets = [
  { source = "target/cargo-magisk", dest = "system/bin/cargo-magisk" },
  { source = "assets/customize.sh", dest = "customize.sh" },
]
`
	cfg, err := Compile([]byte(data), mockProject{})
	require.NoError(t, err)

	assert.Equal(t, "cargo-magisk", cfg.Module.ID())
	assert.Equal(t, "010203304", cfg.Module.VersionCode().String())
	assert.Equal(t, []asset.Asset{
		{
			Source: filepath.FromSlash("/workspace/target/arch/build_type/cargo-magisk"),
			Dest:   filepath.FromSlash("/workspace/target/arch/build_type/magisk/system/bin/cargo-magisk"),
		},
		{
			Source: filepath.FromSlash("/workspace/assets/customize.sh"),
			Dest:   filepath.FromSlash("/workspace/target/arch/build_type/magisk/customize.sh"),
		},
	}, cfg.Assets)
}

func TestCompile_NoAssets(t *testing.T) {
	cfg, err := Compile([]byte(manifestHead), mockProject{})
	require.NoError(t, err)
	assert.Empty(t, cfg.Assets)
}

func TestCompile_FieldErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		sentinel error
		field    string
	}{
		{
			name:     "bad id",
			data:     "[package]\nversion = \"1.0.0\"\n[package.metadata.magisk]\nid = \"1_module\"\nname = \"n\"\nauthor = \"a\"\n",
			sentinel: merrors.ErrFieldValidation,
			field:    module.FieldID,
		},
		{
			name:     "missing author",
			data:     "[package]\nversion = \"1.0.0\"\n[package.metadata.magisk]\nid = \"mod\"\nname = \"n\"\n",
			sentinel: merrors.ErrFieldValidation,
			field:    module.FieldAuthor,
		},
		{
			name:     "missing version",
			data:     "[package]\n[package.metadata.magisk]\nid = \"mod\"\nname = \"n\"\nauthor = \"a\"\n",
			sentinel: merrors.ErrFieldValidation,
			field:    module.FieldVersion,
		},
		{
			name:     "bad version",
			data:     "[package]\nversion = \"100.0.0\"\n[package.metadata.magisk]\nid = \"mod\"\nname = \"n\"\nauthor = \"a\"\n",
			sentinel: merrors.ErrVersionFormat,
		},
		{
			name:     "no magisk table",
			data:     "[package]\nversion = \"1.0.0\"\n",
			sentinel: merrors.ErrManifestParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Compile([]byte(tt.data), mockProject{})
			require.Error(t, err)
			assert.Nil(t, cfg)
			assert.True(t, errors.Is(err, tt.sentinel), "got %v", err)
			assert.True(t, merrors.IsValidation(err))

			if tt.field != "" {
				var fe *module.FieldValidationError
				require.True(t, errors.As(err, &fe))
				assert.Equal(t, tt.field, fe.Field)
			}
		})
	}
}

func TestCompile_AssetErrorContext(t *testing.T) {
	data := manifestHead + `assets = [
  { source = "assets/ok.sh", dest = "ok.sh" },
  { source = "assets/fine.sh", dest = "../escape.sh" },
  { source = "../never-reached", dest = "x" },
]
`
	_, err := Compile([]byte(data), mockProject{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, merrors.ErrPathSafety))

	var ae *AssetError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, 1, ae.Index)
	assert.Equal(t, asset.RoleDest, ae.Role)
	assert.Equal(t, "../escape.sh", ae.Declared)
	assert.Equal(t, "package.metadata.magisk.assets[1].dest", ae.Field())
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, project.ManifestFileName)
	data := manifestHead + `assets = [{ source = "target/bin", dest = "system/bin/bin" }]` + "\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	proj := project.New(project.Arm64V8a, true, project.StaticFinder(path))
	cfg, err := Load(context.Background(), project.StaticFinder(path), proj)
	require.NoError(t, err)

	assert.Equal(t, path, cfg.ManifestPath)
	require.Len(t, cfg.Assets, 1)
	assert.Equal(t, filepath.Join(dir, "target", "aarch64-linux-android", "release", "bin"), cfg.Assets[0].Source)
	assert.Equal(t, filepath.Join(dir, "target", "aarch64-linux-android", "release", "magisk", "system", "bin", "bin"), cfg.Assets[0].Dest)
}

func TestLoad_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := LoadFromPath(ctx, "/nonexistent/Cargo.toml", mockProject{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestDetail(t *testing.T) {
	data := manifestHead + `assets = [{ source = "/etc/passwd", dest = "x" }]` + "\n"
	_, err := Compile([]byte(data), mockProject{})
	require.Error(t, err)

	detailed := Detail(err, "/workspace/Cargo.toml")
	var d *merrors.DetailError
	require.True(t, errors.As(detailed, &d))
	assert.Equal(t, "package.metadata.magisk.assets[0].source", d.Field)
	assert.Equal(t, "/etc/passwd", d.Context["Declared"])
	assert.True(t, errors.Is(detailed, merrors.ErrPathSafety))
	assert.Contains(t, detailed.Error(), "must be relative")
}

func TestDetail_PassThrough(t *testing.T) {
	plain := errors.New("disk on fire")
	assert.Same(t, plain, Detail(plain, ""))
	assert.Nil(t, Detail(nil, ""))
}

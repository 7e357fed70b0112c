// Package build compiles a crate manifest into the validated module
// description the stager consumes.
package build

import (
	"context"
	"fmt"

	"github.com/cargo-magisk/cli/internal/core/asset"
	"github.com/cargo-magisk/cli/internal/core/module"
	"github.com/cargo-magisk/cli/internal/manifest"
	"github.com/cargo-magisk/cli/internal/output"
	"github.com/cargo-magisk/cli/internal/project"
)

// Config is the compiled manifest: the module descriptor and the resolved
// asset list, in manifest order.
type Config struct {
	Module *module.Descriptor
	Assets []asset.Asset

	// ManifestPath is where the manifest was read from, empty for Compile.
	ManifestPath string
}

// Load finds the manifest through finder and compiles it.
func Load(ctx context.Context, finder project.ManifestFinder, roots asset.Roots) (*Config, error) {
	path, err := finder.FindManifestPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(ctx, path, roots)
}

// LoadFromPath compiles the manifest at path.
func LoadFromPath(ctx context.Context, path string, roots asset.Roots) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load manifest canceled: %w", ctx.Err())
	default:
	}

	res, err := manifest.ReadFile(path)
	if err != nil {
		return nil, err
	}
	for _, key := range res.Unknown {
		output.Warn("unknown manifest key ignored", "key", key, "manifest", path)
	}

	cfg, err := compile(res.Manifest, roots)
	if err != nil {
		return nil, err
	}
	cfg.ManifestPath = path
	output.Debug("manifest compiled",
		"manifest", path,
		"module", cfg.Module.String(),
		"versionCode", cfg.Module.VersionCode().String(),
		"assets", len(cfg.Assets),
	)
	return cfg, nil
}

// Compile decodes manifest text and compiles it against roots.
func Compile(data []byte, roots asset.Roots) (*Config, error) {
	res, err := manifest.Parse("", data)
	if err != nil {
		return nil, err
	}
	return compile(res.Manifest, roots)
}

// compile validates the scalar fields, encodes the version and resolves every
// asset, stopping at the first failure.
func compile(m *manifest.Manifest, roots asset.Roots) (*Config, error) {
	mg := m.Package.Metadata.Magisk

	desc, err := module.NewDescriptor(mg.ID, mg.Name, m.Package.Version, mg.Author)
	if err != nil {
		return nil, err
	}

	resolver := asset.NewResolver(roots)
	assets := make([]asset.Asset, 0, len(mg.Assets))
	for i, a := range mg.Assets {
		src, err := resolver.Source(a.Source)
		if err != nil {
			return nil, &AssetError{Index: i, Role: asset.RoleSource, Declared: a.Source, Cause: err}
		}
		dst, err := resolver.Dest(a.Dest)
		if err != nil {
			return nil, &AssetError{Index: i, Role: asset.RoleDest, Declared: a.Dest, Cause: err}
		}
		assets = append(assets, asset.Asset{Source: src, Dest: dst})
	}

	return &Config{Module: desc, Assets: assets}, nil
}

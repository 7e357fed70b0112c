// Package project locates the crate manifest and computes the project and
// build-output directories for an Android target.
package project

import (
	"fmt"
	"os"
	"path/filepath"

	merrors "github.com/cargo-magisk/cli/internal/errors"
)

// ManifestFileName is the file searched for when walking up the directory tree.
const ManifestFileName = "Cargo.toml"

// ManifestFinder locates the crate manifest.
type ManifestFinder interface {
	FindManifestPath() (string, error)
}

// Provider exposes the directories the descriptor compiler and stager work in.
type Provider interface {
	// ProjectPath is the directory containing the manifest.
	ProjectPath() (string, error)
	// TargetPath is the build-output root, <project>/target/<triple>/<profile>.
	TargetPath() (string, error)
	Target() Target
	Release() bool
}

// WalkFinder finds the manifest by walking up from Start (the working
// directory when empty).
type WalkFinder struct {
	Start string
}

// FindManifestPath implements ManifestFinder.
func (f WalkFinder) FindManifestPath() (string, error) {
	start := f.Start
	if start == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("getting working directory: %w", err)
		}
		start = wd
	}
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	for {
		candidate := filepath.Join(dir, ManifestFileName)
		if info, err := os.Stat(candidate); err == nil && info.Mode().IsRegular() {
			return candidate, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", merrors.NewNotFoundError(
				fmt.Sprintf("no %s found in %s or any parent directory", ManifestFileName, start),
				start,
				"Run inside a cargo project or pass --manifest-path",
			)
		}
		dir = parent
	}
}

// StaticFinder returns a fixed manifest path; used for --manifest-path.
type StaticFinder string

// FindManifestPath implements ManifestFinder.
func (f StaticFinder) FindManifestPath() (string, error) {
	path, err := filepath.Abs(string(f))
	if err != nil {
		return "", fmt.Errorf("resolving manifest path: %w", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", merrors.NewNotFoundError("manifest not found", path, "Check the --manifest-path value")
		}
		return "", fmt.Errorf("checking manifest: %w", err)
	}
	if info.IsDir() {
		path = filepath.Join(path, ManifestFileName)
	}
	return path, nil
}

// Project is the default Provider: the project root is the manifest's
// directory and the build output follows cargo's target/<triple>/<profile> layout.
type Project struct {
	target   Target
	release  bool
	manifest ManifestFinder
}

// New creates a Project.
func New(target Target, release bool, manifest ManifestFinder) *Project {
	return &Project{target: target, release: release, manifest: manifest}
}

// ProjectPath implements Provider.
func (p *Project) ProjectPath() (string, error) {
	manifestPath, err := p.manifest.FindManifestPath()
	if err != nil {
		return "", err
	}
	return filepath.Dir(manifestPath), nil
}

// TargetPath implements Provider.
func (p *Project) TargetPath() (string, error) {
	projectPath, err := p.ProjectPath()
	if err != nil {
		return "", err
	}
	return filepath.Join(projectPath, "target", p.target.Triple(), Profile(p.release)), nil
}

// Target implements Provider.
func (p *Project) Target() Target { return p.target }

// Release implements Provider.
func (p *Project) Release() bool { return p.release }

// Profile returns cargo's output directory name for the build profile.
func Profile(release bool) string {
	if release {
		return "release"
	}
	return "debug"
}

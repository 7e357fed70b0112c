// Package testutil provides test helpers for crate fixtures and staged trees.
package testutil

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

// Roots is a fixed pair of project and build-output roots.
type Roots struct {
	Project string
	Target  string
}

func (r Roots) ProjectPath() (string, error) { return r.Project, nil }
func (r Roots) TargetPath() (string, error)  { return r.Target, nil }

// NewCrate creates a crate directory containing manifest as Cargo.toml and
// returns roots for it, with the build output at target/<triple>/<profile>.
func NewCrate(t *testing.T, manifest, triple, profile string) Roots {
	t.Helper()
	dir := t.TempDir()
	WriteFile(t, dir, "Cargo.toml", manifest)
	return Roots{
		Project: dir,
		Target:  filepath.Join(dir, "target", triple, profile),
	}
}

// WriteFile creates a file with the given content in the specified directory.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write file %s: %v", path, err)
	}
	return path
}

// Snapshot reads every regular file below dir into a map keyed by
// slash-separated relative path. Used to compare staged trees.
func Snapshot(t *testing.T, dir string) map[string]string {
	t.Helper()
	files := make(map[string]string)
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		files[filepath.ToSlash(rel)] = string(data)
		return nil
	})
	if err != nil {
		t.Fatalf("failed to snapshot %s: %v", dir, err)
	}
	return files
}

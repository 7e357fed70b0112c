// Package asset resolves the source and destination paths declared in the
// manifest into absolute locations, refusing any path that could step outside
// the project or staging tree.
package asset

import (
	"fmt"
	"path/filepath"
	"strings"

	merrors "github.com/cargo-magisk/cli/internal/errors"
)

// StagingDirName is the directory under the build-output root that receives
// the module layout.
const StagingDirName = "magisk"

// targetSegment marks a source path as relative to the build-output root.
const targetSegment = "target"

// Role says which side of an asset mapping a path belongs to.
type Role string

const (
	RoleSource Role = "source"
	RoleDest   Role = "dest"
)

// PathSafetyError reports a declared path with a disallowed shape.
type PathSafetyError struct {
	Role   Role
	Path   string
	Reason string
}

func (e *PathSafetyError) Error() string {
	return fmt.Sprintf("%s path %q %s", e.Role, e.Path, e.Reason)
}

func (e *PathSafetyError) Unwrap() error {
	return merrors.ErrPathSafety
}

// Roots provides the two directories declared paths are resolved against.
// project.Provider satisfies it.
type Roots interface {
	ProjectPath() (string, error)
	TargetPath() (string, error)
}

// Asset maps one input file or directory to its place in the staging tree.
// Both paths are absolute.
type Asset struct {
	Source string
	Dest   string
}

// splitPath splits on '/' and on the OS separator, dropping empty segments.
func splitPath(p string) []string {
	return strings.FieldsFunc(p, func(r rune) bool {
		return r == '/' || r == filepath.Separator
	})
}

func isAbs(p string) bool {
	return strings.HasPrefix(p, "/") ||
		strings.HasPrefix(p, string(filepath.Separator)) ||
		filepath.IsAbs(p) ||
		filepath.VolumeName(p) != ""
}

// CheckPath rejects empty and absolute paths and any path with a ".", ".."
// or "..." component. The same rules apply to both roles.
func CheckPath(role Role, declared string) error {
	if declared == "" {
		return &PathSafetyError{Role: role, Path: declared, Reason: "must not be empty"}
	}
	if isAbs(declared) {
		return &PathSafetyError{Role: role, Path: declared, Reason: "must be relative"}
	}
	for _, seg := range splitPath(declared) {
		switch seg {
		case "..":
			return &PathSafetyError{Role: role, Path: declared, Reason: "must not contain '..'"}
		case ".":
			return &PathSafetyError{Role: role, Path: declared, Reason: "must not contain '.'"}
		case "...":
			return &PathSafetyError{Role: role, Path: declared, Reason: "must not contain '...'"}
		}
	}
	return nil
}

// Resolver turns declared paths into absolute ones.
type Resolver struct {
	roots Roots
}

// NewResolver creates a Resolver over roots.
func NewResolver(roots Roots) *Resolver {
	return &Resolver{roots: roots}
}

// Source resolves a source path. A leading "target" segment is stripped and
// the remainder resolved against the build-output root; anything else is
// resolved against the project root.
func (r *Resolver) Source(declared string) (string, error) {
	if err := CheckPath(RoleSource, declared); err != nil {
		return "", err
	}

	segs := splitPath(declared)
	if segs[0] == targetSegment {
		if len(segs) == 1 {
			return "", &PathSafetyError{
				Role:   RoleSource,
				Path:   declared,
				Reason: "must name an entry inside the build output, not the build output itself",
			}
		}
		root, err := absRoot(r.roots.TargetPath)
		if err != nil {
			return "", err
		}
		return filepath.Join(append([]string{root}, segs[1:]...)...), nil
	}

	root, err := absRoot(r.roots.ProjectPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{root}, segs...)...), nil
}

// Dest resolves a destination path under <build-output root>/magisk.
func (r *Resolver) Dest(declared string) (string, error) {
	if err := CheckPath(RoleDest, declared); err != nil {
		return "", err
	}
	staging, err := StagingDir(r.roots)
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{staging}, splitPath(declared)...)...), nil
}

// Resolve builds an Asset, resolving source before dest.
func (r *Resolver) Resolve(source, dest string) (Asset, error) {
	src, err := r.Source(source)
	if err != nil {
		return Asset{}, err
	}
	dst, err := r.Dest(dest)
	if err != nil {
		return Asset{}, err
	}
	return Asset{Source: src, Dest: dst}, nil
}

// StagingDir returns <build-output root>/magisk.
func StagingDir(roots Roots) (string, error) {
	root, err := absRoot(roots.TargetPath)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, StagingDirName), nil
}

func absRoot(get func() (string, error)) (string, error) {
	root, err := get()
	if err != nil {
		return "", err
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", root, err)
	}
	return abs, nil
}

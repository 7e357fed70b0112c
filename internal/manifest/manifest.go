// Package manifest decodes the magisk table of a Cargo.toml.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	merrors "github.com/cargo-magisk/cli/internal/errors"
)

// magiskKey is the table holding the module metadata.
const magiskKey = "package.metadata.magisk"

// Manifest is the subset of Cargo.toml the tool reads.
type Manifest struct {
	Package Package `toml:"package"`
}

// Package is the [package] table.
type Package struct {
	Name     string   `toml:"name"`
	Version  string   `toml:"version"`
	Metadata Metadata `toml:"metadata"`
}

// Metadata is the [package.metadata] table.
type Metadata struct {
	Magisk *Magisk `toml:"magisk"`
}

// Magisk is the [package.metadata.magisk] table.
type Magisk struct {
	ID     string  `toml:"id"`
	Name   string  `toml:"name"`
	Author string  `toml:"author"`
	Assets []Asset `toml:"assets"`
}

// Asset is one entry of the assets array, as written.
type Asset struct {
	Source string `toml:"source"`
	Dest   string `toml:"dest"`
}

// Result is a decoded manifest plus keys under the magisk table that were
// present but not understood.
type Result struct {
	Manifest *Manifest
	Unknown  []string
}

// ParseError reports malformed TOML or a missing magisk table.
type ParseError struct {
	Path string
	// Line is 1-based; zero when the error has no position.
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	loc := e.Path
	if loc == "" {
		loc = "manifest"
	}
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", loc, e.Line)
	}
	return fmt.Sprintf("%s: %v", loc, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{merrors.ErrManifestParse, e.Err}
}

// Location returns path:line, or just the path when no line is known.
func (e *ParseError) Location() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d", e.Path, e.Line)
	}
	return e.Path
}

// Parse decodes data. path is used only for error messages.
func Parse(path string, data []byte) (*Result, error) {
	var m Manifest
	md, err := toml.Decode(string(data), &m)
	if err != nil {
		perr := &ParseError{Path: path, Err: err}
		var terr toml.ParseError
		if errors.As(err, &terr) {
			perr.Line = terr.Position.Line
			perr.Err = errors.New(terr.Message)
		}
		return nil, perr
	}

	if m.Package.Metadata.Magisk == nil {
		return nil, &ParseError{Path: path, Err: fmt.Errorf("missing [%s] table", magiskKey)}
	}

	var unknown []string
	for _, key := range md.Undecoded() {
		if k := key.String(); strings.HasPrefix(k, magiskKey+".") {
			unknown = append(unknown, k)
		}
	}

	return &Result{Manifest: &m, Unknown: unknown}, nil
}

// ReadFile reads and decodes the manifest at path.
func ReadFile(path string) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, merrors.NewNotFoundError("manifest not found", path, "")
		}
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	return Parse(path, data)
}

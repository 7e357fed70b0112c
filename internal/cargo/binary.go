// Package cargo runs the cargo build that produces the module's native
// artifacts.
package cargo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/project"
)

// BuildError reports a cargo invocation that could not start or exited
// non-zero.
type BuildError struct {
	Args     []string
	ExitCode int
	Err      error
}

func (e *BuildError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("cargo %s: %v", strings.Join(e.Args, " "), e.Err)
	}
	return fmt.Sprintf("cargo %s failed with exit code %d", strings.Join(e.Args, " "), e.ExitCode)
}

func (e *BuildError) Unwrap() []error {
	if e.Err != nil {
		return []error{merrors.ErrBuildTool, e.Err}
	}
	return []error{merrors.ErrBuildTool}
}

// Binary wraps calls to the cargo binary.
type Binary struct {
	// Path is the path to cargo. If empty, "cargo" is used from PATH.
	Path string

	// Toolchain is passed as "+<toolchain>" when set, e.g. "nightly".
	Toolchain string

	// Stdout for cargo output. If nil, os.Stdout is used.
	Stdout io.Writer

	// Stderr for cargo diagnostics. If nil, os.Stderr is used.
	Stderr io.Writer
}

// NewBinary creates a Binary using "cargo" from PATH with the given toolchain.
func NewBinary(toolchain string) *Binary {
	return &Binary{
		Path:      "cargo",
		Toolchain: toolchain,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}

// BuildArgs returns the arguments for
// cargo [+toolchain] build --target <triple> [--release].
func BuildArgs(toolchain string, target project.Target, release bool) []string {
	var args []string
	if toolchain != "" {
		args = append(args, "+"+strings.TrimPrefix(toolchain, "+"))
	}
	args = append(args, "build", "--target", target.Triple())
	if release {
		args = append(args, "--release")
	}
	return args
}

// Build compiles the crate of proj for its target and profile, streaming
// cargo's output.
func (b *Binary) Build(ctx context.Context, proj project.Provider) error {
	dir, err := proj.ProjectPath()
	if err != nil {
		return err
	}
	return b.run(ctx, dir, BuildArgs(b.Toolchain, proj.Target(), proj.Release())...)
}

// run executes cargo in dir.
func (b *Binary) run(ctx context.Context, dir string, args ...string) error {
	cmd := exec.CommandContext(ctx, b.path(), args...)
	cmd.Dir = dir
	cmd.Stdout = b.stdout()
	cmd.Stderr = b.stderr()

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return &BuildError{Args: args, ExitCode: exitErr.ExitCode()}
		}
		return &BuildError{Args: args, ExitCode: -1, Err: err}
	}
	return nil
}

func (b *Binary) path() string {
	if b.Path != "" {
		return b.Path
	}
	return "cargo"
}

func (b *Binary) stdout() io.Writer {
	if b.Stdout != nil {
		return b.Stdout
	}
	return os.Stdout
}

func (b *Binary) stderr() io.Writer {
	if b.Stderr != nil {
		return b.Stderr
	}
	return os.Stderr
}

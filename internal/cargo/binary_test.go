package cargo

import (
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/project"
)

type fakeProject struct {
	dir     string
	target  project.Target
	release bool
}

func (p fakeProject) ProjectPath() (string, error) { return p.dir, nil }
func (p fakeProject) TargetPath() (string, error) {
	return filepath.Join(p.dir, "target", p.target.Triple(), project.Profile(p.release)), nil
}
func (p fakeProject) Target() project.Target { return p.target }
func (p fakeProject) Release() bool          { return p.release }

func TestBuildArgs(t *testing.T) {
	tests := []struct {
		name      string
		toolchain string
		target    project.Target
		release   bool
		want      []string
	}{
		{
			name:   "debug",
			target: project.Arm64V8a,
			want:   []string{"build", "--target", "aarch64-linux-android"},
		},
		{
			name:    "release",
			target:  project.X86_64,
			release: true,
			want:    []string{"build", "--target", "x86_64-linux-android", "--release"},
		},
		{
			name:      "toolchain",
			toolchain: "nightly",
			target:    project.ArmeabiV7a,
			want:      []string{"+nightly", "build", "--target", "armv7-linux-androideabi"},
		},
		{
			name:      "toolchain with plus",
			toolchain: "+stable",
			target:    project.X86,
			release:   true,
			want:      []string{"+stable", "build", "--target", "i686-linux-android", "--release"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildArgs(tt.toolchain, tt.target, tt.release))
		})
	}
}

func TestBuild_MissingBinary(t *testing.T) {
	b := &Binary{Path: filepath.Join(t.TempDir(), "no-such-cargo")}
	err := b.Build(context.Background(), fakeProject{dir: t.TempDir(), target: project.Arm64V8a})
	require.Error(t, err)
	assert.True(t, errors.Is(err, merrors.ErrBuildTool))

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, -1, buildErr.ExitCode)
}

func TestBuild_NonZeroExit(t *testing.T) {
	falseBin, err := exec.LookPath("false")
	if err != nil {
		t.Skip("false not available")
	}
	b := &Binary{Path: falseBin}
	err = b.Build(context.Background(), fakeProject{dir: t.TempDir(), target: project.Arm64V8a, release: true})
	require.Error(t, err)

	var buildErr *BuildError
	require.True(t, errors.As(err, &buildErr))
	assert.Equal(t, 1, buildErr.ExitCode)
	assert.Contains(t, err.Error(), "build --target aarch64-linux-android --release")
}

package cmd

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cargo-magisk/cli/internal/config"
)

// executeRoot runs the CLI with an isolated config path and a clean
// environment, returning stdout written through the command and the error.
func executeRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv(config.EnvConfig, filepath.Join(t.TempDir(), "config.yaml"))
	for _, name := range []string{config.EnvTarget, config.EnvRelease, config.EnvCargoToolchain, config.EnvPack, config.EnvLogTimestamps} {
		t.Setenv(name, "")
	}

	var out bytes.Buffer
	root := NewRootCmd()
	root.SetOut(&out)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestNormalizeArgs(t *testing.T) {
	tests := []struct {
		name string
		in   []string
		want []string
	}{
		{"cargo subcommand", []string{"magisk", "build", "-t", "x86"}, []string{"build", "-t", "x86"}},
		{"direct", []string{"build", "-t", "x86"}, []string{"build", "-t", "x86"}},
		{"only first", []string{"build", "magisk"}, []string{"build", "magisk"}},
		{"empty", []string{}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeArgs(tt.in))
		})
	}
}

func TestNewRootCmd(t *testing.T) {
	root := NewRootCmd()
	assert.Equal(t, "cargo-magisk", root.Use)

	var names []string
	for _, c := range root.Commands() {
		names = append(names, c.Name())
	}
	assert.Subset(t, names, []string{"build", "deploy", "inspect", "config", "version"})
}

func TestRoot_MalformedConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "target: [oops\n")

	_, err := executeRoot(t, "--config", path, "version")
	assert.Equal(t, ExitValidationError, ExitCodeFromError(err))
}

func TestVersionCmd(t *testing.T) {
	_, err := executeRoot(t, "version")
	assert.NoError(t, err)
}

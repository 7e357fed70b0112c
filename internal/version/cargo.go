package version

import (
	"bytes"
	"fmt"
	"os/exec"
	"regexp"
)

// cargoVersionRegex matches output like "cargo 1.78.0 (54d8815d0 2024-03-26)"
// or "cargo 1.80.0-nightly (...)".
var cargoVersionRegex = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[a-zA-Z0-9.]+)?`)

// CargoInfo describes the cargo installation found in PATH.
type CargoInfo struct {
	// Version is the cargo version with a "v" prefix.
	Version string `json:"version"`

	// Path is the path to the cargo binary.
	Path string `json:"path"`

	// Found indicates if cargo was found.
	Found bool `json:"found"`

	// Message explains a failed detection.
	Message string `json:"message,omitempty"`
}

// DetectCargo finds cargo in PATH and asks it for its version.
func DetectCargo() CargoInfo {
	path, err := exec.LookPath("cargo")
	if err != nil {
		return CargoInfo{Message: "cargo not found in PATH"}
	}

	cmd := exec.Command(path, "--version")
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		return CargoInfo{Path: path, Found: true, Message: "failed to get cargo version: " + err.Error()}
	}

	v, err := extractVersion(out.String())
	if err != nil {
		return CargoInfo{Path: path, Found: true, Message: err.Error()}
	}
	return CargoInfo{Version: v, Path: path, Found: true}
}

// extractVersion pulls the first semantic version out of cargo --version.
func extractVersion(output string) (string, error) {
	match := cargoVersionRegex.FindString(output)
	if match == "" {
		return "", &versionParseError{output: output}
	}
	return "v" + match, nil
}

// versionParseError indicates failure to parse cargo version output.
type versionParseError struct {
	output string
}

func (e *versionParseError) Error() string {
	return "failed to parse cargo version from output: " + e.output
}

// String returns a human-readable cargo info string.
func (c CargoInfo) String() string {
	if !c.Found {
		return "  Version: not found\n  Path:    -"
	}
	if c.Version == "" {
		return fmt.Sprintf("  Version: unknown (%s)\n  Path:    %s", c.Message, c.Path)
	}
	return fmt.Sprintf("  Version: %s\n  Path:    %s", c.Version, c.Path)
}

package project

import (
	"fmt"
	"strings"
)

// Target is an Android ABI that cargo can build for.
type Target int

const (
	Arm64V8a Target = iota + 1
	ArmeabiV7a
	X86_64
	X86
)

var targets = []struct {
	target Target
	triple string
	abi    string
}{
	{Arm64V8a, "aarch64-linux-android", "arm64-v8a"},
	{ArmeabiV7a, "armv7-linux-androideabi", "armeabi-v7a"},
	{X86_64, "x86_64-linux-android", "x86_64"},
	{X86, "i686-linux-android", "x86"},
}

// Triple returns the rustc target triple.
func (t Target) Triple() string {
	for _, e := range targets {
		if e.target == t {
			return e.triple
		}
	}
	return ""
}

// ABI returns the Android ABI name.
func (t Target) ABI() string {
	for _, e := range targets {
		if e.target == t {
			return e.abi
		}
	}
	return ""
}

func (t Target) String() string {
	if s := t.Triple(); s != "" {
		return s
	}
	return fmt.Sprintf("Target(%d)", int(t))
}

// ParseTarget accepts a rustc triple or an Android ABI name.
func ParseTarget(s string) (Target, error) {
	s = strings.TrimSpace(s)
	for _, e := range targets {
		if s == e.triple || s == e.abi {
			return e.target, nil
		}
	}
	return 0, fmt.Errorf("invalid target %q (valid: %s)", s, strings.Join(ValidTargets(), ", "))
}

// ValidTargets returns the supported target triples.
func ValidTargets() []string {
	out := make([]string, 0, len(targets))
	for _, e := range targets {
		out = append(out, e.triple)
	}
	return out
}

// Set implements pflag.Value so a Target can be bound directly to a flag.
func (t *Target) Set(s string) error {
	parsed, err := ParseTarget(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// Type implements pflag.Value.
func (t *Target) Type() string {
	return "target"
}

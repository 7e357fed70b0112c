// Package versioncode encodes a module version string into the fixed-width
// numeric code Magisk uses to order installable modules.
//
// A code is nine decimal digits laid out as
//
//	MM mm pp W cc
//
// major, minor and patch in two digits each, one digit of release-type weight
// and two digits of pre-release number. Comparing two codes digit by digit (or
// as unsigned integers) gives the same order as comparing the versions they
// were parsed from.
package versioncode

import (
	"fmt"
	"regexp"
	"strings"

	merrors "github.com/cargo-magisk/cli/internal/errors"
)

// Width is the number of digits in a Code.
const Width = 9

const (
	majorPos   = 0
	minorPos   = 2
	patchPos   = 4
	preTypePos = 6
	preCodePos = 7

	// maxGroupDigits bounds every numeric group of the version grammar.
	maxGroupDigits = 2
)

// Field names reported by FormatError.
const (
	FieldVersion    = "version"
	FieldMajor      = "major"
	FieldMinor      = "minor"
	FieldPatch      = "patch"
	FieldPreType    = "pre-release type"
	FieldPreRelease = "pre-release number"
)

// versionPattern is deliberately wider than the grammar so that a failure can
// be attributed to a single field rather than to the whole string.
var versionPattern = regexp.MustCompile(
	`^(?P<major>\d+)\.(?P<minor>\d+)\.(?P<patch>\d+)(?:-(?P<pretype>[0-9A-Za-z]+)(?:\.(?P<precode>\d+))?)?$`,
)

// ReleaseType is the weight digit of a Code.
type ReleaseType uint8

const (
	Alpha  ReleaseType = 1
	Beta   ReleaseType = 2
	RC     ReleaseType = 3
	Stable ReleaseType = 9
)

// String returns the pre-release label of the release type.
func (r ReleaseType) String() string {
	switch r {
	case Alpha:
		return "alpha"
	case Beta:
		return "beta"
	case RC:
		return "rc"
	case Stable:
		return "stable"
	default:
		return fmt.Sprintf("ReleaseType(%d)", uint8(r))
	}
}

// parseReleaseType accepts only the labels that may appear after the hyphen.
// "stable" is implicit and never written.
func parseReleaseType(label string) (ReleaseType, bool) {
	switch label {
	case "alpha":
		return Alpha, true
	case "beta":
		return Beta, true
	case "rc":
		return RC, true
	default:
		return 0, false
	}
}

// FormatError reports which part of a version string is invalid.
type FormatError struct {
	// Version is the input as written in the manifest.
	Version string
	// Field is one of the Field* constants.
	Field string
	// Reason describes the violation.
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("invalid version %q: %s %s", e.Version, e.Field, e.Reason)
}

func (e *FormatError) Unwrap() error {
	return merrors.ErrVersionFormat
}

// Code is a parsed version code. Each element holds one decimal digit.
// The zero value is not a valid code; use Parse.
type Code [Width]byte

// Parse encodes version, which must match
// major.minor.patch[-(alpha|beta|rc)[.precode]] with one or two digits per
// numeric group. A version without a pre-release suffix is encoded as stable
// with pre-release number 00.
func Parse(version string) (Code, error) {
	var code Code

	if version == "" {
		return code, &FormatError{Version: version, Field: FieldVersion, Reason: "must not be empty"}
	}

	m := versionPattern.FindStringSubmatch(version)
	if m == nil {
		return code, &FormatError{
			Version: version,
			Field:   FieldVersion,
			Reason:  "must have the form major.minor.patch[-alpha|beta|rc[.N]]",
		}
	}
	group := func(name string) string {
		return m[versionPattern.SubexpIndex(name)]
	}

	numeric := []struct {
		field string
		value string
		pos   int
	}{
		{FieldMajor, group("major"), majorPos},
		{FieldMinor, group("minor"), minorPos},
		{FieldPatch, group("patch"), patchPos},
	}
	for _, n := range numeric {
		if err := setTwoDigits(&code, n.pos, n.value); err != nil {
			return Code{}, &FormatError{Version: version, Field: n.field, Reason: err.Error()}
		}
	}

	preType, preCode := group("pretype"), group("precode")
	if preType == "" {
		code[preTypePos] = byte(Stable)
		return code, nil
	}

	rt, ok := parseReleaseType(preType)
	if !ok {
		return Code{}, &FormatError{
			Version: version,
			Field:   FieldPreType,
			Reason:  fmt.Sprintf("%q is not one of alpha, beta, rc", preType),
		}
	}
	code[preTypePos] = byte(rt)

	if preCode != "" {
		if err := setTwoDigits(&code, preCodePos, preCode); err != nil {
			return Code{}, &FormatError{Version: version, Field: FieldPreRelease, Reason: err.Error()}
		}
	}
	return code, nil
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(version string) Code {
	code, err := Parse(version)
	if err != nil {
		panic(err)
	}
	return code
}

// setTwoDigits writes a one- or two-digit decimal group at pos, left-padding
// with zero.
func setTwoDigits(code *Code, pos int, digits string) error {
	if len(digits) > maxGroupDigits {
		return fmt.Errorf("must be at most %d digits, got %q", maxGroupDigits, digits)
	}
	if len(digits) == 1 {
		code[pos] = 0
		code[pos+1] = digits[0] - '0'
		return nil
	}
	code[pos] = digits[0] - '0'
	code[pos+1] = digits[1] - '0'
	return nil
}

func (c Code) twoDigits(pos int) int {
	return int(c[pos])*10 + int(c[pos+1])
}

// Major returns the major version.
func (c Code) Major() int { return c.twoDigits(majorPos) }

// Minor returns the minor version.
func (c Code) Minor() int { return c.twoDigits(minorPos) }

// Patch returns the patch version.
func (c Code) Patch() int { return c.twoDigits(patchPos) }

// ReleaseType returns the release-type weight.
func (c Code) ReleaseType() ReleaseType { return ReleaseType(c[preTypePos]) }

// PreRelease returns the pre-release number, 0 for stable releases.
func (c Code) PreRelease() int { return c.twoDigits(preCodePos) }

// String renders the nine digits, keeping leading zeros.
func (c Code) String() string {
	var b strings.Builder
	b.Grow(Width)
	for _, d := range c {
		b.WriteByte('0' + d)
	}
	return b.String()
}

// Uint returns the code as an integer. Leading zeros are lost, so use String
// when writing module.prop.
func (c Code) Uint() uint32 {
	var n uint32
	for _, d := range c {
		n = n*10 + uint32(d)
	}
	return n
}

// Compare returns -1, 0 or +1 as c sorts before, equal to, or after o.
func (c Code) Compare(o Code) int {
	for i := range c {
		switch {
		case c[i] < o[i]:
			return -1
		case c[i] > o[i]:
			return 1
		}
	}
	return 0
}

// IsZero reports whether c is the zero value, which Parse never returns.
func (c Code) IsZero() bool {
	return c == Code{}
}

// MarshalText implements encoding.TextMarshaler.
func (c Code) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

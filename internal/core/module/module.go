// Package module validates module identity fields and renders the
// module.prop descriptor Magisk reads at install time.
package module

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cargo-magisk/cli/internal/core/versioncode"
	merrors "github.com/cargo-magisk/cli/internal/errors"
)

// PropFileName is the descriptor file written at the root of the staging directory.
const PropFileName = "module.prop"

// Field names as they appear in Cargo.toml.
const (
	FieldID      = "package.metadata.magisk.id"
	FieldName    = "package.metadata.magisk.name"
	FieldVersion = "package.version"
	FieldAuthor  = "package.metadata.magisk.author"
)

// idPattern: a letter, then at least one letter, digit, '.', '_' or '-'.
var idPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9._-]+$`)

// FieldValidationError names the manifest field that failed validation.
type FieldValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *FieldValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("%s %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %q %s", e.Field, e.Value, e.Reason)
}

func (e *FieldValidationError) Unwrap() error {
	return merrors.ErrFieldValidation
}

// ValidateID checks the module identifier grammar.
func ValidateID(id string) error {
	if id == "" {
		return &FieldValidationError{Field: FieldID, Reason: "must not be empty"}
	}
	if !idPattern.MatchString(id) {
		return &FieldValidationError{
			Field:  FieldID,
			Value:  id,
			Reason: "must start with a letter followed by at least one letter, digit, '.', '_' or '-'",
		}
	}
	return nil
}

// ValidateFields checks the scalar descriptor fields in a fixed order and
// returns the first failure. Only presence is checked for version; its shape
// belongs to versioncode.Parse.
func ValidateFields(id, name, version, author string) error {
	if err := ValidateID(id); err != nil {
		return err
	}
	required := []struct {
		field string
		value string
	}{
		{FieldName, name},
		{FieldVersion, version},
		{FieldAuthor, author},
	}
	for _, r := range required {
		if r.value == "" {
			return &FieldValidationError{Field: r.field, Reason: "must not be empty"}
		}
	}
	return nil
}

// Descriptor is the validated identity of a module. It is immutable once built.
type Descriptor struct {
	id          string
	name        string
	version     string
	versionCode versioncode.Code
	author      string
}

// NewDescriptor validates the fields, encodes the version and returns the descriptor.
func NewDescriptor(id, name, version, author string) (*Descriptor, error) {
	if err := ValidateFields(id, name, version, author); err != nil {
		return nil, err
	}
	code, err := versioncode.Parse(version)
	if err != nil {
		return nil, err
	}
	return &Descriptor{
		id:          id,
		name:        name,
		version:     version,
		versionCode: code,
		author:      author,
	}, nil
}

func (d *Descriptor) ID() string                    { return d.id }
func (d *Descriptor) Name() string                  { return d.name }
func (d *Descriptor) Version() string               { return d.version }
func (d *Descriptor) VersionCode() versioncode.Code { return d.versionCode }
func (d *Descriptor) Author() string                { return d.author }

// Prop renders module.prop: one key=value line per field, in the order
// id, name, author, version, versionCode, each newline-terminated.
func (d *Descriptor) Prop() string {
	var b strings.Builder
	for _, kv := range d.PropEntries() {
		b.WriteString(kv[0])
		b.WriteByte('=')
		b.WriteString(kv[1])
		b.WriteByte('\n')
	}
	return b.String()
}

// PropEntries returns the module.prop key/value pairs in file order.
func (d *Descriptor) PropEntries() [][2]string {
	return [][2]string{
		{"id", d.id},
		{"name", d.name},
		{"author", d.author},
		{"version", d.version},
		{"versionCode", d.versionCode.String()},
	}
}

func (d *Descriptor) String() string {
	return d.id + "@" + d.version
}

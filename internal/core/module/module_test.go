package module

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cargo-magisk/cli/internal/core/versioncode"
	merrors "github.com/cargo-magisk/cli/internal/errors"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"module-101", false},
		{"ab", false},
		{"My.Module_name-2", false},
		{"a", true},
		{"1_module", true},
		{"-a-module", true},
		{"_module", true},
		{"", true},
		{"mod ule", true},
		{"mod/ule", true},
		{"modulé", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := ValidateID(tt.id)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, merrors.ErrFieldValidation))

			var fe *FieldValidationError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, FieldID, fe.Field)
		})
	}
}

func TestValidateFields_Order(t *testing.T) {
	tests := []struct {
		name                     string
		id, mname, version, auth string
		wantField                string
	}{
		{"all empty reports id", "", "", "", "", FieldID},
		{"bad id beats empty name", "1x", "", "", "", FieldID},
		{"empty name", "mod", "", "", "", FieldName},
		{"empty version", "mod", "Mod", "", "", FieldVersion},
		{"empty author", "mod", "Mod", "1.0.0", "", FieldAuthor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFields(tt.id, tt.mname, tt.version, tt.auth)
			var fe *FieldValidationError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, tt.wantField, fe.Field)
		})
	}
}

func TestValidateFields_VersionShapeNotChecked(t *testing.T) {
	assert.NoError(t, ValidateFields("mod", "Mod", "not-a-version", "me"))
}

func TestNewDescriptor(t *testing.T) {
	d, err := NewDescriptor("cargo-magisk", "Cargo Magisk", "1.0.0-alpha.1", "someone")
	require.NoError(t, err)

	assert.Equal(t, "cargo-magisk", d.ID())
	assert.Equal(t, "Cargo Magisk", d.Name())
	assert.Equal(t, "1.0.0-alpha.1", d.Version())
	assert.Equal(t, "someone", d.Author())
	assert.Equal(t, versioncode.MustParse("1.0.0-alpha.1"), d.VersionCode())
	assert.Equal(t, "cargo-magisk@1.0.0-alpha.1", d.String())
}

func TestNewDescriptor_BadVersion(t *testing.T) {
	_, err := NewDescriptor("mod", "Mod", "1.0", "me")
	require.Error(t, err)
	assert.True(t, errors.Is(err, merrors.ErrVersionFormat))
}

func TestDescriptor_Prop(t *testing.T) {
	d, err := NewDescriptor("module-101", "Example", "2.5.10-beta.5", "dev")
	require.NoError(t, err)

	want := "id=module-101\n" +
		"name=Example\n" +
		"author=dev\n" +
		"version=2.5.10-beta.5\n" +
		"versionCode=020510205\n"
	assert.Equal(t, want, d.Prop())
}

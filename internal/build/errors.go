package build

import (
	"errors"
	"fmt"

	"github.com/cargo-magisk/cli/internal/core/asset"
	"github.com/cargo-magisk/cli/internal/core/module"
	"github.com/cargo-magisk/cli/internal/core/versioncode"
	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/manifest"
)

// AssetError locates a failing entry of the manifest's assets array.
type AssetError struct {
	// Index is the zero-based position in the assets array.
	Index int

	// Role is the side of the mapping that failed.
	Role asset.Role

	// Declared is the path as written in the manifest.
	Declared string

	// Cause is the underlying error.
	Cause error
}

func (e *AssetError) Error() string {
	return fmt.Sprintf("assets[%d].%s: %v", e.Index, e.Role, e.Cause)
}

func (e *AssetError) Unwrap() error {
	return e.Cause
}

// Field returns the manifest key path of the failing entry.
func (e *AssetError) Field() string {
	return fmt.Sprintf("package.metadata.magisk.assets[%d].%s", e.Index, e.Role)
}

// Detail converts a compile error into a DetailError for terminal output,
// keeping the sentinel chain intact. Errors of unknown shape are returned
// unchanged.
func Detail(err error, manifestPath string) error {
	if err == nil {
		return nil
	}

	var (
		parseErr *manifest.ParseError
		fieldErr *module.FieldValidationError
		verErr   *versioncode.FormatError
		assetErr *AssetError
	)

	switch {
	case errors.As(err, &parseErr):
		return merrors.NewValidationError(
			parseErr.Err.Error(),
			parseErr.Location(),
			"",
			"Check the TOML syntax and that a [package.metadata.magisk] table exists",
			err,
		)
	case errors.As(err, &assetErr):
		return &merrors.DetailError{
			Type:     "validation failed",
			Message:  assetErr.Cause.Error(),
			Location: manifestPath,
			Field:    assetErr.Field(),
			Context:  map[string]string{"Declared": assetErr.Declared},
			Hint:     "Asset paths must be relative and must not contain '.', '..' or '...' segments",
			Cause:    err,
		}
	case errors.As(err, &verErr):
		return merrors.NewValidationError(
			verErr.Error(),
			manifestPath,
			module.FieldVersion,
			"Use major.minor.patch with at most two digits each, optionally followed by -alpha.N, -beta.N or -rc.N",
			err,
		)
	case errors.As(err, &fieldErr):
		return merrors.NewValidationError(
			fieldErr.Error(),
			manifestPath,
			fieldErr.Field,
			"",
			err,
		)
	default:
		return err
	}
}

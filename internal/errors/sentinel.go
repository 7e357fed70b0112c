package errors

import "errors"

// Sentinel errors for known conditions.
var (
	// ErrValidation is the parent category of every manifest validation failure.
	ErrValidation = errors.New("validation error")

	// ErrManifestParse indicates the manifest is not well-formed TOML or is
	// missing a required table.
	ErrManifestParse = errors.New("manifest parse error")

	// ErrFieldValidation indicates an empty or malformed descriptor field.
	ErrFieldValidation = errors.New("invalid field")

	// ErrVersionFormat indicates a version string outside the version grammar.
	ErrVersionFormat = errors.New("invalid version format")

	// ErrPathSafety indicates a declared asset path with an unsafe shape.
	ErrPathSafety = errors.New("unsafe path")

	// ErrAssetMissing indicates an asset source that does not exist at deploy time.
	ErrAssetMissing = errors.New("asset source not found")

	// ErrIO indicates a filesystem operation failed while staging.
	ErrIO = errors.New("io error")

	// ErrBuildTool indicates cargo could not be run or exited non-zero.
	ErrBuildTool = errors.New("build tool failed")

	// ErrPermission indicates insufficient permissions.
	ErrPermission = errors.New("permission denied")

	// ErrNotFound indicates a manifest, target, or file was not found.
	ErrNotFound = errors.New("not found")
)

// IsValidation reports whether err belongs to the manifest validation family:
// parse, field, version or path-safety failures.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrManifestParse) ||
		errors.Is(err, ErrFieldValidation) ||
		errors.Is(err, ErrVersionFormat) ||
		errors.Is(err, ErrPathSafety)
}

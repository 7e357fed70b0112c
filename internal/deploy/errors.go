package deploy

import (
	"fmt"

	merrors "github.com/cargo-magisk/cli/internal/errors"
)

// AssetMissingError reports an asset whose source does not exist when
// staging runs.
type AssetMissingError struct {
	Index  int
	Source string
}

func (e *AssetMissingError) Error() string {
	return fmt.Sprintf("assets[%d]: source %s does not exist", e.Index, e.Source)
}

func (e *AssetMissingError) Unwrap() error {
	return merrors.ErrAssetMissing
}

// IOError reports a failed filesystem operation on Path.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

// Unwrap exposes both the category and the underlying cause, so callers can
// still match fs.ErrPermission and friends.
func (e *IOError) Unwrap() []error {
	return []error{merrors.ErrIO, e.Err}
}

func ioErr(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Op: op, Path: path, Err: err}
}

package cmd

import (
	"errors"
	"io/fs"

	merrors "github.com/cargo-magisk/cli/internal/errors"
	"github.com/cargo-magisk/cli/internal/output"
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Err  error
	Code int

	// Printed is set when the command already reported the error, so main
	// must not print it again.
	Printed bool
}

// Error implements the error interface.
func (e *ExitError) Error() string {
	return e.Err.Error()
}

// Unwrap returns the wrapped error.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates a new ExitError with the given error and exit code.
func NewExitError(err error, code int) *ExitError {
	return &ExitError{Err: err, Code: code}
}

// ExitCodeFromError determines the appropriate exit code for an error.
func ExitCodeFromError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}

	switch {
	case merrors.IsValidation(err):
		return ExitValidationError
	case errors.Is(err, merrors.ErrBuildTool):
		return ExitBuildError
	case errors.Is(err, merrors.ErrPermission), errors.Is(err, fs.ErrPermission):
		return ExitPermissionDenied
	case errors.Is(err, merrors.ErrNotFound), errors.Is(err, merrors.ErrAssetMissing):
		return ExitNotFound
	default:
		return ExitGeneralError
	}
}

// reportError prints err and returns it as a printed ExitError. DetailErrors
// keep their multi-line layout; anything else goes through the logger.
func reportError(msg string, err error) error {
	var detail *merrors.DetailError
	if errors.As(err, &detail) {
		output.Error(msg)
		output.Details(detail.Error())
	} else {
		output.Error(msg, "error", err)
	}
	return &ExitError{Code: ExitCodeFromError(err), Err: err, Printed: true}
}

package config

import (
	"fmt"
	"strings"

	"github.com/cargo-magisk/cli/internal/project"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

// Error implements the error interface.
func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}

	var sb strings.Builder
	sb.WriteString("config validation failed:\n")
	for _, err := range e {
		sb.WriteString(fmt.Sprintf("  %s: %s\n", err.Field, err.Message))
	}
	return sb.String()
}

// Validate checks every field of cfg and returns all problems at once.
func Validate(cfg *Config) error {
	var errs ValidationErrors

	if cfg.Target != "" {
		if _, err := project.ParseTarget(cfg.Target); err != nil {
			errs = append(errs, ValidationError{
				Field:   "target",
				Message: "must be one of " + strings.Join(project.ValidTargets(), ", "),
			})
		}
	}

	if tc := cfg.CargoToolchain; tc != "" {
		if strings.TrimSpace(tc) != tc || strings.ContainsAny(tc, " \t") {
			errs = append(errs, ValidationError{
				Field:   "cargoToolchain",
				Message: "must not contain whitespace",
			})
		} else if strings.HasPrefix(tc, "-") {
			errs = append(errs, ValidationError{
				Field:   "cargoToolchain",
				Message: "must be a toolchain name, not a flag",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ValidateFile loads the effective configuration at path, environment
// included, and validates it.
func ValidateFile(path string) error {
	cfg, err := NewLoader().Load(path)
	if err != nil {
		return fmt.Errorf("loading config file: %w", err)
	}
	return Validate(cfg)
}

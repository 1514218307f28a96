// Package parsererror defines the typed errors raised while converting a
// settlement export.
package parsererror

import (
	"errors"
	"fmt"
)

// MissingInputFileError is returned when the configured input path does not exist.
type MissingInputFileError struct {
	FilePath string
}

func (e *MissingInputFileError) Error() string {
	return fmt.Sprintf("input file not found: %s", e.FilePath)
}

// MalformedRowError describes a CSV line skipped because it carried too few fields.
// It is recorded as a diagnostic, never returned as a fatal error.
type MalformedRowError struct {
	Line       int
	Content    string
	FieldCount int
	Expected   int
}

func (e *MalformedRowError) Error() string {
	return fmt.Sprintf("line %d: expected %d columns, got %d: %s",
		e.Line, e.Expected, e.FieldCount, e.Content)
}

// EncodingError is returned when the input bytes cannot be decoded with the
// configured encoding.
type EncodingError struct {
	FilePath string
	Encoding string
	Err      error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("cannot decode '%s' as %s: %v", e.FilePath, e.Encoding, e.Err)
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration %s: %s", e.Key, e.Reason)
}

// IsMissingInputFile reports whether err is, or wraps, a MissingInputFileError.
func IsMissingInputFile(err error) bool {
	var missing *MissingInputFileError
	return errors.As(err, &missing)
}

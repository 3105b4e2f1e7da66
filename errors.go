package fixerconf

import (
	"errors"
	"fmt"
)

// Error codes for invalid input.
const (
	ErrCodePathNotFound      = "path_not_found"
	ErrCodeNotADirectory     = "not_a_directory"
	ErrCodeInvalidSource     = "invalid_source"
	ErrCodeUnrealizable      = "unrealizable"
	ErrCodeInvalidRule       = "invalid_rule"
	ErrCodeUnknownMigration  = "unknown_migration"
	ErrCodeUnsupportedFormat = "unsupported_format"
)

// ErrInvalidInput matches every *InvalidInputError with errors.Is.
var ErrInvalidInput = errors.New("fixerconf: invalid input")

// InvalidInputError reports a configuration authoring mistake.
// It is returned at the call that detects it and is not meant to be retried.
type InvalidInputError struct {
	Op      string // Operation that rejected the input (e.g., "in", "add_rules")
	Input   string // Offending path, rule name or version
	Code    string // Error code (e.g., "path_not_found")
	Message string // Human-readable description
	Err     error  // Underlying cause, if any
}

// Error formats the error as "op: input: code (message): cause".
func (e *InvalidInputError) Error() string {
	msg := fmt.Sprintf("%s: %s (%s)", e.Op, e.Code, e.Message)
	if e.Input != "" {
		msg = fmt.Sprintf("%s: %q: %s (%s)", e.Op, e.Input, e.Code, e.Message)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *InvalidInputError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrInvalidInput.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalidInput(op, input, code, message string, cause error) *InvalidInputError {
	return &InvalidInputError{
		Op:      op,
		Input:   input,
		Code:    code,
		Message: message,
		Err:     cause,
	}
}

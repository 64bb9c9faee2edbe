package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors shared across the core. Adapters translate their native
// failure signals (gorm.ErrRecordNotFound, sqlite constraint codes) into
// these before they cross a port boundary.
var (
	// ErrNotFound means a referenced record id does not resolve, or a link id
	// does not resolve under its claimed parent asset.
	ErrNotFound = errors.New("record not found")

	// ErrConflict means a uniqueness rule was violated: a duplicate
	// vulnerability name or a second link for the same (asset, vulnerability)
	// pair.
	ErrConflict = errors.New("record already exists")
)

// ValidationError marks malformed input rejected before any store call:
// a missing required field, a value outside a closed set, a numeric value
// out of range, or an unparseable date.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

// NewValidationError builds a ValidationError with a formatted message.
func NewValidationError(format string, args ...any) error {
	return &ValidationError{msg: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

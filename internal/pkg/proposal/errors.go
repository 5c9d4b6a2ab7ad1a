package proposal

import (
	"errors"
	"fmt"
)

// Sentinel errors for the proposal lifecycle. Controllers map these onto HTTP
// statuses; everything else surfaces as an internal error.
var (
	ErrNotFound    = errors.New("not found")
	ErrExpired     = errors.New("proposal token expired")
	ErrAlreadyUsed = errors.New("proposal token already used")
	ErrConflict    = errors.New("proposal is locked")
)

// ValidationError reports rejected input before any persistence happens.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationErrorf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a validation failure.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

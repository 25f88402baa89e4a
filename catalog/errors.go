package catalog

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("not found")
	ErrForbidden       = errors.New("access denied")
	ErrUnauthenticated = errors.New("not authenticated")
)

// ValidationError is returned when required input is missing or malformed.
// Nothing is written when it is returned.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func validationError(format string, args ...any) error {
	return NewValidationError(format, args...)
}

// PlatformError wraps an error reported by the database, e.g. a constraint violation
type PlatformError struct {
	Err error
}

func (e *PlatformError) Error() string {
	return e.Err.Error()
}

func (e *PlatformError) Unwrap() error {
	return e.Err
}

func platformError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return &PlatformError{Err: err}
}

func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

func IsPlatform(err error) bool {
	var p *PlatformError
	return errors.As(err, &p)
}

package jobstore

import (
	"errors"
	"fmt"
	"strings"

	"job-tracker/internal/common/validation"
)

var (
	ErrValidation   = errors.New("JOB_VALIDATION_FAILED")
	ErrNotFound     = errors.New("JOB_NOT_FOUND")
	ErrStoreFailure = errors.New("STORE_OPERATION_FAILED")
)

// ValidationError lists every rule a record broke. errors.Is(err,
// ErrValidation) holds for it.
type ValidationError struct {
	Violations []validation.ValidationError
}

func NewValidationError(violations ...validation.ValidationError) *ValidationError {
	return &ValidationError{Violations: violations}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		msgs[i] = v.String()
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// HasField reports whether any violation names field.
func (e *ValidationError) HasField(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

func notFound(id string) error {
	return fmt.Errorf("%w: no job with id %q", ErrNotFound, id)
}

func storeFailure(op string, err error) error {
	return fmt.Errorf("%w: %s: %v", ErrStoreFailure, op, err)
}

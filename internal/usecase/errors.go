package usecase

import (
	"errors"
	"fmt"
	"strings"

	"yamdb/internal/data/repository"
	"yamdb/pkg/utils"
)

// Error taxonomy surfaced to the transport layer.
var (
	ErrValidation = errors.New("validation failed")
	ErrAuth       = errors.New("authentication required")
	ErrPermission = errors.New("permission denied")
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
)

// ValidationError carries per-field messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	return ErrValidation.Error() + ": " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func newValidationError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// validate runs struct tags and wraps failures as a ValidationError.
func validate(req any) error {
	if errs := utils.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func permissionDenied(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPermission, fmt.Sprintf(format, args...))
}

func conflict(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}

// duplicateField names the field behind a unique violation, if recognisable.
func duplicateField(err error, fallback string) string {
	msg := err.Error()
	// Constraint name is the trailing "(...)" part.
	if i := strings.LastIndex(msg, "("); i >= 0 {
		msg = msg[i:]
	}
	for _, field := range []string{"username", "email", "slug"} {
		if strings.Contains(msg, field) {
			return field
		}
	}
	return fallback
}

func isDuplicate(err error) bool {
	return errors.Is(err, repository.ErrDuplicate)
}

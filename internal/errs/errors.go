// Package errs defines the error taxonomy returned by the scheduling engine
// and the services built on top of it.
package errs

import (
	"errors"
	"fmt"

	"github.com/Freeeeeet/tuition_scheduler/internal/calendar"
)

// Sentinel errors, matched with errors.Is against the typed errors below.
var (
	// ErrValidation is matched by malformed input rejected before any generation.
	ErrValidation = errors.New("validation failed")

	// ErrScheduling is matched when not enough valid dates exist before the horizon.
	ErrScheduling = errors.New("scheduling failed")

	// ErrConflict is matched when a mutation would break a package invariant.
	ErrConflict = errors.New("conflict")

	// ErrNotFound is matched when a referenced student, package, lesson or closure does not exist.
	ErrNotFound = errors.New("not found")
)

// FieldError describes one invalid input field.
type FieldError struct {
	Field  string
	Reason string
}

// ValidationError reports malformed input.
type ValidationError struct {
	Fields []FieldError
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Reason: reason}}}
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	msg := fmt.Sprintf("%s: %s %s", ErrValidation, e.Fields[0].Field, e.Fields[0].Reason)
	if n := len(e.Fields) - 1; n > 0 {
		msg += fmt.Sprintf(" (and %d more)", n)
	}
	return msg
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// SchedulingError reports that fewer than Needed dates were found before Horizon.
type SchedulingError struct {
	Needed  int
	Found   int
	Horizon calendar.Date
}

func (e *SchedulingError) Error() string {
	return fmt.Sprintf("%s: found %d of %d lesson dates before %s", ErrScheduling, e.Found, e.Needed, e.Horizon)
}

func (e *SchedulingError) Is(target error) bool { return target == ErrScheduling }

// ConflictError reports a mutation that would leave a package inconsistent.
type ConflictError struct {
	Reason string
}

// NewConflictError formats a ConflictError reason.
func NewConflictError(format string, args ...any) error {
	return &ConflictError{Reason: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ErrConflict, e.Reason)
}

func (e *ConflictError) Is(target error) bool { return target == ErrConflict }

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Entity string
	ID     int64
}

// NewNotFoundError builds a NotFoundError.
func NewNotFoundError(entity string, id int64) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }

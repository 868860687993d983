// Package apperrors carries the domain error types the handlers map to
// HTTP responses. Controllers return these; handlers never inspect raw
// gorm or valkey errors.
package apperrors

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// ValidationError is a request the caller can fix.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// StateConflictError is an operation attempted from the wrong lifecycle
// state, like approving a booking that was never paid.
type StateConflictError struct {
	Message string
	Current string
}

func (e *StateConflictError) Error() string { return e.Message }

func StateConflict(current string, format string, args ...any) error {
	return &StateConflictError{
		Message: fmt.Sprintf(format, args...),
		Current: current,
	}
}

// ContentionError means the house already has a live booking. Own is
// true when the blocking booking belongs to the caller; only then do we
// reveal the booking id and whether it can still be cancelled.
type ContentionError struct {
	Message   string
	Own       bool
	BookingID uuid.UUID
	Status    string
	CanCancel bool
}

func (e *ContentionError) Error() string { return e.Message }

func OwnBookingContention(bookingID uuid.UUID, status string, canCancel bool) error {
	return &ContentionError{
		Message:   "You already have an active booking with this landlord",
		Own:       true,
		BookingID: bookingID,
		Status:    status,
		CanCancel: canCancel,
	}
}

func HouseTakenContention(status string) error {
	return &ContentionError{
		Message: "This house already has an active booking",
		Status:  status,
	}
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsStateConflict(err error) bool {
	var se *StateConflictError
	return errors.As(err, &se)
}

func AsContention(err error) (*ContentionError, bool) {
	var ce *ContentionError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

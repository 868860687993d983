package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOwnBookingContention(t *testing.T) {
	bookingID := uuid.New()

	err := OwnBookingContention(bookingID, "initiated", true)

	ce, ok := AsContention(err)
	require.True(t, ok)
	assert.True(t, ce.Own)
	assert.Equal(t, bookingID, ce.BookingID)
	assert.Equal(t, "initiated", ce.Status)
	assert.True(t, ce.CanCancel)
}

func TestHouseTakenContentionHidesBookingID(t *testing.T) {
	err := HouseTakenContention("payment_submitted")

	ce, ok := AsContention(err)
	require.True(t, ok)
	assert.False(t, ce.Own)
	assert.Equal(t, uuid.Nil, ce.BookingID)
	assert.False(t, ce.CanCancel)
	assert.Equal(t, "payment_submitted", ce.Status)
}

func TestValidation(t *testing.T) {
	err := Validation("rent for %s has already been settled", "2026-08")

	assert.True(t, IsValidation(err))
	assert.Equal(t, "rent for 2026-08 has already been settled", err.Error())
	assert.False(t, IsStateConflict(err))
}

func TestStateConflict(t *testing.T) {
	err := StateConflict("approved", "Cannot cancel booking in status: %s", "approved")

	assert.True(t, IsStateConflict(err))
	assert.False(t, IsValidation(err))

	var se *StateConflictError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "approved", se.Current)
	assert.Equal(t, "Cannot cancel booking in status: approved", se.Message)
}

func TestWrappedErrorsStillMatch(t *testing.T) {
	wrapped := fmt.Errorf("loading booking: %w", ErrNotFound)
	assert.True(t, errors.Is(wrapped, ErrNotFound))

	wrappedContention := fmt.Errorf("initiate: %w", HouseTakenContention("approved"))
	_, ok := AsContention(wrappedContention)
	assert.True(t, ok)
}

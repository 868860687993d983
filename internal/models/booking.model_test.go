package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBookingStatus(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected BookingStatus
	}{
		{"empty defaults to initiated", "", BookingInitiated},
		{"legacy created", "created", BookingInitiated},
		{"legacy qr_created", "qr_created", BookingInitiated},
		{"legacy paid", "paid", BookingPaymentSubmitted},
		{"canonical passes through", "approved", BookingApproved},
		{"transferred passes through", "transferred", BookingTransferred},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeBookingStatus(tt.raw))
		})
	}
}

func TestStatusSets(t *testing.T) {
	active := TenantActiveStatuses()
	assert.Contains(t, active, BookingInitiated)
	assert.Contains(t, active, BookingPaymentSubmitted)
	assert.Contains(t, active, BookingApproved)
	assert.Contains(t, active, BookingTransferred)
	assert.NotContains(t, active, BookingCancelled)

	blocking := HouseBlockingStatuses()
	assert.NotContains(t, blocking, BookingInitiated, "a bare hold must not block other tenants")
	assert.Contains(t, blocking, BookingPaymentSubmitted)
	assert.Contains(t, blocking, BookingApproved)
	assert.Contains(t, blocking, BookingTransferred)
}

func TestHoldExpired(t *testing.T) {
	now := time.Now()

	tests := []struct {
		name      string
		status    BookingStatus
		createdAt time.Time
		expected  bool
	}{
		{"fresh hold", BookingInitiated, now.Add(-time.Minute), false},
		{"hold at the boundary", BookingInitiated, now.Add(-DefaultHoldDuration), false},
		{"stale hold", BookingInitiated, now.Add(-DefaultHoldDuration - time.Second), true},
		{"submitted never expires", BookingPaymentSubmitted, now.Add(-time.Hour), false},
		{"approved never expires", BookingApproved, now.Add(-24 * time.Hour), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(
				t,
				tt.expected,
				HoldExpired(tt.status, tt.createdAt, now, DefaultHoldDuration),
			)
		})
	}
}

func TestBookingTerminal(t *testing.T) {
	terminal := []BookingStatus{
		BookingRejected,
		BookingCancelled,
		BookingFailed,
		BookingExpired,
		BookingTransferred,
	}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), string(s))
	}

	for _, s := range []BookingStatus{BookingInitiated, BookingPaymentSubmitted, BookingApproved} {
		assert.False(t, s.IsTerminal(), string(s))
	}
}

func TestBookingCanCancel(t *testing.T) {
	booking := Booking{Status: BookingApproved}
	assert.True(t, booking.CanCancel())

	booking.Status = BookingTransferred
	assert.False(t, booking.CanCancel())

	booking.Status = BookingExpired
	assert.False(t, booking.CanCancel())
}

func TestSetStatusAppendsHistory(t *testing.T) {
	tenantID := uuid.New()
	booking := Booking{TenantID: tenantID, Status: BookingInitiated}

	require.NoError(t, booking.BeforeCreate(nil))
	require.Len(t, booking.StatusHistory, 1)
	assert.Equal(t, Actor(tenantID), booking.StatusHistory[0].By)

	booking.SetStatus(BookingExpired, SystemActor, "Hold expired")
	require.Len(t, booking.StatusHistory, 2)
	assert.Equal(t, BookingExpired, booking.Status)

	last := booking.StatusHistory[1]
	assert.Equal(t, string(BookingExpired), last.Status)
	assert.Equal(t, SystemActor, last.By)
	assert.NotEmpty(t, last.Note)
}

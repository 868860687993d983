package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidPeriod(t *testing.T) {
	testCases := []struct {
		period string
		valid  bool
	}{
		{"2026-01", true},
		{"2026-12", true},
		{"2026-00", false},
		{"2026-13", false},
		{"2026-1", false},
		{"26-01", false},
		{"2026/01", false},
		{"", false},
	}

	for _, tc := range testCases {
		t.Run(tc.period, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidPeriod(tc.period))
		})
	}
}

func TestRentPaymentDecided(t *testing.T) {
	payment := &RentPayment{Status: RentInitiated}
	assert.False(t, payment.Decided())

	payment.Status = RentSubmitted
	assert.False(t, payment.Decided())

	payment.Status = RentApproved
	assert.True(t, payment.Decided())

	payment.Status = RentRejected
	assert.True(t, payment.Decided())
}

func TestRentPaymentStatusHistory(t *testing.T) {
	payment := &RentPayment{Status: RentInitiated}
	assert.NoError(t, payment.BeforeCreate(nil))
	assert.Len(t, payment.StatusHistory, 1)

	payment.SetStatus(RentSubmitted, Actor(payment.TenantID), "Payment submitted")
	assert.Equal(t, RentSubmitted, payment.Status)
	assert.Len(t, payment.StatusHistory, 2)
	assert.Equal(t, string(RentSubmitted), payment.StatusHistory[1].Status)
}

func TestValidSlot(t *testing.T) {
	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	in := func(d time.Duration) time.Time { return now.Add(d) }

	testCases := []struct {
		name  string
		start time.Time
		end   time.Time
		valid bool
	}{
		{"one hour tomorrow", in(24 * time.Hour), in(25 * time.Hour), true},
		{"minimum duration", in(time.Hour), in(time.Hour + MinVisitDuration), true},
		{"too short", in(time.Hour), in(time.Hour + 10*time.Minute), false},
		{"too long", in(time.Hour), in(time.Hour + 5*time.Hour), false},
		{"too soon", in(10 * time.Minute), in(time.Hour), false},
		{"end before start", in(2 * time.Hour), in(time.Hour), false},
		{"in the past", in(-2 * time.Hour), in(-time.Hour), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidSlot(tc.start, tc.end, now))
		})
	}
}

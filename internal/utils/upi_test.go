package utils

import (
	"net/url"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUPIIntent(t *testing.T) {
	link := UPIIntent(
		"landlord@upi",
		"Ravi Kumar",
		decimal.NewFromInt(5000),
		"HomeRent Booking | abc-123",
	)

	assert.True(t, strings.HasPrefix(link, "upi://pay?pa="))

	parsed, err := url.Parse(link)
	require.NoError(t, err)

	q := parsed.Query()
	assert.Equal(t, "landlord@upi", q.Get("pa"))
	assert.Equal(t, "Ravi Kumar", q.Get("pn"))
	assert.Equal(t, "5000.00", q.Get("am"))
	assert.Equal(t, "INR", q.Get("cu"))
	assert.Equal(t, "HomeRent Booking | abc-123", q.Get("tn"))

	// Spaces must come out as %20, never +.
	assert.Contains(t, link, "pn=Ravi%20Kumar")
	assert.NotContains(t, link, "+")
}

func TestUPIIntentEncodesAmount(t *testing.T) {
	amount, err := decimal.NewFromString("1234.5")
	require.NoError(t, err)

	link := UPIIntent("a@b", "X", amount, "n")
	assert.Contains(t, link, "am=1234.50")
}

func TestNotes(t *testing.T) {
	assert.Equal(t, "HomeRent Booking | id-1", BookingNote("id-1"))
	assert.Equal(t, "HomeRent Payout | id-2", PayoutNote("id-2"))
	assert.Equal(t, "HomeRent Rent 2026-03 | id-3", RentNote("2026-03", "id-3"))
}

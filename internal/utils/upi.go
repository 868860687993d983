package utils

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// UPIIntent builds a upi://pay deep link. Every parameter value is
// percent-encoded; the amount always carries two decimal places and the
// currency is fixed to INR.
func UPIIntent(payeeVPA, payeeName string, amount decimal.Decimal, note string) string {
	// UPI apps expect pa first; url.Values would reorder alphabetically.
	return fmt.Sprintf(
		"upi://pay?pa=%s&pn=%s&am=%s&cu=INR&tn=%s",
		escape(payeeVPA),
		escape(payeeName),
		escape(amount.StringFixed(2)),
		escape(note),
	)
}

// escape percent-encodes a query value. UPI apps want %20 for spaces,
// not the + form url.QueryEscape produces.
func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BookingNote is the transaction note attached to a tenant's booking
// payment. The booking id in the note is how admins reconcile UTRs.
func BookingNote(bookingID string) string {
	return fmt.Sprintf("HomeRent Booking | %s", bookingID)
}

// PayoutNote labels an admin's transfer to a landlord.
func PayoutNote(bookingID string) string {
	return fmt.Sprintf("HomeRent Payout | %s", bookingID)
}

// RentNote labels a monthly rent payment for the given YYYY-MM period.
func RentNote(period, paymentID string) string {
	return fmt.Sprintf("HomeRent Rent %s | %s", period, paymentID)
}

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	BookingInitiated        BookingStatus = "initiated"
	BookingPaymentSubmitted BookingStatus = "payment_submitted"
	BookingApproved         BookingStatus = "approved"
	BookingRejected         BookingStatus = "rejected"
	BookingTransferred      BookingStatus = "transferred"
	BookingCancelled        BookingStatus = "cancelled"
	BookingFailed           BookingStatus = "failed"
	BookingExpired          BookingStatus = "expired"
)

// DefaultHoldDuration is how long an unpaid hold reserves a house.
const DefaultHoldDuration = 10 * time.Minute

// NormalizeBookingStatus maps legacy status values onto the canonical set.
// Older records used "created"/"qr_created" for bare holds and "paid" for
// proof-submitted bookings.
func NormalizeBookingStatus(raw string) BookingStatus {
	switch raw {
	case "", "created", "qr_created":
		return BookingInitiated
	case "paid":
		return BookingPaymentSubmitted
	default:
		return BookingStatus(raw)
	}
}

// TenantActiveStatuses governs the one-active-booking-per-tenant-landlord
// rule. A bare hold counts: a tenant cannot open a second booking with the
// same landlord while any of these are live.
func TenantActiveStatuses() []BookingStatus {
	return []BookingStatus{
		BookingInitiated,
		BookingPaymentSubmitted,
		BookingApproved,
		BookingTransferred,
	}
}

// HouseBlockingStatuses governs whether a different tenant may start a
// booking on the same house. Bare holds are deliberately absent: clicking
// "book" without paying must not lock out competitors.
func HouseBlockingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingPaymentSubmitted,
		BookingApproved,
		BookingTransferred,
	}
}

func (s BookingStatus) IsTerminal() bool {
	switch s {
	case BookingRejected, BookingCancelled, BookingFailed, BookingExpired, BookingTransferred:
		return true
	}
	return false
}

// IsHold reports whether the status is an unpaid reservation subject to the
// hold timeout.
func (s BookingStatus) IsHold() bool {
	return s == BookingInitiated
}

// HoldExpired is the hold-expiry policy as a pure function so every read
// path and the sweep job agree on it.
func HoldExpired(status BookingStatus, createdAt, now time.Time, hold time.Duration) bool {
	if !status.IsHold() {
		return false
	}
	return now.Sub(createdAt) > hold
}

type AdminDecision struct {
	ApprovedBy *uuid.UUID `gorm:"type:uuid"      json:"approvedBy,omitempty"`
	ApprovedAt *time.Time `gorm:"type:timestamp" json:"approvedAt,omitempty"`
	RejectedBy *uuid.UUID `gorm:"type:uuid"      json:"rejectedBy,omitempty"`
	RejectedAt *time.Time `gorm:"type:timestamp" json:"rejectedAt,omitempty"`
	Note       string     `gorm:"type:text"      json:"note"`
}

// Booking is the authoritative settlement record for a one-time booking fee.
// It is never hard-deleted; terminal records are retained for audit.
type Booking struct {
	BaseUUIDModel
	HouseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"houseId"`
	House      *House    `gorm:"foreignKey:HouseID"       json:"house,omitempty"`
	LandlordID uuid.UUID `gorm:"type:uuid;not null;index" json:"landlordId"`
	Landlord   *User     `gorm:"foreignKey:LandlordID"    json:"landlord,omitempty"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenantId"`
	Tenant     *User     `gorm:"foreignKey:TenantID"      json:"tenant,omitempty"`

	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null"          json:"amount"`
	Status BookingStatus   `gorm:"type:text;default:'initiated';index"  json:"status"`

	TenantUTR          string     `gorm:"type:text"      json:"tenantUtr"`
	PaymentProofURL    string     `gorm:"type:text"      json:"paymentProofUrl"`
	PaymentSubmittedAt *time.Time `gorm:"type:timestamp" json:"paymentSubmittedAt,omitempty"`

	AdminDecision AdminDecision `gorm:"embedded;embeddedPrefix:decision_" json:"adminDecision"`

	PayoutTxnID string     `gorm:"type:text"      json:"payoutTxnId"`
	PayoutAt    *time.Time `gorm:"type:timestamp" json:"payoutAt,omitempty"`

	CancelledAt *time.Time `gorm:"type:timestamp" json:"cancelledAt,omitempty"`
	CancelNote  string     `gorm:"type:text"      json:"cancelNote"`

	StatusHistory datatypes.JSONSlice[StatusChange] `gorm:"type:jsonb" json:"statusHistory"`
}

// BeforeSave normalizes legacy status values and guarantees the first
// history entry exists on new records.
func (b *Booking) BeforeSave(tx *gorm.DB) error {
	b.Status = NormalizeBookingStatus(string(b.Status))
	return nil
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BookingInitiated
	}
	if len(b.StatusHistory) == 0 {
		b.StatusHistory = datatypes.NewJSONSlice([]StatusChange{{
			Status: string(b.Status),
			At:     time.Now(),
			By:     Actor(b.TenantID),
			Note:   "Booking created",
		}})
	}
	return nil
}

// SetStatus transitions the booking and appends the matching history entry.
// History is append-only; callers never mutate earlier entries.
func (b *Booking) SetStatus(status BookingStatus, by string, note string) {
	b.Status = status
	b.StatusHistory = append(b.StatusHistory, StatusChange{
		Status: string(status),
		At:     time.Now(),
		By:     by,
		Note:   note,
	})
}

// HoldExpired reports whether this booking is a stale unpaid hold.
func (b *Booking) HoldExpired(now time.Time, hold time.Duration) bool {
	return HoldExpired(b.Status, b.CreatedAt, now, hold)
}

// CanCancel reports whether the tenant may still cancel.
func (b *Booking) CanCancel() bool {
	return !b.Status.IsTerminal()
}

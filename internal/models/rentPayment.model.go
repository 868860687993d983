package models

import (
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RentPaymentStatus string

const (
	RentInitiated RentPaymentStatus = "initiated"
	RentSubmitted RentPaymentStatus = "submitted"
	RentApproved  RentPaymentStatus = "approved"
	RentRejected  RentPaymentStatus = "rejected"
)

var periodPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// ValidPeriod reports whether s is a billing period of the form YYYY-MM.
func ValidPeriod(s string) bool {
	return periodPattern.MatchString(s)
}

// RentPayment is one monthly rent cycle for an occupied house. A tenant
// gets at most one payment row per house per period.
type RentPayment struct {
	BaseUUIDModel
	HouseID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rent_house_tenant_period" json:"houseId"`
	House      *House    `gorm:"foreignKey:HouseID" json:"house,omitempty"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_rent_house_tenant_period;index" json:"tenantId"`
	Tenant     *User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	LandlordID uuid.UUID `gorm:"type:uuid;not null;index" json:"landlordId"`
	Landlord   *User     `gorm:"foreignKey:LandlordID" json:"landlord,omitempty"`

	// Period is the billing month, formatted YYYY-MM.
	Period string          `gorm:"type:text;not null;uniqueIndex:idx_rent_house_tenant_period" json:"period"`
	Amount decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"amount"`

	Status RentPaymentStatus `gorm:"type:text;not null;default:'initiated';index" json:"status"`

	TenantUTR   string     `gorm:"column:tenant_utr;type:text" json:"tenantUtr,omitempty"`
	SubmittedAt *time.Time `gorm:"type:timestamp" json:"submittedAt,omitempty"`

	DecidedBy    *uuid.UUID `gorm:"type:uuid"      json:"decidedBy,omitempty"`
	DecidedAt    *time.Time `gorm:"type:timestamp" json:"decidedAt,omitempty"`
	RejectReason string     `gorm:"type:text"      json:"rejectReason,omitempty"`

	StatusHistory datatypes.JSONSlice[StatusChange] `gorm:"type:jsonb" json:"statusHistory"`
}

func (r *RentPayment) BeforeCreate(tx *gorm.DB) error {
	if r.Status == "" {
		r.Status = RentInitiated
	}
	if len(r.StatusHistory) == 0 {
		r.StatusHistory = append(r.StatusHistory, StatusChange{
			Status: string(r.Status),
			At:     time.Now(),
			By:     Actor(r.TenantID),
			Note:   "Rent payment created",
		})
	}
	return nil
}

func (r *RentPayment) SetStatus(status RentPaymentStatus, by, note string) {
	r.Status = status
	r.StatusHistory = append(r.StatusHistory, StatusChange{
		Status: string(status),
		At:     time.Now(),
		By:     by,
		Note:   note,
	})
}

// Decided reports whether the landlord has already acted on this cycle.
func (r *RentPayment) Decided() bool {
	return r.Status == RentApproved || r.Status == RentRejected
}

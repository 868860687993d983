package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type HouseStatus string

const (
	HouseAvailable HouseStatus = "available"
	HouseRented    HouseStatus = "rented"
)

type HouseType string

const (
	HouseTypeApartment HouseType = "apartment"
	HouseTypeRoom      HouseType = "room"
	HouseTypeHouse     HouseType = "house"
)

type FurnishedLevel string

const (
	Unfurnished    FurnishedLevel = "unfurnished"
	SemiFurnished  FurnishedLevel = "semi"
	FullyFurnished FurnishedLevel = "fully"
)

type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "pending"
	VerificationApproved VerificationStatus = "approved"
	VerificationRejected VerificationStatus = "rejected"
)

type House struct {
	BaseUUIDModel
	LandlordID uuid.UUID `gorm:"type:uuid;not null;index" json:"landlordId"`
	Landlord   *User     `gorm:"foreignKey:LandlordID"    json:"landlord,omitempty"`

	Title       string `gorm:"type:text;not null" json:"title"`
	Description string `gorm:"type:text;not null" json:"description"`
	Location    string `gorm:"type:text;not null;index" json:"location"`

	Rent    decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"rent"`
	Deposit decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"deposit"`
	// Booking fee the landlord charges to reserve the house.
	BookingAmount decimal.Decimal `gorm:"type:numeric(12,2)" json:"bookingAmount"`

	Type      HouseType      `gorm:"type:text;not null"               json:"type"`
	Beds      int            `gorm:"type:int;not null"                json:"beds"`
	Baths     int            `gorm:"type:int;not null"                json:"baths"`
	Area      int            `gorm:"type:int;not null"                json:"area"`
	Furnished FurnishedLevel `gorm:"type:text;default:'unfurnished'"  json:"furnished"`

	Amenities datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"amenities"`
	Images    datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`

	ElectricityBillURL  string `gorm:"type:text" json:"electricityBillUrl"`
	ElectricityBillType string `gorm:"type:text" json:"electricityBillType"`

	VerificationStatus VerificationStatus `gorm:"type:text;default:'pending';index" json:"verificationStatus"`
	VerifiedAt         *time.Time         `gorm:"type:timestamp"                    json:"verifiedAt,omitempty"`
	VerifiedBy         *uuid.UUID         `gorm:"type:uuid"                         json:"verifiedBy,omitempty"`
	RejectReason       string             `gorm:"type:text"                         json:"rejectReason"`

	AvailableFrom time.Time   `gorm:"type:timestamp"                       json:"availableFrom"`
	Status        HouseStatus `gorm:"type:text;default:'available';index"  json:"status"`

	CurrentTenantID  *uuid.UUID `gorm:"type:uuid;index" json:"currentTenantId,omitempty"`
	CurrentBookingID *uuid.UUID `gorm:"type:uuid"       json:"currentBookingId,omitempty"`
	RentedAt         *time.Time `gorm:"type:timestamp"  json:"rentedAt,omitempty"`
}

// IsRented reports occupancy. The status flag and the occupancy ids must
// agree; both are checked so a half-written record still reads as rented.
func (h *House) IsRented() bool {
	return h.Status == HouseRented || h.CurrentTenantID != nil
}

// AssignTenant marks the house rented by the given booking. It is the
// caller's job to check IsRented first; assignment never overwrites an
// existing occupancy.
func (h *House) AssignTenant(tenantID, bookingID uuid.UUID, at time.Time) {
	h.Status = HouseRented
	h.CurrentTenantID = &tenantID
	h.CurrentBookingID = &bookingID
	h.RentedAt = &at
}

// Vacate clears occupancy, returning the house to the open market.
func (h *House) Vacate() {
	h.Status = HouseAvailable
	h.CurrentTenantID = nil
	h.CurrentBookingID = nil
	h.RentedAt = nil
}

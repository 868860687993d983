package models

import (
	"time"

	"github.com/google/uuid"
)

type VisitStatus string

const (
	VisitRequested VisitStatus = "requested"
	VisitApproved  VisitStatus = "approved"
	VisitDeclined  VisitStatus = "declined"
	VisitCancelled VisitStatus = "cancelled"
	VisitCompleted VisitStatus = "completed"
)

const (
	MinVisitDuration = 15 * time.Minute
	MaxVisitDuration = 4 * time.Hour
	// Visits must be requested at least this far in the future.
	MinVisitLeadTime = 30 * time.Minute
)

// VisitRequest is a tenant's ask to see a house in a given time slot.
type VisitRequest struct {
	BaseUUIDModel
	HouseID    uuid.UUID `gorm:"type:uuid;not null;index" json:"houseId"`
	House      *House    `gorm:"foreignKey:HouseID" json:"house,omitempty"`
	TenantID   uuid.UUID `gorm:"type:uuid;not null;index" json:"tenantId"`
	Tenant     *User     `gorm:"foreignKey:TenantID" json:"tenant,omitempty"`
	LandlordID uuid.UUID `gorm:"type:uuid;not null;index" json:"landlordId"`

	SlotStart time.Time `gorm:"type:timestamp;not null" json:"slotStart"`
	SlotEnd   time.Time `gorm:"type:timestamp;not null" json:"slotEnd"`
	Message   string    `gorm:"type:text" json:"message"`

	Status      VisitStatus `gorm:"type:text;not null;default:'requested';index" json:"status"`
	DecidedAt   *time.Time  `gorm:"type:timestamp" json:"decidedAt,omitempty"`
	DeclineNote string      `gorm:"type:text"      json:"declineNote,omitempty"`
	CancelledAt *time.Time  `gorm:"type:timestamp" json:"cancelledAt,omitempty"`
}

// ValidSlot checks the slot shape against now: duration within bounds
// and the start far enough out.
func ValidSlot(start, end, now time.Time) bool {
	d := end.Sub(start)
	if d < MinVisitDuration || d > MaxVisitDuration {
		return false
	}
	return start.Sub(now) >= MinVisitLeadTime
}

func (v *VisitRequest) Open() bool {
	return v.Status == VisitRequested || v.Status == VisitApproved
}

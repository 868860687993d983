package models

import (
	"time"

	"github.com/google/uuid"
)

type TicketCategory string

const (
	TicketPayment TicketCategory = "payment"
	TicketBooking TicketCategory = "booking"
	TicketHouse   TicketCategory = "house"
	TicketAccount TicketCategory = "account"
	TicketVisit   TicketCategory = "visit"
	TicketOther   TicketCategory = "other"
)

func (c TicketCategory) Valid() bool {
	switch c {
	case TicketPayment, TicketBooking, TicketHouse, TicketAccount, TicketVisit, TicketOther:
		return true
	}
	return false
}

type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityMedium TicketPriority = "medium"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

func (p TicketPriority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

type TicketStatus string

const (
	TicketOpen        TicketStatus = "open"
	TicketInProgress  TicketStatus = "in_progress"
	TicketWaitingUser TicketStatus = "waiting_user"
	TicketResolved    TicketStatus = "resolved"
	TicketClosed      TicketStatus = "closed"
)

func (s TicketStatus) Valid() bool {
	switch s {
	case TicketOpen, TicketInProgress, TicketWaitingUser, TicketResolved, TicketClosed:
		return true
	}
	return false
}

func (s TicketStatus) Terminal() bool {
	return s == TicketResolved || s == TicketClosed
}

type SupportTicket struct {
	BaseUUIDModel
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"userId"`
	User   *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`

	Category TicketCategory `gorm:"type:text;not null"                    json:"category"`
	Priority TicketPriority `gorm:"type:text;not null;default:'medium'"   json:"priority"`
	Status   TicketStatus   `gorm:"type:text;not null;default:'open';index" json:"status"`

	Subject string `gorm:"type:text;not null" json:"subject"`
	Body    string `gorm:"type:text;not null" json:"body"`

	// Optional link back to the thing the ticket is about.
	BookingID *uuid.UUID `gorm:"type:uuid" json:"bookingId,omitempty"`
	HouseID   *uuid.UUID `gorm:"type:uuid" json:"houseId,omitempty"`

	AssignedTo *uuid.UUID `gorm:"type:uuid"      json:"assignedTo,omitempty"`
	ResolvedAt *time.Time `gorm:"type:timestamp" json:"resolvedAt,omitempty"`

	Messages []TicketMessage `gorm:"foreignKey:TicketID" json:"messages,omitempty"`
}

type TicketMessage struct {
	BaseUUIDModel
	TicketID uuid.UUID `gorm:"type:uuid;not null;index" json:"ticketId"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null"       json:"authorId"`
	Author   *User     `gorm:"foreignKey:AuthorID"      json:"author,omitempty"`
	// FromStaff distinguishes admin replies in the thread.
	FromStaff bool   `gorm:"default:false"      json:"fromStaff"`
	Body      string `gorm:"type:text;not null" json:"body"`
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// SystemActor is recorded on history entries produced by the platform itself
// (hold-expiry sweeps, normalization) rather than a user. History entries
// never carry an empty or ambiguous actor.
const SystemActor = "system"

// StatusChange is one append-only audit entry. The final entry's status must
// always equal the owning record's current status.
type StatusChange struct {
	Status string    `json:"status"`
	At     time.Time `json:"at"`
	By     string    `json:"by"`
	Note   string    `json:"note"`
}

// Actor renders a user id as a history actor.
func Actor(id uuid.UUID) string {
	return id.String()
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// ActivityLog is a short free-text audit trail entry shown on the dashboard.
// Logging failures are never allowed to break the action being logged.
type ActivityLog struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Action    string    `json:"action" db:"action"`
	Details   *string   `json:"details" db:"details"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

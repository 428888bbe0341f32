package domain

import "time"

// Notification kinds
const (
	KindSuccess = "success"
	KindWarning = "warning"
	KindError   = "error"
	KindInfo    = "info"
)

// Notification is a user-facing, timestamped event record. The session-wide
// list is kept newest-first; only the read flag mutates after creation.
type Notification struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}

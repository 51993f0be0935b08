package notification

import "time"

// Type classifies a notification for client rendering.
type Type string

const (
	TypeLateCheckIn   Type = "late_check_in"
	TypeLeaveApplied  Type = "leave_applied"
	TypeLeaveApproved Type = "leave_approved"
	TypeLeaveRejected Type = "leave_rejected"
)

// Notification is an in-app message addressed to a user.
type Notification struct {
	ID          string
	RecipientID string
	Type        Type
	Title       string
	Message     string
	Category    string
	Link        *string
	IsRead      bool
	ReadAt      *time.Time
	CreatedAt   time.Time
}

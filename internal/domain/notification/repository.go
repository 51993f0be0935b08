package notification

import "context"

// Repository persists notifications.
type Repository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]Notification, error)
	MarkRead(ctx context.Context, id string) error
}

// CreateRequest is the payload accepted by the dispatcher.
type CreateRequest struct {
	RecipientID string
	Type        Type
	Title       string
	Message     string
	Category    string
	Link        *string
}

// Dispatcher delivers notifications best-effort. Notify must never block
// the caller and must never surface delivery failure to it; a check-in
// that cannot notify is still a successful check-in.
type Dispatcher interface {
	Notify(req CreateRequest)
	Close()
}

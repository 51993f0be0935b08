package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/peoplehq/workday-backend-go/internal/domain/notification"
)

type notificationRepository struct {
	store *Store
}

func NewNotificationRepository(store *Store) notification.Repository {
	return &notificationRepository{store: store}
}

func (r *notificationRepository) Create(ctx context.Context, n notification.Notification) (notification.Notification, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	n.ID = uuid.NewString()
	n.CreatedAt = time.Now()
	r.store.notifications[n.ID] = n
	return n, nil
}

func (r *notificationRepository) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]notification.Notification, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	if limit <= 0 {
		limit = 50
	}

	var result []notification.Notification
	for _, n := range r.store.notifications {
		if n.RecipientID == recipientID {
			result = append(result, n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id string) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	n, ok := r.store.notifications[id]
	if !ok {
		return nil
	}
	now := time.Now()
	n.IsRead = true
	n.ReadAt = &now
	r.store.notifications[id] = n
	return nil
}

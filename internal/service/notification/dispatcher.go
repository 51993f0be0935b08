// Package notification delivers in-app notifications off the request path.
// Delivery is best effort: a full queue or a failed insert is logged and
// dropped, never surfaced to the operation that triggered it.
package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/peoplehq/workday-backend-go/internal/domain/notification"
)

const queueSize = 256

type dispatcher struct {
	repo   notification.Repository
	logger *slog.Logger
	queue  chan notification.CreateRequest
	wg     sync.WaitGroup
}

// NewDispatcher starts a single background worker draining the queue.
// Callers must Close it on shutdown to flush what is already queued.
func NewDispatcher(repo notification.Repository, logger *slog.Logger) notification.Dispatcher {
	d := &dispatcher{
		repo:   repo,
		logger: logger,
		queue:  make(chan notification.CreateRequest, queueSize),
	}
	d.wg.Add(1)
	go d.worker()
	return d
}

// Notify implements notification.Dispatcher. It never blocks: when the
// queue is full the notification is dropped with a warning.
func (d *dispatcher) Notify(req notification.CreateRequest) {
	select {
	case d.queue <- req:
	default:
		d.logger.Warn("notification queue full, dropping",
			"recipient_id", req.RecipientID,
			"type", req.Type,
		)
	}
}

// Close stops accepting notifications, flushes the queue and waits for the
// worker to finish.
func (d *dispatcher) Close() {
	close(d.queue)
	d.wg.Wait()
}

func (d *dispatcher) worker() {
	defer d.wg.Done()
	for req := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, err := d.repo.Create(ctx, notification.Notification{
			RecipientID: req.RecipientID,
			Type:        req.Type,
			Title:       req.Title,
			Message:     req.Message,
			Category:    req.Category,
			Link:        req.Link,
		})
		cancel()
		if err != nil {
			d.logger.Warn("failed to persist notification",
				"recipient_id", req.RecipientID,
				"type", req.Type,
				"error", err,
			)
		}
	}
}

package attendance

import (
	"context"
	"time"
)

// Service defines business logic for attendance operations.
type Service interface {
	// CheckIn records the first stamp of the day and derives lateness
	CheckIn(ctx context.Context, employeeID string, req CheckInRequest) (Response, error)

	// CheckOut records the closing stamp and derives working hours,
	// early-leave, overtime and half-day state
	CheckOut(ctx context.Context, employeeID string, req CheckOutRequest) (Response, error)

	// Today retrieves the caller's record for the current day, if any
	Today(ctx context.Context, employeeID string) (*Response, error)

	// GetSummary aggregates an employee's records over a date range
	GetSummary(ctx context.Context, employeeID string, from, to time.Time) (Summary, error)

	// Get retrieves a single record by ID
	Get(ctx context.Context, id string) (Response, error)

	// List retrieves records with filters (admin/manager)
	List(ctx context.Context, filter Filter) (ListResponse, error)

	// Upsert creates or corrects a record for an explicit employee-day (admin)
	Upsert(ctx context.Context, req UpsertRequest) (Response, error)

	// Review approves or rejects a record (admin/manager)
	Review(ctx context.Context, reviewerID string, req ReviewRequest) (Response, error)

	// Delete tombstones a record (admin)
	Delete(ctx context.Context, id string) error
}

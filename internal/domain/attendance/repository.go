package attendance

import (
	"context"
	"time"
)

// Repository is the attendance ledger: one live record per (employee, date).
// Implementations filter tombstoned records out of every read.
type Repository interface {
	// Create creates a new attendance record
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves an attendance record by ID
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByEmployeeAndDate retrieves the record for one employee-day, or
	// nil when none exists. Used to prevent double check-in and by the
	// leave reconciler's upsert.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*Attendance, error)

	// Update updates an existing attendance record
	Update(ctx context.Context, att Attendance) error

	// ListByEmployeeRange retrieves an employee's records in [from, to]
	ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]Attendance, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter Filter) ([]Attendance, int64, error)

	// Tombstone soft-deletes a record; it stays in storage but drops out
	// of every read path.
	Tombstone(ctx context.Context, id string) error
}

package employee

import "context"

// Directory is the read-only lookup into the employee module. No object
// graph traversal: callers resolve managers with a second GetByID.
type Directory interface {
	// GetByID retrieves an employee by ID
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListByManager retrieves the direct reports of a manager
	ListByManager(ctx context.Context, managerID string) ([]Employee, error)
}

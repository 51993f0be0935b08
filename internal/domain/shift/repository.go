package shift

import "context"

// Repository defines data access for shift policies.
type Repository interface {
	// GetByID retrieves a shift policy by ID
	GetByID(ctx context.Context, id string) (Policy, error)

	// List retrieves all shift policies
	List(ctx context.Context) ([]Policy, error)

	// Create creates a new shift policy (admin tooling and seeds)
	Create(ctx context.Context, policy Policy) (Policy, error)
}

package leave

import "context"

// TypeRepository - data access for leave type configuration
type TypeRepository interface {
	GetByID(ctx context.Context, id string) (Type, error)
	ListActive(ctx context.Context) ([]Type, error)
	Create(ctx context.Context, leaveType Type) (Type, error)
}

// BalanceRepository - data access for the (employee, leave type, year)
// balance ledger. GetForUpdate must take a row lock when running inside a
// transaction so concurrent reserve/commit on the same key serialize.
type BalanceRepository interface {
	Create(ctx context.Context, balance Balance) (Balance, error)
	GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (Balance, error)
	Update(ctx context.Context, balance Balance) error
	ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]Balance, error)
}

// RequestRepository - data access for leave requests
type RequestRepository interface {
	Create(ctx context.Context, request Request) (Request, error)
	GetByID(ctx context.Context, id string) (Request, error)
	Update(ctx context.Context, request Request) error
	List(ctx context.Context, filter RequestFilter) ([]Request, int64, error)
	ListPendingByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]Request, error)
}

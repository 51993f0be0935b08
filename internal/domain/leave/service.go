package leave

import "context"

// Service defines the leave approval workflow exposed to the HTTP layer.
type Service interface {
	// Apply creates a pending request and reserves the balance; both
	// effects commit together or neither does
	Apply(ctx context.Context, employeeID string, req ApplyRequest) (RequestResponse, error)

	// Approve decides a pending request. Approval commits the balance and
	// reconciles the approved range into the attendance ledger in the
	// same transaction
	Approve(ctx context.Context, approverID string, req ApprovalRequest) (RequestResponse, error)

	// Cancel cancels a pending or approved request. Cancelling an
	// approved request refunds the balance but leaves already-written
	// attendance records untouched; callers must check request status
	// rather than infer it from attendance
	Cancel(ctx context.Context, cancelledBy string, req CancelRequest) (RequestResponse, error)

	// GetBalances returns every leave type's balance for an employee and
	// year, materializing defaults for types with no ledger row yet
	GetBalances(ctx context.Context, employeeID string, year int) ([]BalanceResponse, error)

	// GetRequest retrieves a single request by ID
	GetRequest(ctx context.Context, id string) (RequestResponse, error)

	// ListRequests retrieves requests with filters and pagination
	ListRequests(ctx context.Context, filter RequestFilter) (ListRequestsResponse, error)

	// ListPendingApprovals retrieves pending requests from a manager's
	// direct reports
	ListPendingApprovals(ctx context.Context, managerID string) ([]RequestResponse, error)

	// ListTypes retrieves the active leave type catalogue
	ListTypes(ctx context.Context) ([]Type, error)
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/peoplehq/workday-backend-go/internal/domain/leave"
)

type leaveTypeRepository struct {
	store *Store
}

func NewLeaveTypeRepository(store *Store) leave.TypeRepository {
	return &leaveTypeRepository{store: store}
}

func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.Type, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	lt, ok := r.store.leaveTypes[id]
	if !ok {
		return leave.Type{}, leave.ErrLeaveTypeNotFound
	}
	return lt, nil
}

func (r *leaveTypeRepository) ListActive(ctx context.Context) ([]leave.Type, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var types []leave.Type
	for _, lt := range r.store.leaveTypes {
		if lt.Active {
			types = append(types, lt)
		}
	}
	sort.Slice(types, func(i, j int) bool { return types[i].Name < types[j].Name })
	return types, nil
}

func (r *leaveTypeRepository) Create(ctx context.Context, leaveType leave.Type) (leave.Type, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	leaveType.ID = uuid.NewString()
	leaveType.CreatedAt = time.Now()
	leaveType.UpdatedAt = leaveType.CreatedAt
	r.store.leaveTypes[leaveType.ID] = leaveType
	return leaveType, nil
}

type leaveBalanceRepository struct {
	store *Store
}

func NewLeaveBalanceRepository(store *Store) leave.BalanceRepository {
	return &leaveBalanceRepository{store: store}
}

func (r *leaveBalanceRepository) Create(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	balance.ID = uuid.NewString()
	balance.CreatedAt = time.Now()
	balance.UpdatedAt = balance.CreatedAt
	r.store.balances[balance.ID] = balance
	return balance, nil
}

func (r *leaveBalanceRepository) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, b := range r.store.balances {
		if b.EmployeeID == employeeID && b.LeaveTypeID == leaveTypeID && b.Year == year {
			return b, nil
		}
	}
	return leave.Balance{}, leave.ErrBalanceNotFound
}

func (r *leaveBalanceRepository) Update(ctx context.Context, balance leave.Balance) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	if _, ok := r.store.balances[balance.ID]; !ok {
		return leave.ErrBalanceNotFound
	}
	balance.UpdatedAt = time.Now()
	r.store.balances[balance.ID] = balance
	return nil
}

func (r *leaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var balances []leave.Balance
	for _, b := range r.store.balances {
		if b.EmployeeID == employeeID && b.Year == year {
			balances = append(balances, b)
		}
	}
	sort.Slice(balances, func(i, j int) bool { return balances[i].LeaveTypeID < balances[j].LeaveTypeID })
	return balances, nil
}

type leaveRequestRepository struct {
	store *Store
}

func NewLeaveRequestRepository(store *Store) leave.RequestRepository {
	return &leaveRequestRepository{store: store}
}

func (r *leaveRequestRepository) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	request.ID = uuid.NewString()
	request.CreatedAt = time.Now()
	request.UpdatedAt = request.CreatedAt
	r.store.leaveRequests[request.ID] = request
	return request, nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	req, ok := r.store.leaveRequests[id]
	if !ok || req.Tombstoned {
		return leave.Request{}, leave.ErrLeaveRequestNotFound
	}
	return req, nil
}

func (r *leaveRequestRepository) Update(ctx context.Context, request leave.Request) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	existing, ok := r.store.leaveRequests[request.ID]
	if !ok || existing.Tombstoned {
		return leave.ErrLeaveRequestNotFound
	}
	request.UpdatedAt = time.Now()
	r.store.leaveRequests[request.ID] = request
	return nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var matched []leave.Request
	for _, req := range r.store.leaveRequests {
		if req.Tombstoned {
			continue
		}
		if filter.EmployeeID != nil && req.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.Year != nil && req.FromDate.Year() != *filter.Year {
			continue
		}
		if filter.Status != nil && req.Status != *filter.Status {
			continue
		}
		r.decorate(&req)
		matched = append(matched, req)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].FromDate.After(matched[j].FromDate) })

	total := int64(len(matched))
	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}
	offset := (page - 1) * limit
	if offset >= len(matched) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

func (r *leaveRequestRepository) ListPendingByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]leave.Request, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	ids := make(map[string]bool, len(employeeIDs))
	for _, id := range employeeIDs {
		ids[id] = true
	}

	var pending []leave.Request
	for _, req := range r.store.leaveRequests {
		if req.Tombstoned || req.Status != leave.StatusPending || !ids[req.EmployeeID] {
			continue
		}
		r.decorate(&req)
		pending = append(pending, req)
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].CreatedAt.Before(pending[j].CreatedAt) })
	return pending, nil
}

// decorate fills the display-name fields the SQL layer gets from joins.
func (r *leaveRequestRepository) decorate(req *leave.Request) {
	if lt, ok := r.store.leaveTypes[req.LeaveTypeID]; ok {
		name := lt.Name
		req.LeaveTypeName = &name
	}
	if emp, ok := r.store.employees[req.EmployeeID]; ok {
		name := emp.FullName
		req.EmployeeName = &name
	}
}

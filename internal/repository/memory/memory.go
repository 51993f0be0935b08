// Package memory holds in-memory repository implementations backed by maps.
// They power the service test suites and local demos without a database.
// All repositories created from one Store share a single mutex, so the
// Store's TxManager gives the same all-or-nothing illusion the PostgreSQL
// layer gets from real transactions, minus rollback.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/peoplehq/workday-backend-go/internal/domain/attendance"
	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
	"github.com/peoplehq/workday-backend-go/internal/domain/leave"
	"github.com/peoplehq/workday-backend-go/internal/domain/notification"
	"github.com/peoplehq/workday-backend-go/internal/domain/shift"
)

// Store is the shared backing state for all in-memory repositories.
type Store struct {
	mu sync.Mutex

	attendances   map[string]attendance.Attendance
	shifts        map[string]shift.Policy
	employees     map[string]employee.Employee
	leaveTypes    map[string]leave.Type
	balances      map[string]leave.Balance
	leaveRequests map[string]leave.Request
	notifications map[string]notification.Notification
}

func NewStore() *Store {
	return &Store{
		attendances:   make(map[string]attendance.Attendance),
		shifts:        make(map[string]shift.Policy),
		employees:     make(map[string]employee.Employee),
		leaveTypes:    make(map[string]leave.Type),
		balances:      make(map[string]leave.Balance),
		leaveRequests: make(map[string]leave.Request),
		notifications: make(map[string]notification.Notification),
	}
}

// SeedEmployee inserts a directory record for tests and demos.
func (s *Store) SeedEmployee(e employee.Employee) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.employees[e.ID] = e
}

// TxManager serializes transactional sections against the store mutex. The
// callback runs under the lock, so repository calls inside it must come from
// this package (they re-enter via the tx-aware paths below).
type TxManager struct {
	store *Store
}

func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

type txKey struct{}

// RunInTx runs fn while holding the store lock. Repositories skip their own
// locking when the context carries the marker, mirroring how the PostgreSQL
// repositories pick the transaction querier out of the context.
func (m *TxManager) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	m.store.mu.Lock()
	defer m.store.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

// lock acquires the store mutex unless the context already holds it via
// RunInTx. The returned func undoes whatever lock was taken.
func (s *Store) lock(ctx context.Context) func() {
	if held, _ := ctx.Value(txKey{}).(bool); held {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/peoplehq/workday-backend-go/internal/domain/shift"
)

type shiftRepository struct {
	store *Store
}

func NewShiftRepository(store *Store) shift.Repository {
	return &shiftRepository{store: store}
}

func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Policy, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	policy, ok := r.store.shifts[id]
	if !ok {
		return shift.Policy{}, shift.ErrShiftNotFound
	}
	return policy, nil
}

func (r *shiftRepository) List(ctx context.Context) ([]shift.Policy, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	policies := make([]shift.Policy, 0, len(r.store.shifts))
	for _, p := range r.store.shifts {
		policies = append(policies, p)
	}
	sort.Slice(policies, func(i, j int) bool { return policies[i].Name < policies[j].Name })
	return policies, nil
}

func (r *shiftRepository) Create(ctx context.Context, policy shift.Policy) (shift.Policy, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	policy.ID = uuid.NewString()
	policy.CreatedAt = time.Now()
	policy.UpdatedAt = policy.CreatedAt
	r.store.shifts[policy.ID] = policy
	return policy, nil
}

package memory

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/peoplehq/workday-backend-go/internal/domain/attendance"
)

type attendanceRepository struct {
	store *Store
}

func NewAttendanceRepository(store *Store) attendance.Repository {
	return &attendanceRepository{store: store}
}

func (r *attendanceRepository) Create(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	att.ID = uuid.NewString()
	att.CreatedAt = time.Now()
	att.UpdatedAt = att.CreatedAt
	r.store.attendances[att.ID] = att
	return att, nil
}

func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	att, ok := r.store.attendances[id]
	if !ok || att.Tombstoned {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	return att, nil
}

func (r *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	for _, att := range r.store.attendances {
		if att.Tombstoned || att.EmployeeID != employeeID || !sameDate(att.Date, date) {
			continue
		}
		found := att
		return &found, nil
	}
	return nil, nil
}

func (r *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	existing, ok := r.store.attendances[att.ID]
	if !ok || existing.Tombstoned {
		return attendance.ErrAttendanceNotFound
	}
	att.UpdatedAt = time.Now()
	r.store.attendances[att.ID] = att
	return nil
}

func (r *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var result []attendance.Attendance
	for _, att := range r.store.attendances {
		if att.Tombstoned || att.EmployeeID != employeeID {
			continue
		}
		if att.Date.Before(from) && !sameDate(att.Date, from) {
			continue
		}
		if att.Date.After(to) && !sameDate(att.Date, to) {
			continue
		}
		result = append(result, att)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (r *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var matched []attendance.Attendance
	for _, att := range r.store.attendances {
		if att.Tombstoned {
			continue
		}
		if filter.EmployeeID != nil && att.EmployeeID != *filter.EmployeeID {
			continue
		}
		if filter.StartDate != nil && att.Date.Before(*filter.StartDate) && !sameDate(att.Date, *filter.StartDate) {
			continue
		}
		if filter.EndDate != nil && att.Date.After(*filter.EndDate) && !sameDate(att.Date, *filter.EndDate) {
			continue
		}
		if filter.Status != nil && att.Status != *filter.Status {
			continue
		}
		if emp, ok := r.store.employees[att.EmployeeID]; ok {
			name := emp.FullName
			att.EmployeeName = &name
		}
		matched = append(matched, att)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date.After(matched[j].Date) })

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

func (r *attendanceRepository) Tombstone(ctx context.Context, id string) error {
	unlock := r.store.lock(ctx)
	defer unlock()

	att, ok := r.store.attendances[id]
	if !ok || att.Tombstoned {
		return attendance.ErrAttendanceNotFound
	}
	att.Tombstoned = true
	att.UpdatedAt = time.Now()
	r.store.attendances[id] = att
	return nil
}

package memory

import (
	"context"
	"sort"

	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
)

type employeeDirectory struct {
	store *Store
}

func NewEmployeeDirectory(store *Store) employee.Directory {
	return &employeeDirectory{store: store}
}

func (r *employeeDirectory) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	emp, ok := r.store.employees[id]
	if !ok {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	return emp, nil
}

func (r *employeeDirectory) ListByManager(ctx context.Context, managerID string) ([]employee.Employee, error) {
	unlock := r.store.lock(ctx)
	defer unlock()

	var reports []employee.Employee
	for _, emp := range r.store.employees {
		if emp.ManagerID != nil && *emp.ManagerID == managerID {
			reports = append(reports, emp)
		}
	}
	sort.Slice(reports, func(i, j int) bool { return reports[i].FullName < reports[j].FullName })
	return reports, nil
}

package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/peoplehq/workday-backend-go/internal/domain/shift"
	"github.com/peoplehq/workday-backend-go/internal/pkg/database"
)

type shiftRepository struct {
	db *database.DB
}

func NewShiftRepository(db *database.DB) shift.Repository {
	return &shiftRepository{db: db}
}

const shiftColumns = `
	id, name, code, start_time, end_time,
	break_start, break_end, break_duration_minutes,
	working_hours, min_working_hours,
	grace_in_minutes, grace_out_minutes,
	overtime_enabled, overtime_start_after_minutes,
	created_at, updated_at
`

func scanShift(row pgx.Row) (shift.Policy, error) {
	var p shift.Policy
	err := row.Scan(
		&p.ID, &p.Name, &p.Code, &p.StartTime, &p.EndTime,
		&p.BreakStart, &p.BreakEnd, &p.BreakDurationMinutes,
		&p.WorkingHours, &p.MinWorkingHours,
		&p.GraceInMinutes, &p.GraceOutMinutes,
		&p.OvertimeEnabled, &p.OvertimeStartAfterMinutes,
		&p.CreatedAt, &p.UpdatedAt,
	)
	return p, err
}

// GetByID implements shift.Repository.
func (r *shiftRepository) GetByID(ctx context.Context, id string) (shift.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shift_policies WHERE id = $1`

	p, err := scanShift(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return shift.Policy{}, shift.ErrShiftNotFound
		}
		return shift.Policy{}, fmt.Errorf("failed to get shift policy by ID: %w", err)
	}

	return p, nil
}

// List implements shift.Repository.
func (r *shiftRepository) List(ctx context.Context) ([]shift.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + shiftColumns + ` FROM shift_policies ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list shift policies: %w", err)
	}
	defer rows.Close()

	var policies []shift.Policy
	for rows.Next() {
		p, err := scanShift(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan shift policy: %w", err)
		}
		policies = append(policies, p)
	}

	return policies, rows.Err()
}

// Create implements shift.Repository.
func (r *shiftRepository) Create(ctx context.Context, policy shift.Policy) (shift.Policy, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO shift_policies (
			name, code, start_time, end_time,
			break_start, break_end, break_duration_minutes,
			working_hours, min_working_hours,
			grace_in_minutes, grace_out_minutes,
			overtime_enabled, overtime_start_after_minutes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		policy.Name,
		policy.Code,
		policy.StartTime,
		policy.EndTime,
		policy.BreakStart,
		policy.BreakEnd,
		policy.BreakDurationMinutes,
		policy.WorkingHours,
		policy.MinWorkingHours,
		policy.GraceInMinutes,
		policy.GraceOutMinutes,
		policy.OvertimeEnabled,
		policy.OvertimeStartAfterMinutes,
	).Scan(&policy.ID, &policy.CreatedAt, &policy.UpdatedAt)

	if err != nil {
		return shift.Policy{}, fmt.Errorf("failed to create shift policy: %w", err)
	}

	return policy, nil
}

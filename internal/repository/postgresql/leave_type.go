package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/peoplehq/workday-backend-go/internal/domain/leave"
	"github.com/peoplehq/workday-backend-go/internal/pkg/database"
	"github.com/shopspring/decimal"
)

type leaveTypeRepository struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.TypeRepository {
	return &leaveTypeRepository{db: db}
}

func scanLeaveType(row pgx.Row) (leave.Type, error) {
	var lt leave.Type
	var daysAllowed float64
	err := row.Scan(
		&lt.ID, &lt.Name, &lt.Code, &lt.Description,
		&daysAllowed, &lt.CarryForward, &lt.HalfDayAllowed, &lt.Active,
		&lt.CreatedAt, &lt.UpdatedAt,
	)
	if err != nil {
		return leave.Type{}, err
	}
	lt.DaysAllowed = decimal.NewFromFloat(daysAllowed)
	return lt, nil
}

const leaveTypeColumns = `
	id, name, code, description,
	days_allowed::float8, carry_forward, half_day_allowed, is_active,
	created_at, updated_at
`

// GetByID implements leave.TypeRepository.
func (r *leaveTypeRepository) GetByID(ctx context.Context, id string) (leave.Type, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE id = $1 AND deleted_at IS NULL`

	lt, err := scanLeaveType(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Type{}, leave.ErrLeaveTypeNotFound
		}
		return leave.Type{}, fmt.Errorf("failed to get leave type by ID: %w", err)
	}

	return lt, nil
}

// ListActive implements leave.TypeRepository.
func (r *leaveTypeRepository) ListActive(ctx context.Context) ([]leave.Type, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveTypeColumns + ` FROM leave_types WHERE is_active AND deleted_at IS NULL ORDER BY name`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave types: %w", err)
	}
	defer rows.Close()

	var types []leave.Type
	for rows.Next() {
		lt, err := scanLeaveType(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave type: %w", err)
		}
		types = append(types, lt)
	}

	return types, rows.Err()
}

// Create implements leave.TypeRepository.
func (r *leaveTypeRepository) Create(ctx context.Context, leaveType leave.Type) (leave.Type, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_types (
			name, code, description, days_allowed, carry_forward, half_day_allowed, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		leaveType.Name,
		leaveType.Code,
		leaveType.Description,
		leaveType.DaysAllowed.String(),
		leaveType.CarryForward,
		leaveType.HalfDayAllowed,
		leaveType.Active,
	).Scan(&leaveType.ID, &leaveType.CreatedAt, &leaveType.UpdatedAt)

	if err != nil {
		return leave.Type{}, fmt.Errorf("failed to create leave type: %w", err)
	}

	return leaveType, nil
}

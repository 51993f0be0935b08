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

type leaveBalanceRepository struct {
	db *database.DB
}

// NewLeaveBalanceRepository returns the PostgreSQL-backed balance ledger.
// The leave_balances table has a unique index on
// (employee_id, leave_type_id, year), so lazy materialization cannot race
// into duplicate rows.
func NewLeaveBalanceRepository(db *database.DB) leave.BalanceRepository {
	return &leaveBalanceRepository{db: db}
}

const leaveBalanceColumns = `
	id, employee_id, leave_type_id, year,
	allocated::float8, used::float8, pending::float8, carry_forward::float8, encashed::float8,
	created_at, updated_at
`

func scanLeaveBalance(row pgx.Row) (leave.Balance, error) {
	var b leave.Balance
	var allocated, used, pending, carryForward, encashed float64
	err := row.Scan(
		&b.ID, &b.EmployeeID, &b.LeaveTypeID, &b.Year,
		&allocated, &used, &pending, &carryForward, &encashed,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return leave.Balance{}, err
	}
	b.Allocated = decimal.NewFromFloat(allocated)
	b.Used = decimal.NewFromFloat(used)
	b.Pending = decimal.NewFromFloat(pending)
	b.CarryForward = decimal.NewFromFloat(carryForward)
	b.Encashed = decimal.NewFromFloat(encashed)
	return b, nil
}

// Create implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Create(ctx context.Context, balance leave.Balance) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_balances (
			employee_id, leave_type_id, year,
			allocated, used, pending, carry_forward, encashed
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		balance.EmployeeID,
		balance.LeaveTypeID,
		balance.Year,
		balance.Allocated.String(),
		balance.Used.String(),
		balance.Pending.String(),
		balance.CarryForward.String(),
		balance.Encashed.String(),
	).Scan(&balance.ID, &balance.CreatedAt, &balance.UpdatedAt)

	if err != nil {
		return leave.Balance{}, fmt.Errorf("failed to create leave balance: %w", err)
	}

	return balance, nil
}

// GetForUpdate implements leave.BalanceRepository. Inside a transaction the
// row is locked, serializing concurrent workflow mutations on the same key.
func (r *leaveBalanceRepository) GetForUpdate(ctx context.Context, employeeID, leaveTypeID string, year int) (leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND leave_type_id = $2 AND year = $3
	`
	if _, inTx := ctx.Value("tx").(pgx.Tx); inTx {
		query += " FOR UPDATE"
	}

	b, err := scanLeaveBalance(q.QueryRow(ctx, query, employeeID, leaveTypeID, year))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Balance{}, leave.ErrBalanceNotFound
		}
		return leave.Balance{}, fmt.Errorf("failed to get leave balance: %w", err)
	}

	return b, nil
}

// Update implements leave.BalanceRepository.
func (r *leaveBalanceRepository) Update(ctx context.Context, balance leave.Balance) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_balances SET
			allocated = $2, used = $3, pending = $4, carry_forward = $5, encashed = $6,
			updated_at = NOW()
		WHERE id = $1
	`

	tag, err := q.Exec(ctx, query,
		balance.ID,
		balance.Allocated.String(),
		balance.Used.String(),
		balance.Pending.String(),
		balance.CarryForward.String(),
		balance.Encashed.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to update leave balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrBalanceNotFound
	}

	return nil
}

// ListByEmployeeYear implements leave.BalanceRepository.
func (r *leaveBalanceRepository) ListByEmployeeYear(ctx context.Context, employeeID string, year int) ([]leave.Balance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveBalanceColumns + `
		FROM leave_balances
		WHERE employee_id = $1 AND year = $2
		ORDER BY leave_type_id
	`

	rows, err := q.Query(ctx, query, employeeID, year)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave balances: %w", err)
	}
	defer rows.Close()

	var balances []leave.Balance
	for rows.Next() {
		b, err := scanLeaveBalance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave balance: %w", err)
		}
		balances = append(balances, b)
	}

	return balances, rows.Err()
}

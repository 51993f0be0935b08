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

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.RequestRepository {
	return &leaveRequestRepository{db: db}
}

const leaveRequestColumns = `
	lr.id, lr.employee_id, lr.leave_type_id,
	lr.from_date, lr.to_date, lr.days::float8,
	lr.is_half_day, lr.half_day_type, lr.reason,
	lr.status, lr.approver_id, lr.approver_remarks, lr.approved_at,
	lr.cancelled_by, lr.cancelled_at, lr.cancellation_reason,
	lr.created_at, lr.updated_at
`

func scanLeaveRequest(row pgx.Row) (leave.Request, error) {
	var req leave.Request
	var days float64
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.LeaveTypeID,
		&req.FromDate, &req.ToDate, &days,
		&req.IsHalfDay, &req.HalfDayType, &req.Reason,
		&req.Status, &req.ApproverID, &req.ApproverRemarks, &req.ApprovedAt,
		&req.CancelledBy, &req.CancelledAt, &req.CancellationReason,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return leave.Request{}, err
	}
	req.Days = decimal.NewFromFloat(days)
	return req, nil
}

// Create implements leave.RequestRepository.
func (r *leaveRequestRepository) Create(ctx context.Context, request leave.Request) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO leave_requests (
			employee_id, leave_type_id, from_date, to_date, days,
			is_half_day, half_day_type, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		request.EmployeeID,
		request.LeaveTypeID,
		request.FromDate,
		request.ToDate,
		request.Days.String(),
		request.IsHalfDay,
		request.HalfDayType,
		request.Reason,
		request.Status,
	).Scan(&request.ID, &request.CreatedAt, &request.UpdatedAt)

	if err != nil {
		return leave.Request{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	return request, nil
}

// GetByID implements leave.RequestRepository. Inside a transaction the row
// is locked so a competing approve/cancel on the same request serializes.
func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.Request, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests lr
		WHERE lr.id = $1 AND lr.deleted_at IS NULL
	`
	if _, inTx := ctx.Value("tx").(pgx.Tx); inTx {
		query += " FOR UPDATE OF lr"
	}

	req, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Request{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Request{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	return req, nil
}

// Update implements leave.RequestRepository.
func (r *leaveRequestRepository) Update(ctx context.Context, request leave.Request) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_requests SET
			status = $2, approver_id = $3, approver_remarks = $4, approved_at = $5,
			cancelled_by = $6, cancelled_at = $7, cancellation_reason = $8,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		request.ID,
		request.Status,
		request.ApproverID,
		request.ApproverRemarks,
		request.ApprovedAt,
		request.CancelledBy,
		request.CancelledAt,
		request.CancellationReason,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}

	return nil
}

// List implements leave.RequestRepository.
func (r *leaveRequestRepository) List(ctx context.Context, filter leave.RequestFilter) ([]leave.Request, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "lr.deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseWhere += fmt.Sprintf(" AND lr.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Year != nil {
		baseWhere += fmt.Sprintf(" AND EXTRACT(YEAR FROM lr.from_date) = $%d", argIdx)
		args = append(args, *filter.Year)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND lr.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	var total int64
	countQuery := "SELECT COUNT(*) FROM leave_requests lr WHERE " + baseWhere
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	page := filter.Page
	if page <= 0 {
		page = 1
	}

	listQuery := fmt.Sprintf(`
		SELECT `+leaveRequestColumns+`,
			lt.name AS leave_type_name,
			e.full_name AS employee_name
		FROM leave_requests lr
		LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id
		LEFT JOIN employees e ON e.id = lr.employee_id
		WHERE %s
		ORDER BY lr.from_date DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		var days float64
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID,
			&req.FromDate, &req.ToDate, &days,
			&req.IsHalfDay, &req.HalfDayType, &req.Reason,
			&req.Status, &req.ApproverID, &req.ApproverRemarks, &req.ApprovedAt,
			&req.CancelledBy, &req.CancelledAt, &req.CancellationReason,
			&req.CreatedAt, &req.UpdatedAt,
			&req.LeaveTypeName, &req.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		req.Days = decimal.NewFromFloat(days)
		requests = append(requests, req)
	}

	return requests, total, rows.Err()
}

// ListPendingByEmployeeIDs implements leave.RequestRepository.
func (r *leaveRequestRepository) ListPendingByEmployeeIDs(ctx context.Context, employeeIDs []string) ([]leave.Request, error) {
	if len(employeeIDs) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + leaveRequestColumns + `,
			lt.name AS leave_type_name,
			e.full_name AS employee_name
		FROM leave_requests lr
		LEFT JOIN leave_types lt ON lt.id = lr.leave_type_id
		LEFT JOIN employees e ON e.id = lr.employee_id
		WHERE lr.employee_id = ANY($1) AND lr.status = 'pending' AND lr.deleted_at IS NULL
		ORDER BY lr.created_at
	`

	rows, err := q.Query(ctx, query, employeeIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.Request
	for rows.Next() {
		var req leave.Request
		var days float64
		err := rows.Scan(
			&req.ID, &req.EmployeeID, &req.LeaveTypeID,
			&req.FromDate, &req.ToDate, &days,
			&req.IsHalfDay, &req.HalfDayType, &req.Reason,
			&req.Status, &req.ApproverID, &req.ApproverRemarks, &req.ApprovedAt,
			&req.CancelledBy, &req.CancelledAt, &req.CancellationReason,
			&req.CreatedAt, &req.UpdatedAt,
			&req.LeaveTypeName, &req.EmployeeName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		req.Days = decimal.NewFromFloat(days)
		requests = append(requests, req)
	}

	return requests, rows.Err()
}

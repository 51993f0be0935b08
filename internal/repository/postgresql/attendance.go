package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/peoplehq/workday-backend-go/internal/domain/attendance"
	"github.com/peoplehq/workday-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

// NewAttendanceRepository returns the PostgreSQL-backed attendance ledger.
// The attendances table carries a unique index on (employee_id, date) where
// deleted_at is null, which backstops the one-record-per-employee-day
// invariant under concurrent writers.
func NewAttendanceRepository(db *database.DB) attendance.Repository {
	return &attendanceRepository{db: db}
}

const attendanceColumns = `
	id, employee_id, date, shift_id,
	check_in, check_out, work_mode,
	check_in_latitude, check_in_longitude, check_in_address,
	check_out_latitude, check_out_longitude, check_out_address,
	check_in_ip, check_out_ip, check_in_device, check_out_device,
	status, working_hours, overtime_hours, late_minutes, early_leave_minutes,
	is_late, is_early_leave, is_half_day, is_overtime,
	approval_status, approved_by, approved_at, approval_notes,
	notes, created_at, updated_at
`

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var att attendance.Attendance
	err := row.Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.ShiftID,
		&att.CheckIn, &att.CheckOut, &att.WorkMode,
		&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckInAddress,
		&att.CheckOutLatitude, &att.CheckOutLongitude, &att.CheckOutAddress,
		&att.CheckInIP, &att.CheckOutIP, &att.CheckInDevice, &att.CheckOutDevice,
		&att.Status, &att.WorkingHours, &att.OvertimeHours, &att.LateMinutes, &att.EarlyLeaveMinutes,
		&att.IsLate, &att.IsEarlyLeave, &att.IsHalfDay, &att.IsOvertime,
		&att.ApprovalStatus, &att.ApprovedBy, &att.ApprovedAt, &att.ApprovalNotes,
		&att.Notes, &att.CreatedAt, &att.UpdatedAt,
	)
	return att, err
}

// Create implements attendance.Repository.
func (a *attendanceRepository) Create(ctx context.Context, newAtt attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendances (
			employee_id, date, shift_id,
			check_in, check_out, work_mode,
			check_in_latitude, check_in_longitude, check_in_address,
			check_out_latitude, check_out_longitude, check_out_address,
			check_in_ip, check_out_ip, check_in_device, check_out_device,
			status, working_hours, overtime_hours, late_minutes, early_leave_minutes,
			is_late, is_early_leave, is_half_day, is_overtime,
			approval_status, approved_by, approved_at, approval_notes, notes
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20,
			$21, $22, $23, $24, $25, $26, $27, $28, $29, $30
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		newAtt.EmployeeID, newAtt.Date, newAtt.ShiftID,
		newAtt.CheckIn, newAtt.CheckOut, newAtt.WorkMode,
		newAtt.CheckInLatitude, newAtt.CheckInLongitude, newAtt.CheckInAddress,
		newAtt.CheckOutLatitude, newAtt.CheckOutLongitude, newAtt.CheckOutAddress,
		newAtt.CheckInIP, newAtt.CheckOutIP, newAtt.CheckInDevice, newAtt.CheckOutDevice,
		newAtt.Status, newAtt.WorkingHours, newAtt.OvertimeHours, newAtt.LateMinutes, newAtt.EarlyLeaveMinutes,
		newAtt.IsLate, newAtt.IsEarlyLeave, newAtt.IsHalfDay, newAtt.IsOvertime,
		newAtt.ApprovalStatus, newAtt.ApprovedBy, newAtt.ApprovedAt, newAtt.ApprovalNotes, newAtt.Notes,
	).Scan(&newAtt.ID, &newAtt.CreatedAt, &newAtt.UpdatedAt)

	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return newAtt, nil
}

// GetByID implements attendance.Repository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1 AND deleted_at IS NULL`

	att, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// GetByEmployeeAndDate implements attendance.Repository. Inside a
// transaction the row is locked so concurrent writers to the same
// employee-day serialize.
func (a *attendanceRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date = $2 AND deleted_at IS NULL
	`
	if _, inTx := ctx.Value("tx").(pgx.Tx); inTx {
		query += " FOR UPDATE"
	}

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, date))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil // no existing record for this employee-day
		}
		return nil, fmt.Errorf("failed to get attendance by employee and date: %w", err)
	}

	return &att, nil
}

// Update implements attendance.Repository.
func (a *attendanceRepository) Update(ctx context.Context, att attendance.Attendance) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendances SET
			shift_id = $2,
			check_in = $3, check_out = $4, work_mode = $5,
			check_in_latitude = $6, check_in_longitude = $7, check_in_address = $8,
			check_out_latitude = $9, check_out_longitude = $10, check_out_address = $11,
			check_in_ip = $12, check_out_ip = $13, check_in_device = $14, check_out_device = $15,
			status = $16, working_hours = $17, overtime_hours = $18,
			late_minutes = $19, early_leave_minutes = $20,
			is_late = $21, is_early_leave = $22, is_half_day = $23, is_overtime = $24,
			approval_status = $25, approved_by = $26, approved_at = $27, approval_notes = $28,
			notes = $29,
			updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		att.ID, att.ShiftID,
		att.CheckIn, att.CheckOut, att.WorkMode,
		att.CheckInLatitude, att.CheckInLongitude, att.CheckInAddress,
		att.CheckOutLatitude, att.CheckOutLongitude, att.CheckOutAddress,
		att.CheckInIP, att.CheckOutIP, att.CheckInDevice, att.CheckOutDevice,
		att.Status, att.WorkingHours, att.OvertimeHours,
		att.LateMinutes, att.EarlyLeaveMinutes,
		att.IsLate, att.IsEarlyLeave, att.IsHalfDay, att.IsOvertime,
		att.ApprovalStatus, att.ApprovedBy, att.ApprovedAt, att.ApprovalNotes,
		att.Notes,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// ListByEmployeeRange implements attendance.Repository.
func (a *attendanceRepository) ListByEmployeeRange(ctx context.Context, employeeID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date <= $3 AND deleted_at IS NULL
		ORDER BY date DESC
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance by range: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		att, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}

	return records, rows.Err()
}

// List implements attendance.Repository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.Filter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, a.db)

	baseWhere := "a.deleted_at IS NULL"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
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
		SELECT a.id, a.employee_id, a.date, a.shift_id,
			a.check_in, a.check_out, a.work_mode,
			a.check_in_latitude, a.check_in_longitude, a.check_in_address,
			a.check_out_latitude, a.check_out_longitude, a.check_out_address,
			a.check_in_ip, a.check_out_ip, a.check_in_device, a.check_out_device,
			a.status, a.working_hours, a.overtime_hours, a.late_minutes, a.early_leave_minutes,
			a.is_late, a.is_early_leave, a.is_half_day, a.is_overtime,
			a.approval_status, a.approved_by, a.approved_at, a.approval_notes,
			a.notes, a.created_at, a.updated_at,
			e.full_name AS employee_name
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := q.Query(ctx, listQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list attendances: %w", err)
	}
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.ShiftID,
			&att.CheckIn, &att.CheckOut, &att.WorkMode,
			&att.CheckInLatitude, &att.CheckInLongitude, &att.CheckInAddress,
			&att.CheckOutLatitude, &att.CheckOutLongitude, &att.CheckOutAddress,
			&att.CheckInIP, &att.CheckOutIP, &att.CheckInDevice, &att.CheckOutDevice,
			&att.Status, &att.WorkingHours, &att.OvertimeHours, &att.LateMinutes, &att.EarlyLeaveMinutes,
			&att.IsLate, &att.IsEarlyLeave, &att.IsHalfDay, &att.IsOvertime,
			&att.ApprovalStatus, &att.ApprovedBy, &att.ApprovedAt, &att.ApprovalNotes,
			&att.Notes, &att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan attendance: %w", err)
		}
		records = append(records, att)
	}

	return records, total, rows.Err()
}

// Tombstone implements attendance.Repository.
func (a *attendanceRepository) Tombstone(ctx context.Context, id string) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `UPDATE attendances SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return fmt.Errorf("failed to tombstone attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

package leave

import (
	"context"
	"fmt"
	"time"

	"github.com/peoplehq/workday-backend-go/internal/domain/attendance"
	"github.com/peoplehq/workday-backend-go/internal/domain/leave"
)

// Reconciler projects an approved leave request into the attendance ledger
// so reports agree with the leave workflow. It runs inside the approval
// transaction: a request is never approved with the ledger half-written.
type Reconciler struct {
	attendanceRepo attendance.Repository
}

func NewReconciler(attendanceRepo attendance.Repository) *Reconciler {
	return &Reconciler{attendanceRepo: attendanceRepo}
}

// Reconcile writes or updates one attendance record per business day of the
// approved range. Weekends are skipped. The operation is idempotent: a note
// already present is not appended again, and existing records keep their
// stamps and derived hours.
func (r *Reconciler) Reconcile(ctx context.Context, req leave.Request, leaveTypeName string) error {
	status := attendance.StatusOnLeave
	if req.IsHalfDay {
		status = attendance.StatusHalfDay
	}

	note := fmt.Sprintf("On Leave (%s)", leaveTypeName)
	if req.Reason != "" {
		note = fmt.Sprintf("%s: %s", note, req.Reason)
	}

	for d := dateOf(req.FromDate); !d.After(req.ToDate); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == time.Saturday || d.Weekday() == time.Sunday {
			continue
		}
		if err := r.reconcileDay(ctx, req, d, status, note); err != nil {
			return fmt.Errorf("%w: %s: %v", leave.ErrReconciliationIncomplete, d.Format("2006-01-02"), err)
		}
	}
	return nil
}

func (r *Reconciler) reconcileDay(ctx context.Context, req leave.Request, date time.Time, status attendance.Status, note string) error {
	existing, err := r.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
	if err != nil {
		return err
	}

	if existing == nil {
		att := attendance.Attendance{
			EmployeeID: req.EmployeeID,
			Date:       date,
			Status:     status,
			WorkMode:   attendance.WorkModeLeave,
		}
		att.AppendNote(note)
		_, err := r.attendanceRepo.Create(ctx, att)
		return err
	}

	att := *existing
	att.Status = status
	att.WorkMode = attendance.WorkModeLeave
	if !att.HasNote(note) {
		att.AppendNote(note)
	}
	return r.attendanceRepo.Update(ctx, att)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

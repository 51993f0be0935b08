// Package attendance implements the attendance ledger business logic:
// check-in/check-out stamping, lateness and overtime derivation, summaries,
// and the admin correction surface.
package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/peoplehq/workday-backend-go/internal/domain/attendance"
	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
	"github.com/peoplehq/workday-backend-go/internal/domain/notification"
	"github.com/peoplehq/workday-backend-go/internal/domain/shift"
	"github.com/peoplehq/workday-backend-go/internal/pkg/clock"
	"github.com/peoplehq/workday-backend-go/internal/pkg/database"
	"github.com/peoplehq/workday-backend-go/internal/pkg/validator"
)

type service struct {
	attendanceRepo attendance.Repository
	shiftRepo      shift.Repository
	employees      employee.Directory
	txManager      database.TxManager
	dispatcher     notification.Dispatcher
	clock          clock.Clock
}

func NewService(
	attendanceRepo attendance.Repository,
	shiftRepo shift.Repository,
	employees employee.Directory,
	txManager database.TxManager,
	dispatcher notification.Dispatcher,
	clk clock.Clock,
) attendance.Service {
	return &service{
		attendanceRepo: attendanceRepo,
		shiftRepo:      shiftRepo,
		employees:      employees,
		txManager:      txManager,
		dispatcher:     dispatcher,
		clock:          clk,
	}
}

// CheckIn implements attendance.Service. The existence check and the insert
// run in one transaction; the unique (employee_id, date) index backstops the
// race two concurrent check-ins would otherwise win together.
func (s *service) CheckIn(ctx context.Context, employeeID string, req attendance.CheckInRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.Response{}, err
	}

	now := s.clock.Now()
	today := dateOf(now)

	var policy *shift.Policy
	if emp.ShiftID != nil {
		p, err := s.shiftRepo.GetByID(ctx, *emp.ShiftID)
		if err != nil {
			return attendance.Response{}, err
		}
		policy = &p
	}

	att := attendance.Attendance{
		EmployeeID:       employeeID,
		Date:             today,
		ShiftID:          emp.ShiftID,
		CheckIn:          &now,
		WorkMode:         req.WorkMode,
		Status:           attendance.StatusPresent,
		CheckInLatitude:  req.Latitude,
		CheckInLongitude: req.Longitude,
		CheckInAddress:   req.Address,
		CheckInIP:        req.IPAddress,
		CheckInDevice:    req.DeviceInfo,
		Notes:            req.Notes,
	}

	// Grace only decides whether the check-in counts as late; the minutes
	// themselves are measured from the shift start.
	if policy != nil {
		shiftStart := policy.StartOn(today)
		graceEnd := shiftStart.Add(time.Duration(policy.GraceInMinutes) * time.Minute)
		if now.After(graceEnd) {
			att.IsLate = true
			att.LateMinutes = int(now.Sub(shiftStart).Minutes())
		}
	}

	err = s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
		if err != nil {
			return err
		}
		if existing != nil && existing.CheckIn != nil {
			return attendance.ErrAlreadyCheckedIn
		}
		if existing != nil {
			// A reconciler or admin upsert already wrote today's row;
			// stamp it instead of inserting a duplicate.
			att.ID = existing.ID
			att.Status = existing.Status
			att.Notes = existing.Notes
			if req.Notes != nil {
				att.AppendNote(*req.Notes)
			}
			return s.attendanceRepo.Update(ctx, att)
		}
		created, err := s.attendanceRepo.Create(ctx, att)
		if err != nil {
			return err
		}
		att = created
		return nil
	})
	if err != nil {
		return attendance.Response{}, err
	}

	if att.IsLate && att.LateMinutes > 0 {
		s.dispatcher.Notify(notification.CreateRequest{
			RecipientID: emp.UserID,
			Type:        notification.TypeLateCheckIn,
			Title:       "Late check-in",
			Message:     fmt.Sprintf("You checked in %d minutes late", att.LateMinutes),
			Category:    "attendance",
		})
		if emp.ManagerID != nil {
			if manager, mErr := s.employees.GetByID(ctx, *emp.ManagerID); mErr == nil {
				s.dispatcher.Notify(notification.CreateRequest{
					RecipientID: manager.UserID,
					Type:        notification.TypeLateCheckIn,
					Title:       "Late check-in",
					Message:     fmt.Sprintf("%s checked in %d minutes late", emp.FullName, att.LateMinutes),
					Category:    "attendance",
				})
			}
		}
	}

	return toResponse(att), nil
}

// CheckOut implements attendance.Service.
func (s *service) CheckOut(ctx context.Context, employeeID string, req attendance.CheckOutRequest) (attendance.Response, error) {
	now := s.clock.Now()
	today := dateOf(now)

	var att attendance.Attendance
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, today)
		if err != nil {
			return err
		}
		if existing == nil || existing.CheckIn == nil {
			return attendance.ErrNoCheckInFound
		}
		if existing.CheckOut != nil {
			return attendance.ErrAlreadyCheckedOut
		}

		att = *existing
		att.CheckOut = &now
		att.CheckOutLatitude = req.Latitude
		att.CheckOutLongitude = req.Longitude
		att.CheckOutAddress = req.Address
		att.CheckOutIP = req.IPAddress
		att.CheckOutDevice = req.DeviceInfo
		if req.Notes != nil {
			att.AppendNote(*req.Notes)
		}

		var policy *shift.Policy
		if att.ShiftID != nil {
			p, err := s.shiftRepo.GetByID(ctx, *att.ShiftID)
			if err != nil {
				return err
			}
			policy = &p
		}

		breakMinutes := 0
		if policy != nil {
			breakMinutes = policy.BreakDurationMinutes
		}
		att.RecalculateWorkingHours(breakMinutes)

		if policy != nil {
			shiftEnd := policy.EndOn(today)
			earlyBoundary := shiftEnd.Add(-time.Duration(policy.GraceOutMinutes) * time.Minute)
			if now.Before(earlyBoundary) {
				att.IsEarlyLeave = true
				att.EarlyLeaveMinutes = int(shiftEnd.Sub(now).Minutes())
			}
			if policy.OvertimeEnabled {
				otStart := shiftEnd.Add(time.Duration(policy.OvertimeStartAfterMinutes) * time.Minute)
				if now.After(otStart) {
					att.IsOvertime = true
					att.OvertimeHours = math.Round(now.Sub(otStart).Hours()*100) / 100
				}
			}
			if att.WorkingHours < policy.MinWorkingHours {
				att.IsHalfDay = true
				att.Status = attendance.StatusHalfDay
			}
		}

		return s.attendanceRepo.Update(ctx, att)
	})
	if err != nil {
		return attendance.Response{}, err
	}

	return toResponse(att), nil
}

// Today implements attendance.Service.
func (s *service) Today(ctx context.Context, employeeID string) (*attendance.Response, error) {
	att, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, employeeID, dateOf(s.clock.Now()))
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, nil
	}
	resp := toResponse(*att)
	return &resp, nil
}

// GetSummary implements attendance.Service. Absent days are calendar days
// in the range with no record at all; weekends and holidays are counted.
func (s *service) GetSummary(ctx context.Context, employeeID string, from, to time.Time) (attendance.Summary, error) {
	records, err := s.attendanceRepo.ListByEmployeeRange(ctx, employeeID, from, to)
	if err != nil {
		return attendance.Summary{}, err
	}

	summary := attendance.Summary{
		TotalDays: int(dateOf(to).Sub(dateOf(from)).Hours()/24) + 1,
	}
	for _, r := range records {
		if r.Status == attendance.StatusPresent {
			summary.PresentDays++
		}
		if r.IsHalfDay {
			summary.HalfDays++
		}
		if r.IsLate {
			summary.LateDays++
		}
		if r.WorkMode == attendance.WorkModeWFH {
			summary.WFHDays++
		}
		summary.TotalWorkingHours += r.WorkingHours
		summary.TotalOvertimeHours += r.OvertimeHours
	}
	summary.AbsentDays = summary.TotalDays - len(records)
	if summary.AbsentDays < 0 {
		summary.AbsentDays = 0
	}
	summary.TotalWorkingHours = math.Round(summary.TotalWorkingHours*100) / 100
	summary.TotalOvertimeHours = math.Round(summary.TotalOvertimeHours*100) / 100

	return summary, nil
}

// Get implements attendance.Service.
func (s *service) Get(ctx context.Context, id string) (attendance.Response, error) {
	att, err := s.attendanceRepo.GetByID(ctx, id)
	if err != nil {
		return attendance.Response{}, err
	}
	return toResponse(att), nil
}

// List implements attendance.Service.
func (s *service) List(ctx context.Context, filter attendance.Filter) (attendance.ListResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	records, total, err := s.attendanceRepo.List(ctx, filter)
	if err != nil {
		return attendance.ListResponse{}, err
	}

	resp := attendance.ListResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Records:    make([]attendance.Response, 0, len(records)),
	}
	for _, r := range records {
		resp.Records = append(resp.Records, toResponse(r))
	}
	return resp, nil
}

// Upsert implements attendance.Service. Derived fields are recomputed from
// the corrected stamps so an admin fix cannot leave stale lateness behind.
func (s *service) Upsert(ctx context.Context, req attendance.UpsertRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	emp, err := s.employees.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.Response{}, err
	}

	date, _ := validator.IsValidDate(req.Date)

	checkIn, err := parseStamp(req.CheckIn, "check_in")
	if err != nil {
		return attendance.Response{}, err
	}
	checkOut, err := parseStamp(req.CheckOut, "check_out")
	if err != nil {
		return attendance.Response{}, err
	}

	var att attendance.Attendance
	err = s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		existing, err := s.attendanceRepo.GetByEmployeeAndDate(ctx, req.EmployeeID, date)
		if err != nil {
			return err
		}

		if existing != nil {
			att = *existing
		} else {
			att = attendance.Attendance{
				EmployeeID: req.EmployeeID,
				Date:       date,
				ShiftID:    emp.ShiftID,
				Status:     attendance.StatusPresent,
				WorkMode:   attendance.WorkModeOffice,
			}
		}

		if req.ShiftID != nil {
			att.ShiftID = req.ShiftID
		}
		if checkIn != nil {
			att.CheckIn = checkIn
		}
		if checkOut != nil {
			att.CheckOut = checkOut
		}
		if req.WorkMode != nil {
			att.WorkMode = *req.WorkMode
		}
		if req.Status != nil {
			att.Status = *req.Status
		}
		if req.Notes != nil {
			att.AppendNote(*req.Notes)
		}

		s.rederive(ctx, &att, req.Status != nil)

		if existing != nil {
			return s.attendanceRepo.Update(ctx, att)
		}
		created, err := s.attendanceRepo.Create(ctx, att)
		if err != nil {
			return err
		}
		att = created
		return nil
	})
	if err != nil {
		return attendance.Response{}, err
	}

	return toResponse(att), nil
}

// rederive recomputes lateness, hours, early-leave, overtime and half-day
// from the record's current stamps and shift. An explicit status override
// suppresses the half-day status flip but not the numeric fields.
func (s *service) rederive(ctx context.Context, att *attendance.Attendance, statusOverride bool) {
	var policy *shift.Policy
	if att.ShiftID != nil {
		if p, err := s.shiftRepo.GetByID(ctx, *att.ShiftID); err == nil {
			policy = &p
		}
	}

	breakMinutes := 0
	if policy != nil {
		breakMinutes = policy.BreakDurationMinutes
	}
	att.RecalculateWorkingHours(breakMinutes)

	if policy == nil {
		return
	}

	att.IsLate = false
	att.LateMinutes = 0
	if att.CheckIn != nil {
		shiftStart := policy.StartOn(att.Date)
		graceEnd := shiftStart.Add(time.Duration(policy.GraceInMinutes) * time.Minute)
		if att.CheckIn.After(graceEnd) {
			att.IsLate = true
			att.LateMinutes = int(att.CheckIn.Sub(shiftStart).Minutes())
		}
	}

	att.IsEarlyLeave = false
	att.EarlyLeaveMinutes = 0
	att.IsOvertime = false
	att.OvertimeHours = 0
	if att.CheckOut != nil {
		shiftEnd := policy.EndOn(att.Date)
		earlyBoundary := shiftEnd.Add(-time.Duration(policy.GraceOutMinutes) * time.Minute)
		if att.CheckOut.Before(earlyBoundary) {
			att.IsEarlyLeave = true
			att.EarlyLeaveMinutes = int(shiftEnd.Sub(*att.CheckOut).Minutes())
		}
		if policy.OvertimeEnabled {
			otStart := shiftEnd.Add(time.Duration(policy.OvertimeStartAfterMinutes) * time.Minute)
			if att.CheckOut.After(otStart) {
				att.IsOvertime = true
				att.OvertimeHours = math.Round(att.CheckOut.Sub(otStart).Hours()*100) / 100
			}
		}
	}

	att.IsHalfDay = att.CheckIn != nil && att.CheckOut != nil && att.WorkingHours < policy.MinWorkingHours
	if att.IsHalfDay && !statusOverride {
		att.Status = attendance.StatusHalfDay
	}
}

// Review implements attendance.Service.
func (s *service) Review(ctx context.Context, reviewerID string, req attendance.ReviewRequest) (attendance.Response, error) {
	if err := req.Validate(); err != nil {
		return attendance.Response{}, err
	}

	att, err := s.attendanceRepo.GetByID(ctx, req.ID)
	if err != nil {
		return attendance.Response{}, err
	}

	now := s.clock.Now()
	status := req.Status
	att.ApprovalStatus = &status
	att.ApprovedBy = &reviewerID
	att.ApprovedAt = &now
	att.ApprovalNotes = req.Notes

	if err := s.attendanceRepo.Update(ctx, att); err != nil {
		return attendance.Response{}, err
	}

	return toResponse(att), nil
}

// Delete implements attendance.Service.
func (s *service) Delete(ctx context.Context, id string) error {
	return s.attendanceRepo.Tombstone(ctx, id)
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseStamp(value *string, field string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, *value)
	if err != nil {
		return nil, validator.ValidationErrors{{Field: field, Message: "must be an RFC 3339 timestamp"}}
	}
	return &t, nil
}

func toResponse(att attendance.Attendance) attendance.Response {
	resp := attendance.Response{
		ID:                att.ID,
		EmployeeID:        att.EmployeeID,
		EmployeeName:      att.EmployeeName,
		Date:              att.Date.Format("2006-01-02"),
		ShiftID:           att.ShiftID,
		WorkMode:          att.WorkMode,
		Status:            att.Status,
		WorkingHours:      att.WorkingHours,
		OvertimeHours:     att.OvertimeHours,
		LateMinutes:       att.LateMinutes,
		EarlyLeaveMinutes: att.EarlyLeaveMinutes,
		IsLate:            att.IsLate,
		IsEarlyLeave:      att.IsEarlyLeave,
		IsHalfDay:         att.IsHalfDay,
		IsOvertime:        att.IsOvertime,
		ApprovalStatus:    att.ApprovalStatus,
		Notes:             att.Notes,
	}
	if att.CheckIn != nil {
		v := att.CheckIn.Format(time.RFC3339)
		resp.CheckIn = &v
	}
	if att.CheckOut != nil {
		v := att.CheckOut.Format(time.RFC3339)
		resp.CheckOut = &v
	}
	return resp
}

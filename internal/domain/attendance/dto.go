package attendance

import (
	"time"

	"github.com/peoplehq/workday-backend-go/internal/pkg/validator"
)

// CheckInRequest carries the employee-supplied check-in payload. Geo and
// device fields are opaque metadata; there is no geofencing in this core.
type CheckInRequest struct {
	WorkMode  WorkMode `json:"work_mode"`
	Latitude  *string  `json:"latitude,omitempty"`
	Longitude *string  `json:"longitude,omitempty"`
	Address   *string  `json:"address,omitempty"`
	Notes     *string  `json:"notes,omitempty"`

	// Populated by the handler, not the client
	IPAddress  *string `json:"-"`
	DeviceInfo *string `json:"-"`
}

func (r CheckInRequest) Validate() error {
	var errs validator.ValidationErrors
	if r.WorkMode == "" {
		errs = append(errs, validator.ValidationError{Field: "work_mode", Message: "work mode is required"})
	} else if !validator.OneOf(string(r.WorkMode), string(WorkModeOffice), string(WorkModeWFH), string(WorkModeRemote)) {
		errs = append(errs, validator.ValidationError{Field: "work_mode", Message: "must be one of office, wfh, remote"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CheckOutRequest struct {
	Latitude  *string `json:"latitude,omitempty"`
	Longitude *string `json:"longitude,omitempty"`
	Address   *string `json:"address,omitempty"`
	Notes     *string `json:"notes,omitempty"`

	IPAddress  *string `json:"-"`
	DeviceInfo *string `json:"-"`
}

// UpsertRequest is the admin correction payload: create or fix a record for
// an explicit employee and date.
type UpsertRequest struct {
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	ShiftID    *string   `json:"shift_id,omitempty"`
	CheckIn    *string   `json:"check_in,omitempty"`
	CheckOut   *string   `json:"check_out,omitempty"`
	WorkMode   *WorkMode `json:"work_mode,omitempty"`
	Status     *Status   `json:"status,omitempty"`
	Notes      *string   `json:"notes,omitempty"`
}

func (r UpsertRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee ID is required"})
	}
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ReviewRequest approves or rejects a record.
type ReviewRequest struct {
	ID     string         `json:"-"`
	Status ApprovalStatus `json:"status"`
	Notes  *string        `json:"notes,omitempty"`
}

func (r ReviewRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.OneOf(string(r.Status), string(ApprovalApproved), string(ApprovalRejected)) {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be approved or rejected"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Summary aggregates a date range for one employee. Absent days are the
// calendar days in range with no record at all; weekends and holidays are
// not excluded at this layer.
type Summary struct {
	TotalDays          int     `json:"total_days"`
	PresentDays        int     `json:"present_days"`
	AbsentDays         int     `json:"absent_days"`
	LateDays           int     `json:"late_days"`
	WFHDays            int     `json:"wfh_days"`
	HalfDays           int     `json:"half_days"`
	TotalWorkingHours  float64 `json:"total_working_hours"`
	TotalOvertimeHours float64 `json:"total_overtime_hours"`
}

// Filter selects attendance records for listing.
type Filter struct {
	EmployeeID *string
	StartDate  *time.Time
	EndDate    *time.Time
	Status     *Status
	Page       int
	Limit      int
}

// Response is the JSON shape exposed to the HTTP layer.
type Response struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	EmployeeName      *string         `json:"employee_name,omitempty"`
	Date              string          `json:"date"`
	ShiftID           *string         `json:"shift_id,omitempty"`
	CheckIn           *string         `json:"check_in,omitempty"`
	CheckOut          *string         `json:"check_out,omitempty"`
	WorkMode          WorkMode        `json:"work_mode"`
	Status            Status          `json:"status"`
	WorkingHours      float64         `json:"working_hours"`
	OvertimeHours     float64         `json:"overtime_hours"`
	LateMinutes       int             `json:"late_minutes"`
	EarlyLeaveMinutes int             `json:"early_leave_minutes"`
	IsLate            bool            `json:"is_late"`
	IsEarlyLeave      bool            `json:"is_early_leave"`
	IsHalfDay         bool            `json:"is_half_day"`
	IsOvertime        bool            `json:"is_overtime"`
	ApprovalStatus    *ApprovalStatus `json:"approval_status,omitempty"`
	Notes             *string         `json:"notes,omitempty"`
}

type ListResponse struct {
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Records    []Response `json:"records"`
}

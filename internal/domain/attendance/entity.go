package attendance

import (
	"math"
	"strings"
	"time"
)

// Status tags the derived state of an attendance day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusHalfDay Status = "half_day"
	StatusOnLeave Status = "on_leave"
	StatusHoliday Status = "holiday"
	StatusWeekend Status = "weekend"
)

// WorkMode records where the employee worked from.
type WorkMode string

const (
	WorkModeOffice WorkMode = "office"
	WorkModeWFH    WorkMode = "wfh"
	WorkModeRemote WorkMode = "remote"
	WorkModeLeave  WorkMode = "leave"
)

// ApprovalStatus tracks the optional admin review of a record.
type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

// Attendance is the ledger row for one (employee, calendar date). At most
// one live record exists per key; records are tombstoned, never hard-deleted.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	ShiftID    *string

	CheckIn  *time.Time
	CheckOut *time.Time

	WorkMode WorkMode

	// Geo/device metadata: recorded verbatim, never validated here.
	CheckInLatitude   *string
	CheckInLongitude  *string
	CheckInAddress    *string
	CheckOutLatitude  *string
	CheckOutLongitude *string
	CheckOutAddress   *string
	CheckInIP         *string
	CheckOutIP        *string
	CheckInDevice     *string
	CheckOutDevice    *string

	// Derived fields
	Status            Status
	WorkingHours      float64
	OvertimeHours     float64
	LateMinutes       int
	EarlyLeaveMinutes int

	IsLate       bool
	IsEarlyLeave bool
	IsHalfDay    bool
	IsOvertime   bool

	// Admin review
	ApprovalStatus *ApprovalStatus
	ApprovedBy     *string
	ApprovedAt     *time.Time
	ApprovalNotes  *string

	Notes *string

	Tombstoned bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName *string
}

// RecalculateWorkingHours derives working hours from the two stamps minus
// the shift break, floored at zero and rounded to two decimals. No-op until
// both stamps are present.
func (a *Attendance) RecalculateWorkingHours(breakDurationMinutes int) float64 {
	if a.CheckIn == nil || a.CheckOut == nil {
		return a.WorkingHours
	}
	hours := a.CheckOut.Sub(*a.CheckIn).Hours() - float64(breakDurationMinutes)/60
	a.WorkingHours = math.Round(math.Max(0, hours)*100) / 100
	return a.WorkingHours
}

// AppendNote appends a line to the record's notes. Notes are append-only;
// existing content is never overwritten.
func (a *Attendance) AppendNote(line string) {
	if line == "" {
		return
	}
	if a.Notes == nil || *a.Notes == "" {
		a.Notes = &line
		return
	}
	combined := *a.Notes + "\n" + line
	a.Notes = &combined
}

// HasNote reports whether a line already appears in the notes. The leave
// reconciler uses this to stay idempotent under retry.
func (a *Attendance) HasNote(line string) bool {
	return a.Notes != nil && strings.Contains(*a.Notes, line)
}

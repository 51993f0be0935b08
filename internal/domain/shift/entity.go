package shift

import "time"

// Policy is the immutable per-shift configuration attendance calculations
// run against. Created and edited by an admin workflow outside this core;
// the attendance service only ever reads it.
type Policy struct {
	ID   string
	Name string
	Code string

	// Timing. StartTime/EndTime carry only the time-of-day component;
	// combine with a calendar date via OnDate before comparing.
	StartTime time.Time
	EndTime   time.Time

	BreakStart           *time.Time
	BreakEnd             *time.Time
	BreakDurationMinutes int

	// Working hours
	WorkingHours    float64
	MinWorkingHours float64

	// Grace periods
	GraceInMinutes  int
	GraceOutMinutes int

	// Overtime
	OvertimeEnabled           bool
	OvertimeStartAfterMinutes int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartOn anchors the shift's start time-of-day to the given calendar date
// in that date's location.
func (p Policy) StartOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		p.StartTime.Hour(), p.StartTime.Minute(), 0, 0, date.Location())
}

// EndOn anchors the shift's end time-of-day to the given calendar date.
func (p Policy) EndOn(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(),
		p.EndTime.Hour(), p.EndTime.Minute(), 0, 0, date.Location())
}

package attendance

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/peoplehq/workday-backend-go/internal/domain/attendance"
	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
	"github.com/peoplehq/workday-backend-go/internal/domain/notification"
	"github.com/peoplehq/workday-backend-go/internal/domain/shift"
	"github.com/peoplehq/workday-backend-go/internal/repository/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type captureDispatcher struct {
	mu   sync.Mutex
	sent []notification.CreateRequest
}

func (d *captureDispatcher) Notify(req notification.CreateRequest) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, req)
}

func (d *captureDispatcher) Close() {}

type fixture struct {
	store      *memory.Store
	svc        attendance.Service
	clock      *fakeClock
	dispatcher *captureDispatcher
	employee   employee.Employee
	manager    employee.Employee
}

// Monday, well clear of any DST weirdness.
var testDay = time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)

func at(hour, min int) time.Time {
	return time.Date(2025, 6, 16, hour, min, 0, 0, time.UTC)
}

func newFixture(t *testing.T) *fixture {
	store := memory.NewStore()
	shiftRepo := memory.NewShiftRepository(store)

	policy, err := shiftRepo.Create(context.Background(), shift.Policy{
		Name:                      "Regular",
		Code:                      "REG",
		StartTime:                 time.Date(0, 1, 1, 9, 0, 0, 0, time.UTC),
		EndTime:                   time.Date(0, 1, 1, 18, 0, 0, 0, time.UTC),
		BreakDurationMinutes:      60,
		WorkingHours:              8,
		MinWorkingHours:           4,
		GraceInMinutes:            15,
		GraceOutMinutes:           15,
		OvertimeEnabled:           true,
		OvertimeStartAfterMinutes: 30,
	})
	require.NoError(t, err)

	manager := employee.Employee{
		ID:       "mgr-1",
		UserID:   "user-mgr-1",
		FullName: "Maya Tan",
		Active:   true,
	}
	managerID := manager.ID
	emp := employee.Employee{
		ID:        "emp-1",
		UserID:    "user-emp-1",
		FullName:  "Arif Rahman",
		ShiftID:   &policy.ID,
		ManagerID: &managerID,
		Active:    true,
	}
	store.SeedEmployee(manager)
	store.SeedEmployee(emp)

	clk := &fakeClock{now: at(9, 0)}
	dispatcher := &captureDispatcher{}
	svc := NewService(
		memory.NewAttendanceRepository(store),
		shiftRepo,
		memory.NewEmployeeDirectory(store),
		memory.NewTxManager(store),
		dispatcher,
		clk,
	)

	return &fixture{
		store:      store,
		svc:        svc,
		clock:      clk,
		dispatcher: dispatcher,
		employee:   emp,
		manager:    manager,
	}
}

func TestCheckInOnTime(t *testing.T) {
	f := newFixture(t)
	f.clock.now = at(9, 5)

	resp, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	assert.False(t, resp.IsLate)
	assert.Equal(t, 0, resp.LateMinutes)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
	assert.Equal(t, testDay.Format("2006-01-02"), resp.Date)
	require.NotNil(t, resp.CheckIn)
	assert.Empty(t, f.dispatcher.sent)
}

func TestCheckInLateNotifiesEmployeeAndManager(t *testing.T) {
	f := newFixture(t)
	f.clock.now = at(9, 20)

	resp, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	// Late minutes count from shift start, not from the grace boundary.
	assert.True(t, resp.IsLate)
	assert.Equal(t, 20, resp.LateMinutes)

	require.Len(t, f.dispatcher.sent, 2)
	toEmployee := f.dispatcher.sent[0]
	assert.Equal(t, f.employee.UserID, toEmployee.RecipientID)
	assert.Equal(t, notification.TypeLateCheckIn, toEmployee.Type)
	assert.Contains(t, toEmployee.Message, "20 minutes")

	toManager := f.dispatcher.sent[1]
	assert.Equal(t, f.manager.UserID, toManager.RecipientID)
	assert.Equal(t, notification.TypeLateCheckIn, toManager.Type)
	assert.Contains(t, toManager.Message, "Arif Rahman")
	assert.Contains(t, toManager.Message, "20 minutes")
}

func TestCheckInWithinGraceIsNotLate(t *testing.T) {
	f := newFixture(t)
	f.clock.now = at(9, 15)

	resp, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeWFH,
	})
	require.NoError(t, err)
	assert.False(t, resp.IsLate)
}

func TestCheckInTwiceFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	_, err = f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestCheckInRejectsUnknownWorkMode(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: "onsite",
	})
	assert.Error(t, err)
}

func TestCheckOutFullDay(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	f.clock.now = at(18, 0)
	resp, err := f.svc.CheckOut(context.Background(), f.employee.ID, attendance.CheckOutRequest{})
	require.NoError(t, err)

	assert.Equal(t, 8.0, resp.WorkingHours)
	assert.False(t, resp.IsEarlyLeave)
	assert.False(t, resp.IsOvertime)
	assert.False(t, resp.IsHalfDay)
	assert.Equal(t, attendance.StatusPresent, resp.Status)
}

func TestCheckOutEarlyBecomesHalfDay(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	f.clock.now = at(12, 0)
	resp, err := f.svc.CheckOut(context.Background(), f.employee.ID, attendance.CheckOutRequest{})
	require.NoError(t, err)

	// 3h presence minus the 1h break leaves 2h, below the 4h minimum.
	assert.Equal(t, 2.0, resp.WorkingHours)
	assert.True(t, resp.IsHalfDay)
	assert.Equal(t, attendance.StatusHalfDay, resp.Status)
	assert.True(t, resp.IsEarlyLeave)
	assert.Equal(t, 360, resp.EarlyLeaveMinutes)
}

func TestCheckOutOvertime(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	f.clock.now = at(19, 30)
	resp, err := f.svc.CheckOut(context.Background(), f.employee.ID, attendance.CheckOutRequest{})
	require.NoError(t, err)

	// Overtime is measured from the threshold, not the shift end: shift
	// ends 18:00, overtime starts after 30 minutes, so 19:30 is 1 hour.
	assert.True(t, resp.IsOvertime)
	assert.Equal(t, 1.0, resp.OvertimeHours)
	assert.Equal(t, 9.5, resp.WorkingHours)
}

func TestCheckOutWithoutCheckIn(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckOut(context.Background(), f.employee.ID, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
}

func TestCheckOutTwiceFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	f.clock.now = at(18, 0)
	_, err = f.svc.CheckOut(context.Background(), f.employee.ID, attendance.CheckOutRequest{})
	require.NoError(t, err)

	_, err = f.svc.CheckOut(context.Background(), f.employee.ID, attendance.CheckOutRequest{})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)
}

func TestToday(t *testing.T) {
	f := newFixture(t)

	resp, err := f.svc.Today(context.Background(), f.employee.ID)
	require.NoError(t, err)
	assert.Nil(t, resp)

	_, err = f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	resp, err = f.svc.Today(context.Background(), f.employee.ID)
	require.NoError(t, err)
	require.NotNil(t, resp)
	assert.NotNil(t, resp.CheckIn)
}

func TestGetSummary(t *testing.T) {
	f := newFixture(t)

	// Mon-Wed: full day, late half day, nothing.
	days := []struct {
		checkIn  time.Time
		checkOut time.Time
	}{
		{at(9, 0), at(18, 0)},
		{time.Date(2025, 6, 17, 10, 0, 0, 0, time.UTC), time.Date(2025, 6, 17, 12, 0, 0, 0, time.UTC)},
	}
	for _, d := range days {
		f.clock.now = d.checkIn
		_, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
			WorkMode: attendance.WorkModeOffice,
		})
		require.NoError(t, err)
		f.clock.now = d.checkOut
		_, err = f.svc.CheckOut(context.Background(), f.employee.ID, attendance.CheckOutRequest{})
		require.NoError(t, err)
	}

	summary, err := f.svc.GetSummary(context.Background(), f.employee.ID,
		time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 6, 18, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	// The half day counts toward HalfDays only, not PresentDays.
	assert.Equal(t, 3, summary.TotalDays)
	assert.Equal(t, 1, summary.PresentDays)
	assert.Equal(t, 1, summary.AbsentDays)
	assert.Equal(t, 1, summary.LateDays)
	assert.Equal(t, 1, summary.HalfDays)
	assert.Equal(t, 9.0, summary.TotalWorkingHours)
}

func TestUpsertCreatesAndDerives(t *testing.T) {
	f := newFixture(t)

	checkIn := at(9, 20).Format(time.RFC3339)
	checkOut := at(18, 0).Format(time.RFC3339)
	resp, err := f.svc.Upsert(context.Background(), attendance.UpsertRequest{
		EmployeeID: f.employee.ID,
		Date:       "2025-06-16",
		CheckIn:    &checkIn,
		CheckOut:   &checkOut,
	})
	require.NoError(t, err)

	assert.True(t, resp.IsLate)
	assert.Equal(t, 20, resp.LateMinutes)
	assert.Equal(t, 7.67, resp.WorkingHours)
}

func TestUpsertCorrectsExisting(t *testing.T) {
	f := newFixture(t)

	f.clock.now = at(9, 20)
	created, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)
	require.True(t, created.IsLate)

	// Admin backdates the stamp to shift start; lateness must clear.
	fixedIn := at(9, 0).Format(time.RFC3339)
	resp, err := f.svc.Upsert(context.Background(), attendance.UpsertRequest{
		EmployeeID: f.employee.ID,
		Date:       "2025-06-16",
		CheckIn:    &fixedIn,
	})
	require.NoError(t, err)

	assert.Equal(t, created.ID, resp.ID)
	assert.False(t, resp.IsLate)
	assert.Equal(t, 0, resp.LateMinutes)
}

func TestReview(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	resp, err := f.svc.Review(context.Background(), f.manager.ID, attendance.ReviewRequest{
		ID:     created.ID,
		Status: attendance.ApprovalApproved,
	})
	require.NoError(t, err)

	require.NotNil(t, resp.ApprovalStatus)
	assert.Equal(t, attendance.ApprovalApproved, *resp.ApprovalStatus)
}

func TestDeleteTombstones(t *testing.T) {
	f := newFixture(t)

	created, err := f.svc.CheckIn(context.Background(), f.employee.ID, attendance.CheckInRequest{
		WorkMode: attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(context.Background(), created.ID))

	_, err = f.svc.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)

	// The employee-day is free again after the tombstone.
	today, err := f.svc.Today(context.Background(), f.employee.ID)
	require.NoError(t, err)
	assert.Nil(t, today)
}

package leave

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/peoplehq/workday-backend-go/internal/domain/attendance"
	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
	"github.com/peoplehq/workday-backend-go/internal/domain/leave"
	"github.com/peoplehq/workday-backend-go/internal/domain/notification"
	"github.com/peoplehq/workday-backend-go/internal/repository/memory"
	"github.com/shopspring/decimal"
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
	store          *memory.Store
	svc            leave.Service
	attendanceRepo attendance.Repository
	balanceRepo    leave.BalanceRepository
	dispatcher     *captureDispatcher
	employee       employee.Employee
	manager        employee.Employee
	annual         leave.Type
	sick           leave.Type
}

func newFixture(t *testing.T) *fixture {
	store := memory.NewStore()
	typeRepo := memory.NewLeaveTypeRepository(store)

	annual, err := typeRepo.Create(context.Background(), leave.Type{
		Name:           "Annual Leave",
		Code:           "AL",
		DaysAllowed:    decimal.NewFromInt(12),
		HalfDayAllowed: true,
		Active:         true,
	})
	require.NoError(t, err)
	sick, err := typeRepo.Create(context.Background(), leave.Type{
		Name:        "Sick Leave",
		Code:        "SL",
		DaysAllowed: decimal.NewFromInt(10),
		Active:      true,
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
		ManagerID: &managerID,
		Active:    true,
	}
	store.SeedEmployee(manager)
	store.SeedEmployee(emp)

	attendanceRepo := memory.NewAttendanceRepository(store)
	balanceRepo := memory.NewLeaveBalanceRepository(store)
	dispatcher := &captureDispatcher{}
	svc := NewService(
		typeRepo,
		balanceRepo,
		memory.NewLeaveRequestRepository(store),
		memory.NewEmployeeDirectory(store),
		NewReconciler(attendanceRepo),
		memory.NewTxManager(store),
		dispatcher,
		&fakeClock{now: time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC)},
	)

	return &fixture{
		store:          store,
		svc:            svc,
		attendanceRepo: attendanceRepo,
		balanceRepo:    balanceRepo,
		dispatcher:     dispatcher,
		employee:       emp,
		manager:        manager,
		annual:         annual,
		sick:           sick,
	}
}

func (f *fixture) balance(t *testing.T, leaveTypeID string) leave.Balance {
	b, err := f.balanceRepo.GetForUpdate(context.Background(), f.employee.ID, leaveTypeID, 2025)
	require.NoError(t, err)
	return b
}

func (f *fixture) apply(t *testing.T, req leave.ApplyRequest) leave.RequestResponse {
	resp, err := f.svc.Apply(context.Background(), f.employee.ID, req)
	require.NoError(t, err)
	return resp
}

func TestApplyReservesBalance(t *testing.T) {
	f := newFixture(t)

	resp := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-20",
		Reason:      "Family trip",
	})

	assert.Equal(t, leave.StatusPending, resp.Status)
	assert.True(t, resp.Days.Equal(decimal.NewFromInt(5)))

	b := f.balance(t, f.annual.ID)
	assert.True(t, b.Pending.Equal(decimal.NewFromInt(5)))
	assert.True(t, b.Available().Equal(decimal.NewFromInt(7)))

	require.Len(t, f.dispatcher.sent, 1)
	assert.Equal(t, notification.TypeLeaveApplied, f.dispatcher.sent[0].Type)
	assert.Equal(t, f.manager.UserID, f.dispatcher.sent[0].RecipientID)
}

func TestApplySpanningWeekendCountsBusinessDays(t *testing.T) {
	f := newFixture(t)

	// Thursday through Tuesday crosses one weekend.
	resp := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-19",
		ToDate:      "2025-06-24",
		Reason:      "Long weekend",
	})

	assert.True(t, resp.Days.Equal(decimal.NewFromInt(4)))
}

func TestApplyHalfDay(t *testing.T) {
	f := newFixture(t)

	half := leave.HalfDayFirst
	resp := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-16",
		IsHalfDay:   true,
		HalfDayType: &half,
		Reason:      "Dentist",
	})

	assert.True(t, resp.Days.Equal(decimal.RequireFromString("0.5")))
	b := f.balance(t, f.annual.ID)
	assert.True(t, b.Available().Equal(decimal.RequireFromString("11.5")))
}

func TestApplyHalfDayNotAllowedForType(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Apply(context.Background(), f.employee.ID, leave.ApplyRequest{
		LeaveTypeID: f.sick.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-16",
		IsHalfDay:   true,
		Reason:      "Checkup",
	})
	assert.Error(t, err)
}

func TestApplyInsufficientBalance(t *testing.T) {
	f := newFixture(t)

	// June 2nd through 20th is 15 business days against a 12-day allocation.
	_, err := f.svc.Apply(context.Background(), f.employee.ID, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-02",
		ToDate:      "2025-06-20",
		Reason:      "Sabbatical",
	})
	require.ErrorIs(t, err, leave.ErrInsufficientBalance)

	var balErr *leave.InsufficientBalanceError
	require.True(t, errors.As(err, &balErr))
	assert.True(t, balErr.Requested.Equal(decimal.NewFromInt(15)))
	assert.True(t, balErr.Available.Equal(decimal.NewFromInt(12)))

	// The failed application must leave no hold behind.
	b := f.balance(t, f.annual.ID)
	assert.True(t, b.Pending.IsZero())
}

func TestApplyWeekendOnlyFails(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Apply(context.Background(), f.employee.ID, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-21",
		ToDate:      "2025-06-22",
		Reason:      "Weekend",
	})
	assert.Error(t, err)
}

func TestApproveCommitsBalanceAndReconcilesAttendance(t *testing.T) {
	f := newFixture(t)

	applied := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-19",
		ToDate:      "2025-06-23",
		Reason:      "Family trip",
	})

	resp, err := f.svc.Approve(context.Background(), f.manager.ID, leave.ApprovalRequest{
		ID:       applied.ID,
		Decision: leave.DecisionApproved,
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusApproved, resp.Status)

	b := f.balance(t, f.annual.ID)
	assert.True(t, b.Pending.IsZero())
	assert.True(t, b.Used.Equal(decimal.NewFromInt(3)))

	// Thursday, Friday and Monday get ledger rows; the weekend does not.
	for _, day := range []string{"2025-06-19", "2025-06-20", "2025-06-23"} {
		date, _ := time.Parse("2006-01-02", day)
		att, err := f.attendanceRepo.GetByEmployeeAndDate(context.Background(), f.employee.ID, date)
		require.NoError(t, err)
		require.NotNil(t, att, "expected attendance row for %s", day)
		assert.Equal(t, attendance.StatusOnLeave, att.Status)
		assert.Equal(t, attendance.WorkModeLeave, att.WorkMode)
		require.NotNil(t, att.Notes)
		assert.Contains(t, *att.Notes, "On Leave (Annual Leave): Family trip")
	}
	for _, day := range []string{"2025-06-21", "2025-06-22"} {
		date, _ := time.Parse("2006-01-02", day)
		att, err := f.attendanceRepo.GetByEmployeeAndDate(context.Background(), f.employee.ID, date)
		require.NoError(t, err)
		assert.Nil(t, att, "expected no attendance row for %s", day)
	}

	// Applied + decision notifications.
	require.Len(t, f.dispatcher.sent, 2)
	assert.Equal(t, notification.TypeLeaveApproved, f.dispatcher.sent[1].Type)
	assert.Equal(t, f.employee.UserID, f.dispatcher.sent[1].RecipientID)
}

func TestRejectReleasesPending(t *testing.T) {
	f := newFixture(t)

	applied := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-17",
		Reason:      "Errands",
	})

	resp, err := f.svc.Approve(context.Background(), f.manager.ID, leave.ApprovalRequest{
		ID:       applied.ID,
		Decision: leave.DecisionRejected,
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusRejected, resp.Status)

	b := f.balance(t, f.annual.ID)
	assert.True(t, b.Pending.IsZero())
	assert.True(t, b.Used.IsZero())

	// No attendance rows for a rejected request.
	date, _ := time.Parse("2006-01-02", "2025-06-16")
	att, err := f.attendanceRepo.GetByEmployeeAndDate(context.Background(), f.employee.ID, date)
	require.NoError(t, err)
	assert.Nil(t, att)

	require.Len(t, f.dispatcher.sent, 2)
	assert.Equal(t, notification.TypeLeaveRejected, f.dispatcher.sent[1].Type)
}

func TestDecideNonPendingFails(t *testing.T) {
	f := newFixture(t)

	applied := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-16",
		Reason:      "Errands",
	})

	_, err := f.svc.Approve(context.Background(), f.manager.ID, leave.ApprovalRequest{
		ID:       applied.ID,
		Decision: leave.DecisionApproved,
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(context.Background(), f.manager.ID, leave.ApprovalRequest{
		ID:       applied.ID,
		Decision: leave.DecisionRejected,
	})
	require.ErrorIs(t, err, leave.ErrInvalidStatusTransition)

	var transErr *leave.InvalidStatusTransitionError
	require.True(t, errors.As(err, &transErr))
	assert.Equal(t, leave.StatusApproved, transErr.Current)
}

func TestCancelPendingReleasesHold(t *testing.T) {
	f := newFixture(t)

	applied := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-18",
		Reason:      "Errands",
	})

	resp, err := f.svc.Cancel(context.Background(), f.employee.ID, leave.CancelRequest{
		ID:     applied.ID,
		Reason: "Plans changed",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, resp.Status)

	b := f.balance(t, f.annual.ID)
	assert.True(t, b.Pending.IsZero())
	assert.True(t, b.Available().Equal(decimal.NewFromInt(12)))
}

func TestCancelApprovedRefundsButKeepsAttendance(t *testing.T) {
	f := newFixture(t)

	applied := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-17",
		Reason:      "Family trip",
	})
	_, err := f.svc.Approve(context.Background(), f.manager.ID, leave.ApprovalRequest{
		ID:       applied.ID,
		Decision: leave.DecisionApproved,
	})
	require.NoError(t, err)

	resp, err := f.svc.Cancel(context.Background(), f.employee.ID, leave.CancelRequest{
		ID:     applied.ID,
		Reason: "Trip cancelled",
	})
	require.NoError(t, err)
	assert.Equal(t, leave.StatusCancelled, resp.Status)

	b := f.balance(t, f.annual.ID)
	assert.True(t, b.Used.IsZero())
	assert.True(t, b.Available().Equal(decimal.NewFromInt(12)))

	// Attendance rows written at approval time stay on the ledger; the
	// request's status is the source of truth, not the attendance echo.
	date, _ := time.Parse("2006-01-02", "2025-06-16")
	att, err := f.attendanceRepo.GetByEmployeeAndDate(context.Background(), f.employee.ID, date)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusOnLeave, att.Status)
}

func TestCancelCancelledFails(t *testing.T) {
	f := newFixture(t)

	applied := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-16",
		Reason:      "Errands",
	})
	_, err := f.svc.Cancel(context.Background(), f.employee.ID, leave.CancelRequest{
		ID:     applied.ID,
		Reason: "Plans changed",
	})
	require.NoError(t, err)

	_, err = f.svc.Cancel(context.Background(), f.employee.ID, leave.CancelRequest{
		ID:     applied.ID,
		Reason: "Again",
	})
	assert.ErrorIs(t, err, leave.ErrInvalidStatusTransition)
}

func TestGetBalancesMaterializesDefaults(t *testing.T) {
	f := newFixture(t)

	balances, err := f.svc.GetBalances(context.Background(), f.employee.ID, 2025)
	require.NoError(t, err)
	require.Len(t, balances, 2)

	byCode := map[string]leave.BalanceResponse{}
	for _, b := range balances {
		byCode[b.LeaveTypeCode] = b
	}
	assert.True(t, byCode["AL"].Available.Equal(decimal.NewFromInt(12)))
	assert.True(t, byCode["SL"].Available.Equal(decimal.NewFromInt(10)))

	// No ledger rows were persisted by the read.
	_, err = f.balanceRepo.GetForUpdate(context.Background(), f.employee.ID, f.annual.ID, 2025)
	assert.ErrorIs(t, err, leave.ErrBalanceNotFound)
}

func TestGetBalancesReflectsHolds(t *testing.T) {
	f := newFixture(t)

	f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-18",
		Reason:      "Errands",
	})

	balances, err := f.svc.GetBalances(context.Background(), f.employee.ID, 2025)
	require.NoError(t, err)
	for _, b := range balances {
		if b.LeaveTypeID != f.annual.ID {
			continue
		}
		assert.True(t, b.Pending.Equal(decimal.NewFromInt(3)))
		assert.True(t, b.Available.Equal(decimal.NewFromInt(9)))
	}
}

func TestListPendingApprovals(t *testing.T) {
	f := newFixture(t)

	applied := f.apply(t, leave.ApplyRequest{
		LeaveTypeID: f.annual.ID,
		FromDate:    "2025-06-16",
		ToDate:      "2025-06-17",
		Reason:      "Errands",
	})

	pending, err := f.svc.ListPendingApprovals(context.Background(), f.manager.ID)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, applied.ID, pending[0].ID)
	require.NotNil(t, pending[0].EmployeeName)
	assert.Equal(t, "Arif Rahman", *pending[0].EmployeeName)

	// A manager with no reports sees nothing.
	none, err := f.svc.ListPendingApprovals(context.Background(), f.employee.ID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestReconcilerIsIdempotent(t *testing.T) {
	f := newFixture(t)
	reconciler := NewReconciler(f.attendanceRepo)

	req := leave.Request{
		EmployeeID: f.employee.ID,
		FromDate:   time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		ToDate:     time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC),
		Reason:     "Family trip",
	}
	require.NoError(t, reconciler.Reconcile(context.Background(), req, "Annual Leave"))
	require.NoError(t, reconciler.Reconcile(context.Background(), req, "Annual Leave"))

	att, err := f.attendanceRepo.GetByEmployeeAndDate(context.Background(), f.employee.ID, req.FromDate)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.Equal(t, "On Leave (Annual Leave): Family trip", *att.Notes)
}

func TestReconcilerKeepsExistingStamps(t *testing.T) {
	f := newFixture(t)
	reconciler := NewReconciler(f.attendanceRepo)

	day := time.Date(2025, 6, 16, 0, 0, 0, 0, time.UTC)
	checkIn := day.Add(9 * time.Hour)
	_, err := f.attendanceRepo.Create(context.Background(), attendance.Attendance{
		EmployeeID: f.employee.ID,
		Date:       day,
		CheckIn:    &checkIn,
		Status:     attendance.StatusPresent,
		WorkMode:   attendance.WorkModeOffice,
	})
	require.NoError(t, err)

	req := leave.Request{
		EmployeeID: f.employee.ID,
		FromDate:   day,
		ToDate:     day,
		IsHalfDay:  true,
	}
	require.NoError(t, reconciler.Reconcile(context.Background(), req, "Annual Leave"))

	att, err := f.attendanceRepo.GetByEmployeeAndDate(context.Background(), f.employee.ID, day)
	require.NoError(t, err)
	require.NotNil(t, att)
	assert.Equal(t, attendance.StatusHalfDay, att.Status)
	require.NotNil(t, att.CheckIn)
	assert.True(t, att.CheckIn.Equal(checkIn))
}

// Package leave implements the leave balance ledger and approval workflow:
// apply, approve/reject, cancel, and the projection of approved leave into
// the attendance ledger.
package leave

import (
	"context"
	"errors"
	"fmt"

	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
	"github.com/peoplehq/workday-backend-go/internal/domain/leave"
	"github.com/peoplehq/workday-backend-go/internal/domain/notification"
	"github.com/peoplehq/workday-backend-go/internal/pkg/clock"
	"github.com/peoplehq/workday-backend-go/internal/pkg/database"
	"github.com/peoplehq/workday-backend-go/internal/pkg/validator"
)

type service struct {
	typeRepo    leave.TypeRepository
	balanceRepo leave.BalanceRepository
	requestRepo leave.RequestRepository
	employees   employee.Directory
	reconciler  *Reconciler
	txManager   database.TxManager
	dispatcher  notification.Dispatcher
	clock       clock.Clock
}

func NewService(
	typeRepo leave.TypeRepository,
	balanceRepo leave.BalanceRepository,
	requestRepo leave.RequestRepository,
	employees employee.Directory,
	reconciler *Reconciler,
	txManager database.TxManager,
	dispatcher notification.Dispatcher,
	clk clock.Clock,
) leave.Service {
	return &service{
		typeRepo:    typeRepo,
		balanceRepo: balanceRepo,
		requestRepo: requestRepo,
		employees:   employees,
		reconciler:  reconciler,
		txManager:   txManager,
		dispatcher:  dispatcher,
		clock:       clk,
	}
}

// Apply implements leave.Service. The availability check, the pending hold
// and the request insert commit as one unit.
func (s *service) Apply(ctx context.Context, employeeID string, req leave.ApplyRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	emp, err := s.employees.GetByID(ctx, employeeID)
	if err != nil {
		return leave.RequestResponse{}, err
	}

	leaveType, err := s.typeRepo.GetByID(ctx, req.LeaveTypeID)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if req.IsHalfDay && !leaveType.HalfDayAllowed {
		return leave.RequestResponse{}, validator.ValidationErrors{
			{Field: "is_half_day", Message: fmt.Sprintf("%s does not allow half-day leave", leaveType.Name)},
		}
	}

	from, _ := validator.IsValidDate(req.FromDate)
	to, _ := validator.IsValidDate(req.ToDate)

	days := leave.CountDays(from, to, req.IsHalfDay)
	if days.IsZero() {
		return leave.RequestResponse{}, validator.ValidationErrors{
			{Field: "from_date", Message: "range contains no business days"},
		}
	}

	request := leave.Request{
		EmployeeID:  employeeID,
		LeaveTypeID: req.LeaveTypeID,
		FromDate:    from,
		ToDate:      to,
		Days:        days,
		IsHalfDay:   req.IsHalfDay,
		HalfDayType: req.HalfDayType,
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	}

	err = s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		balance, err := s.ensureBalance(ctx, employeeID, leaveType, from.Year())
		if err != nil {
			return err
		}

		if days.GreaterThan(balance.Available()) {
			return &leave.InsufficientBalanceError{Requested: days, Available: balance.Available()}
		}

		balance.Reserve(days)
		if err := s.balanceRepo.Update(ctx, balance); err != nil {
			return err
		}

		created, err := s.requestRepo.Create(ctx, request)
		if err != nil {
			return err
		}
		request = created
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	if emp.ManagerID != nil {
		if manager, mErr := s.employees.GetByID(ctx, *emp.ManagerID); mErr == nil {
			s.dispatcher.Notify(notification.CreateRequest{
				RecipientID: manager.UserID,
				Type:        notification.TypeLeaveApplied,
				Title:       "Leave request",
				Message:     fmt.Sprintf("%s applied for %s day(s) of %s", emp.FullName, request.Days, leaveType.Name),
				Category:    "leave",
			})
		}
	}

	name := leaveType.Name
	request.LeaveTypeName = &name
	return toRequestResponse(request), nil
}

// ensureBalance loads the locked balance row for the key, materializing one
// from the leave type's annual allocation on first touch.
func (s *service) ensureBalance(ctx context.Context, employeeID string, leaveType leave.Type, year int) (leave.Balance, error) {
	balance, err := s.balanceRepo.GetForUpdate(ctx, employeeID, leaveType.ID, year)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, leave.ErrBalanceNotFound) {
		return leave.Balance{}, err
	}

	return s.balanceRepo.Create(ctx, leave.Balance{
		EmployeeID:  employeeID,
		LeaveTypeID: leaveType.ID,
		Year:        year,
		Allocated:   leaveType.DaysAllowed,
	})
}

// Approve implements leave.Service. Balance commit, request transition and
// attendance reconciliation are one transaction; if any day of the range
// cannot be written the whole decision rolls back.
func (s *service) Approve(ctx context.Context, approverID string, req leave.ApprovalRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	var request leave.Request
	var leaveType leave.Type
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.requestRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}
		if request.Status != leave.StatusPending {
			return &leave.InvalidStatusTransitionError{
				Current:   request.Status,
				Attempted: leave.RequestStatus(req.Decision),
			}
		}

		leaveType, err = s.typeRepo.GetByID(ctx, request.LeaveTypeID)
		if err != nil {
			return err
		}

		balance, err := s.balanceRepo.GetForUpdate(ctx, request.EmployeeID, request.LeaveTypeID, request.FromDate.Year())
		if err != nil {
			return err
		}

		now := s.clock.Now()
		request.ApproverID = &approverID
		request.ApproverRemarks = req.Remarks
		request.ApprovedAt = &now

		switch req.Decision {
		case leave.DecisionApproved:
			request.Status = leave.StatusApproved
			balance.CommitUsed(request.Days)
		case leave.DecisionRejected:
			request.Status = leave.StatusRejected
			balance.ReleasePending(request.Days)
		}

		if err := s.balanceRepo.Update(ctx, balance); err != nil {
			return err
		}
		if err := s.requestRepo.Update(ctx, request); err != nil {
			return err
		}

		if request.Status == leave.StatusApproved {
			return s.reconciler.Reconcile(ctx, request, leaveType.Name)
		}
		return nil
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	s.notifyDecision(ctx, request, leaveType.Name)

	name := leaveType.Name
	request.LeaveTypeName = &name
	return toRequestResponse(request), nil
}

func (s *service) notifyDecision(ctx context.Context, request leave.Request, leaveTypeName string) {
	emp, err := s.employees.GetByID(ctx, request.EmployeeID)
	if err != nil {
		return
	}

	notifType := notification.TypeLeaveApproved
	title := "Leave approved"
	if request.Status == leave.StatusRejected {
		notifType = notification.TypeLeaveRejected
		title = "Leave rejected"
	}
	s.dispatcher.Notify(notification.CreateRequest{
		RecipientID: emp.UserID,
		Type:        notifType,
		Title:       title,
		Message: fmt.Sprintf("Your %s request for %s to %s was %s",
			leaveTypeName,
			request.FromDate.Format("2006-01-02"),
			request.ToDate.Format("2006-01-02"),
			request.Status),
		Category: "leave",
	})
}

// Cancel implements leave.Service. Cancelling an approved request refunds
// used days but does not rewrite attendance records the reconciler already
// produced; the request's status is the source of truth.
func (s *service) Cancel(ctx context.Context, cancelledBy string, req leave.CancelRequest) (leave.RequestResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.RequestResponse{}, err
	}

	var request leave.Request
	err := s.txManager.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.requestRepo.GetByID(ctx, req.ID)
		if err != nil {
			return err
		}

		balance, err := s.balanceRepo.GetForUpdate(ctx, request.EmployeeID, request.LeaveTypeID, request.FromDate.Year())
		if err != nil {
			return err
		}

		switch request.Status {
		case leave.StatusPending:
			balance.ReleasePending(request.Days)
		case leave.StatusApproved:
			balance.RefundUsed(request.Days)
		default:
			return &leave.InvalidStatusTransitionError{
				Current:   request.Status,
				Attempted: leave.StatusCancelled,
			}
		}

		now := s.clock.Now()
		request.Status = leave.StatusCancelled
		request.CancelledBy = &cancelledBy
		request.CancelledAt = &now
		request.CancellationReason = &req.Reason

		if err := s.balanceRepo.Update(ctx, balance); err != nil {
			return err
		}
		return s.requestRepo.Update(ctx, request)
	})
	if err != nil {
		return leave.RequestResponse{}, err
	}

	return toRequestResponse(request), nil
}

// GetBalances implements leave.Service. Types with no ledger row yet are
// reported at their full allocation without writing anything; the row is
// only materialized when an application first reserves against it.
func (s *service) GetBalances(ctx context.Context, employeeID string, year int) ([]leave.BalanceResponse, error) {
	types, err := s.typeRepo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	balances, err := s.balanceRepo.ListByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	byType := make(map[string]leave.Balance, len(balances))
	for _, b := range balances {
		byType[b.LeaveTypeID] = b
	}

	responses := make([]leave.BalanceResponse, 0, len(types))
	for _, lt := range types {
		balance, ok := byType[lt.ID]
		if !ok {
			balance = leave.Balance{Allocated: lt.DaysAllowed, Year: year}
		}
		responses = append(responses, leave.BalanceResponse{
			LeaveTypeID:   lt.ID,
			LeaveTypeName: lt.Name,
			LeaveTypeCode: lt.Code,
			Year:          year,
			Allocated:     balance.Allocated,
			Used:          balance.Used,
			Pending:       balance.Pending,
			CarryForward:  balance.CarryForward,
			Encashed:      balance.Encashed,
			Available:     balance.Available(),
		})
	}
	return responses, nil
}

// GetRequest implements leave.Service.
func (s *service) GetRequest(ctx context.Context, id string) (leave.RequestResponse, error) {
	request, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return leave.RequestResponse{}, err
	}
	if request.LeaveTypeName == nil {
		if lt, ltErr := s.typeRepo.GetByID(ctx, request.LeaveTypeID); ltErr == nil {
			request.LeaveTypeName = &lt.Name
		}
	}
	return toRequestResponse(request), nil
}

// ListRequests implements leave.Service.
func (s *service) ListRequests(ctx context.Context, filter leave.RequestFilter) (leave.ListRequestsResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}

	requests, total, err := s.requestRepo.List(ctx, filter)
	if err != nil {
		return leave.ListRequestsResponse{}, err
	}

	resp := leave.ListRequestsResponse{
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		Requests:   make([]leave.RequestResponse, 0, len(requests)),
	}
	for _, r := range requests {
		resp.Requests = append(resp.Requests, toRequestResponse(r))
	}
	return resp, nil
}

// ListPendingApprovals implements leave.Service.
func (s *service) ListPendingApprovals(ctx context.Context, managerID string) ([]leave.RequestResponse, error) {
	reports, err := s.employees.ListByManager(ctx, managerID)
	if err != nil {
		return nil, err
	}
	if len(reports) == 0 {
		return []leave.RequestResponse{}, nil
	}

	ids := make([]string, 0, len(reports))
	for _, r := range reports {
		ids = append(ids, r.ID)
	}

	pending, err := s.requestRepo.ListPendingByEmployeeIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	responses := make([]leave.RequestResponse, 0, len(pending))
	for _, r := range pending {
		responses = append(responses, toRequestResponse(r))
	}
	return responses, nil
}

// ListTypes implements leave.Service.
func (s *service) ListTypes(ctx context.Context) ([]leave.Type, error) {
	return s.typeRepo.ListActive(ctx)
}

func toRequestResponse(r leave.Request) leave.RequestResponse {
	return leave.RequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		EmployeeName:    r.EmployeeName,
		LeaveTypeID:     r.LeaveTypeID,
		LeaveTypeName:   r.LeaveTypeName,
		FromDate:        r.FromDate.Format("2006-01-02"),
		ToDate:          r.ToDate.Format("2006-01-02"),
		Days:            r.Days,
		IsHalfDay:       r.IsHalfDay,
		HalfDayType:     r.HalfDayType,
		Reason:          r.Reason,
		Status:          r.Status,
		ApproverID:      r.ApproverID,
		ApproverRemarks: r.ApproverRemarks,
		ApprovedAt:      r.ApprovedAt,
		CancelledBy:     r.CancelledBy,
		CancelledAt:     r.CancelledAt,
		CreatedAt:       r.CreatedAt,
	}
}

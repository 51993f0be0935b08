package leave

import (
	"time"

	"github.com/peoplehq/workday-backend-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ApplyRequest is the employee-facing leave application payload.
type ApplyRequest struct {
	LeaveTypeID string       `json:"leave_type_id"`
	FromDate    string       `json:"from_date"`
	ToDate      string       `json:"to_date"`
	IsHalfDay   bool         `json:"is_half_day"`
	HalfDayType *HalfDayType `json:"half_day_type,omitempty"`
	Reason      string       `json:"reason"`
}

func (r ApplyRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.LeaveTypeID) {
		errs = append(errs, validator.ValidationError{Field: "leave_type_id", Message: "leave type is required"})
	}
	from, okFrom := validator.IsValidDate(r.FromDate)
	if !okFrom {
		errs = append(errs, validator.ValidationError{Field: "from_date", Message: "must be YYYY-MM-DD"})
	}
	to, okTo := validator.IsValidDate(r.ToDate)
	if !okTo {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must be YYYY-MM-DD"})
	}
	if okFrom && okTo && to.Before(from) {
		errs = append(errs, validator.ValidationError{Field: "to_date", Message: "must not be before from_date"})
	}
	if r.IsHalfDay {
		if okFrom && okTo && !from.Equal(to) {
			errs = append(errs, validator.ValidationError{Field: "is_half_day", Message: "half-day leave must cover a single date"})
		}
		if r.HalfDayType != nil && !validator.OneOf(string(*r.HalfDayType), string(HalfDayFirst), string(HalfDaySecond)) {
			errs = append(errs, validator.ValidationError{Field: "half_day_type", Message: "must be first_half or second_half"})
		}
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "reason is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ApprovalRequest is the manager decision payload.
type ApprovalRequest struct {
	ID       string   `json:"-"`
	Decision Decision `json:"decision"`
	Remarks  *string  `json:"remarks,omitempty"`
}

func (r ApprovalRequest) Validate() error {
	var errs validator.ValidationErrors
	if !validator.OneOf(string(r.Decision), string(DecisionApproved), string(DecisionRejected)) {
		errs = append(errs, validator.ValidationError{Field: "decision", Message: "must be approved or rejected"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// CancelRequest cancels a pending or approved leave.
type CancelRequest struct {
	ID     string `json:"-"`
	Reason string `json:"reason"`
}

func (r CancelRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "reason", Message: "cancellation reason is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// RequestFilter selects leave requests for listing.
type RequestFilter struct {
	EmployeeID *string
	Year       *int
	Status     *RequestStatus
	Page       int
	Limit      int
}

// RequestResponse is the JSON shape of a leave request.
type RequestResponse struct {
	ID              string          `json:"id"`
	EmployeeID      string          `json:"employee_id"`
	EmployeeName    *string         `json:"employee_name,omitempty"`
	LeaveTypeID     string          `json:"leave_type_id"`
	LeaveTypeName   *string         `json:"leave_type_name,omitempty"`
	FromDate        string          `json:"from_date"`
	ToDate          string          `json:"to_date"`
	Days            decimal.Decimal `json:"days"`
	IsHalfDay       bool            `json:"is_half_day"`
	HalfDayType     *HalfDayType    `json:"half_day_type,omitempty"`
	Reason          string          `json:"reason"`
	Status          RequestStatus   `json:"status"`
	ApproverID      *string         `json:"approver_id,omitempty"`
	ApproverRemarks *string         `json:"approver_remarks,omitempty"`
	ApprovedAt      *time.Time      `json:"approved_at,omitempty"`
	CancelledBy     *string         `json:"cancelled_by,omitempty"`
	CancelledAt     *time.Time      `json:"cancelled_at,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
}

type ListRequestsResponse struct {
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	Requests   []RequestResponse `json:"requests"`
}

// BalanceResponse is the JSON shape of one balance row, materialized from
// the leave type's allocation when no row exists yet.
type BalanceResponse struct {
	LeaveTypeID   string          `json:"leave_type_id"`
	LeaveTypeName string          `json:"leave_type_name"`
	LeaveTypeCode string          `json:"leave_type_code"`
	Year          int             `json:"year"`
	Allocated     decimal.Decimal `json:"allocated"`
	Used          decimal.Decimal `json:"used"`
	Pending       decimal.Decimal `json:"pending"`
	CarryForward  decimal.Decimal `json:"carry_forward"`
	Encashed      decimal.Decimal `json:"encashed"`
	Available     decimal.Decimal `json:"available"`
}

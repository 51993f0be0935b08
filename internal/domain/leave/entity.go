package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// RequestStatus is the closed state set of a leave request.
type RequestStatus string

const (
	StatusPending   RequestStatus = "pending"
	StatusApproved  RequestStatus = "approved"
	StatusRejected  RequestStatus = "rejected"
	StatusCancelled RequestStatus = "cancelled"
)

// Decision is the approver's verdict on a pending request.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// HalfDayType distinguishes which half of the day a half-day leave covers.
type HalfDayType string

const (
	HalfDayFirst  HalfDayType = "first_half"
	HalfDaySecond HalfDayType = "second_half"
)

// Type is the leave-type configuration (annual allocation and policy
// flags). Owned by company administration; this core reads it to
// materialize balances lazily.
type Type struct {
	ID          string
	Name        string
	Code        string
	Description *string

	DaysAllowed    decimal.Decimal
	CarryForward   bool
	HalfDayAllowed bool
	Active         bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Balance is the per (employee, leave type, year) ledger row. All amounts
// are day counts; decimals carry exact half-day arithmetic.
//
// Invariant: Available() never goes negative after a committed mutation.
// The mutators below are only ever invoked inside the approval workflow's
// transactions, which perform the availability check as one unit with the
// mutation.
type Balance struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string
	Year        int

	Allocated    decimal.Decimal
	Used         decimal.Decimal
	Pending      decimal.Decimal
	CarryForward decimal.Decimal
	Encashed     decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Available is the derived balance an employee may still request.
func (b Balance) Available() decimal.Decimal {
	return b.Allocated.Add(b.CarryForward).Sub(b.Used).Sub(b.Pending).Sub(b.Encashed)
}

// Reserve places a pending hold for a newly applied request.
func (b *Balance) Reserve(days decimal.Decimal) {
	b.Pending = b.Pending.Add(days)
}

// CommitUsed converts a pending hold into used days on approval.
func (b *Balance) CommitUsed(days decimal.Decimal) {
	b.Pending = b.Pending.Sub(days)
	b.Used = b.Used.Add(days)
}

// ReleasePending drops a hold when a pending request is rejected or cancelled.
func (b *Balance) ReleasePending(days decimal.Decimal) {
	b.Pending = b.Pending.Sub(days)
}

// RefundUsed returns used days when an approved request is cancelled.
func (b *Balance) RefundUsed(days decimal.Decimal) {
	b.Used = b.Used.Sub(days)
}

// Request is a leave application moving through the approval workflow.
type Request struct {
	ID          string
	EmployeeID  string
	LeaveTypeID string

	FromDate time.Time
	ToDate   time.Time

	Days        decimal.Decimal
	IsHalfDay   bool
	HalfDayType *HalfDayType
	Reason      string

	Status          RequestStatus
	ApproverID      *string
	ApproverRemarks *string
	ApprovedAt      *time.Time

	CancelledBy        *string
	CancelledAt        *time.Time
	CancellationReason *string

	Tombstoned bool

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	LeaveTypeName *string
	EmployeeName  *string
}

// CountDays computes the billable days of a leave span: business days
// Monday-Friday, or a flat 0.5 for a half-day request. No holiday calendar
// is consulted at this layer.
func CountDays(from, to time.Time, isHalfDay bool) decimal.Decimal {
	if isHalfDay {
		return decimal.NewFromFloat(0.5)
	}
	days := int64(0)
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if d.Weekday() != time.Saturday && d.Weekday() != time.Sunday {
			days++
		}
	}
	return decimal.NewFromInt(days)
}

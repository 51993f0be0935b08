package leave

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrLeaveRequestNotFound     = errors.New("leave request not found")
	ErrLeaveTypeNotFound        = errors.New("leave type not found")
	ErrBalanceNotFound          = errors.New("leave balance not found")
	ErrInsufficientBalance      = errors.New("insufficient leave balance")
	ErrInvalidStatusTransition  = errors.New("invalid leave status transition")
	ErrReconciliationIncomplete = errors.New("leave approved but attendance reconciliation incomplete")
)

// InsufficientBalanceError reports how far an application exceeds the
// available balance. errors.Is matches it against ErrInsufficientBalance.
type InsufficientBalanceError struct {
	Requested decimal.Decimal
	Available decimal.Decimal
}

func (e *InsufficientBalanceError) Error() string {
	return fmt.Sprintf("insufficient leave balance: requested %s days, %s available (short by %s)",
		e.Requested, e.Available, e.Requested.Sub(e.Available))
}

func (e *InsufficientBalanceError) Is(target error) bool {
	return target == ErrInsufficientBalance
}

// InvalidStatusTransitionError reports the current vs attempted state of a
// rejected workflow transition. errors.Is matches it against
// ErrInvalidStatusTransition.
type InvalidStatusTransitionError struct {
	Current   RequestStatus
	Attempted RequestStatus
}

func (e *InvalidStatusTransitionError) Error() string {
	return fmt.Sprintf("invalid leave status transition: %s -> %s", e.Current, e.Attempted)
}

func (e *InvalidStatusTransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition
}

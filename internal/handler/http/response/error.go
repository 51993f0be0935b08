package response

import (
	"errors"
	"net/http"

	"github.com/peoplehq/workday-backend-go/internal/domain/attendance"
	"github.com/peoplehq/workday-backend-go/internal/domain/employee"
	"github.com/peoplehq/workday-backend-go/internal/domain/leave"
	"github.com/peoplehq/workday-backend-go/internal/domain/shift"
	"github.com/peoplehq/workday-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, attendance.ErrNoCheckInFound):
		BadRequest(w, "No check-in found for today", nil)
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Leave domain errors
	case errors.Is(err, leave.ErrInsufficientBalance):
		var balErr *leave.InsufficientBalanceError
		details := map[string]string(nil)
		if errors.As(err, &balErr) {
			details = map[string]string{
				"requested": balErr.Requested.String(),
				"available": balErr.Available.String(),
			}
		}
		BadRequest(w, "Insufficient leave balance", details)
	case errors.Is(err, leave.ErrInvalidStatusTransition):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrBalanceNotFound):
		NotFound(w, "Leave balance not found")

	// Directory and configuration errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Shift policy not found")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

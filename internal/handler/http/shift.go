package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/peoplehq/workday-backend-go/internal/domain/shift"
	"github.com/peoplehq/workday-backend-go/internal/handler/http/response"
	"github.com/peoplehq/workday-backend-go/internal/pkg/validator"
)

// ShiftHandler exposes the shift policy master data. Policies are plain
// configuration rows, so the handler talks to the repository directly.
type ShiftHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
}

type shiftHandlerImpl struct {
	shiftRepo shift.Repository
}

func NewShiftHandler(shiftRepo shift.Repository) ShiftHandler {
	return &shiftHandlerImpl{
		shiftRepo: shiftRepo,
	}
}

type createShiftRequest struct {
	Name                      string  `json:"name"`
	Code                      string  `json:"code"`
	StartTime                 string  `json:"start_time"`
	EndTime                   string  `json:"end_time"`
	BreakDurationMinutes      int     `json:"break_duration_minutes"`
	WorkingHours              float64 `json:"working_hours"`
	MinWorkingHours           float64 `json:"min_working_hours"`
	GraceInMinutes            int     `json:"grace_in_minutes"`
	GraceOutMinutes           int     `json:"grace_out_minutes"`
	OvertimeEnabled           bool    `json:"overtime_enabled"`
	OvertimeStartAfterMinutes int     `json:"overtime_start_after_minutes"`
}

func (req createShiftRequest) validate() (shift.Policy, error) {
	var errs validator.ValidationErrors
	if validator.IsEmpty(req.Name) {
		errs = append(errs, validator.ValidationError{Field: "name", Message: "name is required"})
	}
	if validator.IsEmpty(req.Code) {
		errs = append(errs, validator.ValidationError{Field: "code", Message: "code is required"})
	}
	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "start_time", Message: "must be HH:MM"})
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		errs = append(errs, validator.ValidationError{Field: "end_time", Message: "must be HH:MM"})
	}
	if len(errs) > 0 {
		return shift.Policy{}, errs
	}

	return shift.Policy{
		Name:                      req.Name,
		Code:                      req.Code,
		StartTime:                 start,
		EndTime:                   end,
		BreakDurationMinutes:      req.BreakDurationMinutes,
		WorkingHours:              req.WorkingHours,
		MinWorkingHours:           req.MinWorkingHours,
		GraceInMinutes:            req.GraceInMinutes,
		GraceOutMinutes:           req.GraceOutMinutes,
		OvertimeEnabled:           req.OvertimeEnabled,
		OvertimeStartAfterMinutes: req.OvertimeStartAfterMinutes,
	}, nil
}

// List implements ShiftHandler.
func (h *shiftHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftRepo.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements ShiftHandler.
func (h *shiftHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := h.shiftRepo.GetByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Create implements ShiftHandler.
func (h *shiftHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req createShiftRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	policy, err := req.validate()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	created, err := h.shiftRepo.Create(r.Context(), policy)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Shift policy created", created)
}

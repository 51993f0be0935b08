package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/peoplehq/workday-backend-go/internal/domain/notification"
	"github.com/peoplehq/workday-backend-go/internal/handler/http/response"
)

type NotificationHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	MarkRead(w http.ResponseWriter, r *http.Request)
}

type notificationHandlerImpl struct {
	notificationRepo notification.Repository
}

func NewNotificationHandler(notificationRepo notification.Repository) NotificationHandler {
	return &notificationHandlerImpl{
		notificationRepo: notificationRepo,
	}
}

// List implements NotificationHandler.
func (h *notificationHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	id, err := identityFromRequest(r)
	if err != nil {
		response.Unauthorized(w, err.Error())
		return
	}

	result, err := h.notificationRepo.ListByRecipient(r.Context(), id.UserID, queryInt(r, "limit", 50))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// MarkRead implements NotificationHandler.
func (h *notificationHandlerImpl) MarkRead(w http.ResponseWriter, r *http.Request) {
	if err := h.notificationRepo.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Notification marked as read", nil)
}

package handlers

import (
	"context"
	"net/http"

	"propmgmt/domain/access"
	"propmgmt/domain/contracts"
	"propmgmt/logging"
)

// NotificationService reads notifications addressed to a caller.
type NotificationService interface {
	ForCaller(ctx context.Context, caller access.Caller) ([]contracts.Notification, error)
}

// NotificationHandlers serves the caller's notifications.
type NotificationHandlers struct {
	service NotificationService
	stream  *NotificationStream
	logger  *logging.Logger
}

// NewNotificationHandlers creates notification handlers. stream may be nil.
func NewNotificationHandlers(service NotificationService, stream *NotificationStream) *NotificationHandlers {
	return &NotificationHandlers{
		service: service,
		stream:  stream,
		logger:  logging.Default().WithComponent("notification_handler"),
	}
}

// List returns the notifications sent to the caller.
func (h *NotificationHandlers) List(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	notifications, err := h.service.ForCaller(r.Context(), caller)
	if err != nil {
		if status, _ := StatusFor(err); status >= http.StatusInternalServerError {
			h.logger.WithContext(r.Context()).Error("Failed to list notifications", "error", err.Error())
		}
		WriteError(w, err)
		return
	}
	if notifications == nil {
		notifications = []contracts.Notification{}
	}
	WriteJSON(w, http.StatusOK, notifications)
}

// Stream pushes new notifications for the caller as server-sent events.
func (h *NotificationHandlers) Stream(w http.ResponseWriter, r *http.Request) {
	if h.stream == nil {
		WriteJSON(w, http.StatusNotFound, errorBody{Error: errorDetail{Code: "not_found", Message: "notification stream disabled"}})
		return
	}
	caller, ok := callerFrom(w, r)
	if !ok {
		return
	}
	h.stream.Serve(w, r, caller.UserPrincipalName)
}

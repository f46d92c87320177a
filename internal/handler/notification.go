package handler

import (
	"net/http"

	"github.com/msomdec/lovebridge/internal/service"
)

// NotificationHandler serves stored notifications.
type NotificationHandler struct {
	notifications *service.NotificationService
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

// HandleList returns a user's latest notifications.
// GET /api/notifications/{userId}?unread=true
func (h *NotificationHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		writeServiceError(w, r, "list notifications", err)
		return
	}
	unreadOnly := r.URL.Query().Get("unread") == "true"

	ns, err := h.notifications.List(r.Context(), userID, unreadOnly)
	if err != nil {
		writeServiceError(w, r, "list notifications", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": toNotificationDTOs(ns)})
}

// HandleMarkRead marks one notification as read.
// PUT /api/notifications/{notificationId}/read
func (h *NotificationHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "notificationId")
	if err != nil {
		writeServiceError(w, r, "mark notification read", err)
		return
	}
	if err := h.notifications.MarkRead(r.Context(), id); err != nil {
		writeServiceError(w, r, "mark notification read", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

package api

import (
	"net/http"
	"strconv"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/KirkDiggler/quizroom/internal/services/notification"
	"github.com/go-chi/chi/v5"
)

var ErrInvalidQuery = apperr.Validation("invalid_query", "query parameters are not valid")

// NotificationsResponse is a page of notifications and the cursor for the next one
type NotificationsResponse struct {
	Notifications []*models.Notification `json:"notifications"`
	LastSeq       int64                  `json:"lastSeq"`
}

// ListNotifications returns the caller's notifications after ?after=, at most ?limit=
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	after, err := queryInt(r, "after")
	if err != nil {
		writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		writeError(w, err)
		return
	}

	out, err := h.notifications.ListNotifications(r.Context(), &notification.ListNotificationsInput{
		UserID:   caller(r.Context()).ParticipantID,
		AfterSeq: after,
		Limit:    int(limit),
	})
	if err != nil {
		h.logFailure(r, "list notifications", err)
		writeError(w, err)
		return
	}

	notifications := out.Notifications
	if notifications == nil {
		notifications = []*models.Notification{}
	}

	writeJSON(w, http.StatusOK, &NotificationsResponse{
		Notifications: notifications,
		LastSeq:       out.LastSeq,
	}, "ok")
}

// MarkRead acknowledges one of the caller's notifications
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	err := h.notifications.MarkRead(r.Context(), &notification.MarkReadInput{
		UserID:         caller(r.Context()).ParticipantID,
		NotificationID: chi.URLParam(r, "notificationId"),
	})
	if err != nil {
		h.logFailure(r, "mark notification read", err)
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func queryInt(r *http.Request, name string) (int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || v < 0 {
		return 0, ErrInvalidQuery
	}
	return v, nil
}

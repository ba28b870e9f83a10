package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
)

// Response is the envelope of every JSON reply
type Response struct {
	Error   bool   `json:"error"`
	Reason  string `json:"reason,omitempty"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data any, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&Response{
		Data:    data,
		Message: msg,
	})
}

func writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)

	msg := err.Error()
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		msg = appErr.Msg
	}
	if status == http.StatusInternalServerError {
		msg = "internal error"
	}

	writeFailure(w, status, apperr.ReasonOf(err), msg)
}

func writeFailure(w http.ResponseWriter, status int, reason, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(&Response{
		Error:   true,
		Reason:  reason,
		Message: msg,
	})
}

// statusFor maps an error kind to its HTTP status
func statusFor(err error) int {
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return http.StatusBadRequest
	case apperr.KindNotFound:
		return http.StatusNotFound
	case apperr.KindConflict, apperr.KindState:
		return http.StatusConflict
	case apperr.KindTransport:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

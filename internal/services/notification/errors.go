package notification

import (
	"github.com/KirkDiggler/quizroom/internal/common/apperr"
)

var (
	ErrMissingRecipient      = apperr.Validation("missing_recipient", "notification recipient is required")
	ErrInvalidPayload        = apperr.Validation("invalid_payload", "notification payload is not valid JSON")
	ErrNotificationNotFound  = apperr.NotFound("notification_not_found", "notification not found")
	ErrNotificationStoreDown = apperr.Transport("store_unavailable", "notification store unavailable")
)

// NotificationError is returned for configuration mistakes
type NotificationError string

// Error implements the error interface
func (e NotificationError) Error() string {
	return string(e)
}

const (
	ErrNilConfig        NotificationError = "config cannot be nil"
	ErrNilRepository    NotificationError = "notification repository cannot be nil"
	ErrNilClock         NotificationError = "clock cannot be nil"
	ErrNilUUIDGenerator NotificationError = "UUID generator cannot be nil"
)

package notification

import (
	"log/slog"

	"github.com/KirkDiggler/quizroom/internal/common/clock"
	"github.com/KirkDiggler/quizroom/internal/common/uuid"
	"github.com/KirkDiggler/quizroom/internal/models"
	notificationRepo "github.com/KirkDiggler/quizroom/internal/repositories/notification"
)

// Config holds configuration for the notification service
type Config struct {
	// Repository is the durable store
	Repository notificationRepo.Repository

	// Publisher pushes to live sessions; nil disables push
	Publisher SessionPublisher

	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	Logger        *slog.Logger
}

type NotifyInput struct {
	ToUserID   string
	FromUserID string

	// Payload is marshalled to JSON; a json.RawMessage is stored as is
	Payload any
}

type NotifyOutput struct {
	Notification *models.Notification

	// Delivered counts live sessions that accepted the push
	Delivered int
}

type ListNotificationsInput struct {
	UserID   string
	AfterSeq int64
	Limit    int
}

type ListNotificationsOutput struct {
	Notifications []*models.Notification
	LastSeq       int64
}

type MarkReadInput struct {
	UserID         string
	NotificationID string
}

package notification

import (
	"github.com/KirkDiggler/quizroom/internal/models"
)

type AddNotificationInput struct {
	// Notification must carry ID and ToUserID; Seq is assigned by the store
	Notification *models.Notification
}

type ListNotificationsInput struct {
	UserID string

	// AfterSeq excludes notifications at or below this cursor
	AfterSeq int64

	// Limit caps the page size; zero means DefaultListLimit
	Limit int
}

type ListNotificationsOutput struct {
	Notifications []*models.Notification

	// LastSeq is the cursor to pass on the next call
	LastSeq int64
}

type MarkReadInput struct {
	UserID         string
	NotificationID string
}

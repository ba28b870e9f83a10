package notification

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/quizroom/internal/repositories/notification Repository

import (
	"context"

	"github.com/KirkDiggler/quizroom/internal/models"
)

// Repository defines the interface for durable notification storage
type Repository interface {
	// AddNotification stores a notification and assigns its per-user sequence number
	AddNotification(ctx context.Context, input *AddNotificationInput) (*models.Notification, error)

	// ListNotifications returns a user's notifications after a sequence cursor, oldest first
	ListNotifications(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error)

	// MarkRead flags a notification as read by its recipient
	MarkRead(ctx context.Context, input *MarkReadInput) error
}

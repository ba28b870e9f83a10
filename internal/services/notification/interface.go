package notification

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/quizroom/internal/services/notification Service,SessionPublisher

import (
	"context"

	"github.com/KirkDiggler/quizroom/internal/models"
)

// Service delivers user-addressed notifications that live outside any room
type Service interface {
	// Notify stores a notification and pushes it to the recipient's live sessions
	Notify(ctx context.Context, input *NotifyInput) (*NotifyOutput, error)

	// ListNotifications returns notifications after a cursor so a reconnecting client can catch up
	ListNotifications(ctx context.Context, input *ListNotificationsInput) (*ListNotificationsOutput, error)

	// MarkRead acknowledges a notification
	MarkRead(ctx context.Context, input *MarkReadInput) error
}

// SessionPublisher reaches every live connection of a user
type SessionPublisher interface {
	// SendToUser enqueues the event on each of the user's connections and returns how many accepted it
	SendToUser(userID string, event *models.Event) int
}

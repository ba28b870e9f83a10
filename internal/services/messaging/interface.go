package messaging

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/quizroom/internal/services/messaging Service

import "context"

// Service produces the human-readable text of system announcements and error replies
type Service interface {
	// GetPresenceMessage returns the announcement for a player joining, returning or leaving
	GetPresenceMessage(ctx context.Context, input *GetPresenceMessageInput) (*GetPresenceMessageOutput, error)

	// GetGameStatusMessage returns the announcement for a room status change
	GetGameStatusMessage(ctx context.Context, input *GetGameStatusMessageInput) (*GetGameStatusMessageOutput, error)

	// GetErrorMessage returns a user-friendly error message
	GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error)
}

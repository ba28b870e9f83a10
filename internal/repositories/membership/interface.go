package membership

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/quizroom/internal/repositories/membership Repository

import (
	"context"
)

// Repository tracks which room each participant currently occupies.
// A participant holds at most one active room at a time.
type Repository interface {
	// ClaimActiveRoom records roomID as the participant's active room unless another room holds it
	ClaimActiveRoom(ctx context.Context, input *ClaimActiveRoomInput) (*ClaimActiveRoomOutput, error)

	// ReleaseActiveRoom clears the claim only if it still points at the given room
	ReleaseActiveRoom(ctx context.Context, input *ReleaseActiveRoomInput) (*ReleaseActiveRoomOutput, error)

	// GetActiveRoom returns the room the participant currently holds
	GetActiveRoom(ctx context.Context, input *GetActiveRoomInput) (*GetActiveRoomOutput, error)
}

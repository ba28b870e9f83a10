package room

//go:generate mockgen -package=mocks -destination=mocks/mock_repository.go github.com/KirkDiggler/quizroom/internal/repositories/room Repository

import (
	"context"

	"github.com/KirkDiggler/quizroom/internal/models"
)

// Repository defines the interface for room metadata persistence
type Repository interface {
	// SaveRoom persists a room
	SaveRoom(ctx context.Context, input *SaveRoomInput) error

	// GetRoom retrieves a room by ID
	GetRoom(ctx context.Context, input *GetRoomInput) (*models.Room, error)

	// GetRoomByInviteCode retrieves a room by its invite code
	GetRoomByInviteCode(ctx context.Context, input *GetRoomByInviteCodeInput) (*models.Room, error)

	// ClaimInviteCode reserves an invite code for a room if nobody holds it
	ClaimInviteCode(ctx context.Context, input *ClaimInviteCodeInput) (*ClaimInviteCodeOutput, error)

	// DeleteRoom removes a room and its invite code
	DeleteRoom(ctx context.Context, input *DeleteRoomInput) error

	// GetActiveRooms retrieves all rooms in lobby or live status
	GetActiveRooms(ctx context.Context, input *GetActiveRoomsInput) (*GetActiveRoomsOutput, error)
}

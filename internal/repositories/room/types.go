package room

import (
	"time"

	"github.com/KirkDiggler/quizroom/internal/models"
)

type SaveRoomInput struct {
	Room *models.Room

	// TTL bounds how long the record survives; zero keeps it until deleted
	TTL time.Duration
}

type GetRoomInput struct {
	RoomID string
}

type GetRoomByInviteCodeInput struct {
	InviteCode string
}

type ClaimInviteCodeInput struct {
	InviteCode string
	RoomID     string
	TTL        time.Duration
}

type ClaimInviteCodeOutput struct {
	// Claimed is false when another room already holds the code
	Claimed bool
}

type DeleteRoomInput struct {
	RoomID string
}

type GetActiveRoomsInput struct {
}

type GetActiveRoomsOutput struct {
	Rooms []*models.Room
}

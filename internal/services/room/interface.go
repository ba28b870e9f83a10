package room

//go:generate mockgen -package=mocks -destination=mocks/mock_service.go github.com/KirkDiggler/quizroom/internal/services/room Service,Publisher

import (
	"context"

	"github.com/KirkDiggler/quizroom/internal/models"
)

// Service is the authoritative owner of every live room.
// Each room is served by one actor goroutine, so operations on a room are applied in the order they arrive.
type Service interface {
	// CreateRoom allocates a room in the lobby with a unique invite code and notifies the invitees
	CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error)

	// GetRoom returns the current room status and live question
	GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error)

	// GetRoomByInviteCode resolves an invite code to its room
	GetRoomByInviteCode(ctx context.Context, input *GetRoomByInviteCodeInput) (*GetRoomOutput, error)

	// GetActiveRoom returns the room a participant currently holds, so a reconnecting client knows where to rejoin
	GetActiveRoom(ctx context.Context, input *GetActiveRoomInput) (*GetRoomOutput, error)

	// ResumeRooms starts actors for every active room in the store, restoring their expiry timers after a restart
	ResumeRooms(ctx context.Context, input *ResumeRoomsInput) (*ResumeRoomsOutput, error)

	// EndRoom ends the game early (host only)
	EndRoom(ctx context.Context, input *EndRoomInput) (*EndRoomOutput, error)

	// JoinRoom adds or resumes a participant
	JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error)

	// LeaveRoom removes a participant immediately
	LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error)

	// Disconnect marks a participant offline and starts the grace window
	Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error)

	// GetPresence returns the current players in join order
	GetPresence(ctx context.Context, input *GetPresenceInput) (*GetPresenceOutput, error)

	// SendMessage appends a chat message and broadcasts it
	SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error)

	// Typing broadcasts a typing hint without storing it
	Typing(ctx context.Context, input *TypingInput) (*TypingOutput, error)

	// AdvanceQuestion closes the live question if any and starts the next one (host only)
	AdvanceQuestion(ctx context.Context, input *AdvanceQuestionInput) (*AdvanceQuestionOutput, error)

	// CloseQuestion closes the live question and publishes its results (host only)
	CloseQuestion(ctx context.Context, input *CloseQuestionInput) (*CloseQuestionOutput, error)

	// SubmitAnswer records and scores an answer to the live question
	SubmitAnswer(ctx context.Context, input *SubmitAnswerInput) (*SubmitAnswerOutput, error)

	// GetLeaderboard returns the ranked scores of the room
	GetLeaderboard(ctx context.Context, input *GetLeaderboardInput) (*GetLeaderboardOutput, error)

	// Shutdown stops every room actor
	Shutdown(ctx context.Context) error
}

// Publisher fans events out to the connections bound to a room.
// Broadcast must not block; it is called from inside the room actor.
type Publisher interface {
	Broadcast(roomID string, event *models.Event)
}

package room

import (
	"log/slog"
	"time"

	"github.com/KirkDiggler/quizroom/internal/common/clock"
	"github.com/KirkDiggler/quizroom/internal/common/uuid"
	"github.com/KirkDiggler/quizroom/internal/invitecode"
	"github.com/KirkDiggler/quizroom/internal/models"
	membershipRepo "github.com/KirkDiggler/quizroom/internal/repositories/membership"
	questionRepo "github.com/KirkDiggler/quizroom/internal/repositories/question"
	roomRepo "github.com/KirkDiggler/quizroom/internal/repositories/room"
	"github.com/KirkDiggler/quizroom/internal/services/messaging"
	"github.com/KirkDiggler/quizroom/internal/services/notification"
)

// Config holds configuration for the room service
type Config struct {
	// PresenceGrace is how long a disconnected player keeps their seat
	PresenceGrace time.Duration

	// DefaultQuestionLimit applies to questions stored without a time limit
	DefaultQuestionLimit time.Duration

	// BasePoints applies to questions stored without base points
	BasePoints int

	// MaxMessageLength bounds chat text in runes
	MaxMessageLength int

	// MaxPlayers caps the players in a room; zero means unlimited
	MaxPlayers int

	// RoomRetention is how long an ended room stays readable before teardown
	RoomRetention time.Duration

	// RoomExpiry is how long after creation an unfinished room is ended
	RoomExpiry time.Duration

	// Repository dependencies
	RoomRepo       roomRepo.Repository
	MembershipRepo membershipRepo.Repository
	QuestionRepo   questionRepo.Repository

	// Service dependencies
	Messaging     messaging.Service
	Notifications notification.Service
	Publisher     Publisher
	Clock         clock.Clock
	UUIDGenerator uuid.UUID
	InviteCodes   invitecode.Generator
	Logger        *slog.Logger
}

// CreateRoomInput contains parameters for creating a room
type CreateRoomInput struct {
	// HostID is the participant creating the room
	HostID string

	// HostName is the display name used in invitations
	HostName string

	// GameID selects the question set
	GameID string

	// Invitees receive a new_game_notification
	Invitees []string
}

// CreateRoomOutput contains the created room
type CreateRoomOutput struct {
	Room *models.Room

	// QuestionCount is how many questions the game has
	QuestionCount int
}

type GetRoomInput struct {
	RoomID string
}

type GetRoomByInviteCodeInput struct {
	InviteCode string
}

type GetActiveRoomInput struct {
	ParticipantID string
}

type ResumeRoomsInput struct{}

type ResumeRoomsOutput struct {
	// RoomIDs are the rooms now served by this process
	RoomIDs []string
}

// GetRoomOutput is a read-only view of a room
type GetRoomOutput struct {
	Room *models.Room

	// Phase is the question state machine position; empty for rooms not loaded here
	Phase models.GamePhase

	// CurrentQuestion is set while a question is live
	CurrentQuestion *models.PublicQuestion

	// PlayerCount counts players currently seated
	PlayerCount int
}

type EndRoomInput struct {
	RoomID        string
	ParticipantID string
}

type EndRoomOutput struct {
	Room        *models.Room
	Leaderboard []*models.ScoreEntry
}

// JoinRoomInput contains parameters for joining a room
type JoinRoomInput struct {
	RoomID        string
	ParticipantID string
	DisplayName   string

	// ConnectionID is the gateway connection to bind
	ConnectionID string
}

// JoinRoomOutput is everything a client needs to render the room after joining
type JoinRoomOutput struct {
	Room            *models.Room
	Player          *models.Player
	Players         []*models.Player
	Phase           models.GamePhase
	CurrentQuestion *models.PublicQuestion
	Leaderboard     []*models.ScoreEntry

	// Resumed is true when an existing seat was rebound instead of a new join
	Resumed bool
}

type LeaveRoomInput struct {
	RoomID        string
	ParticipantID string
}

type LeaveRoomOutput struct {
	Players []*models.Player
}

type DisconnectInput struct {
	RoomID        string
	ParticipantID string

	// ConnectionID must match the bound connection; stale ids are ignored
	ConnectionID string
}

type DisconnectOutput struct {
	// GraceStarted is false when the disconnect did not apply
	GraceStarted bool
}

type GetPresenceInput struct {
	RoomID string
}

type GetPresenceOutput struct {
	Players []*models.Player
}

// SendMessageInput contains parameters for posting a chat message
type SendMessageInput struct {
	RoomID   string
	AuthorID string
	Text     string
	Kind     models.MessageKind

	// ClientMsgID collapses retried sends; optional
	ClientMsgID string
}

type SendMessageOutput struct {
	Message *models.Message

	// Duplicate is true when the client id was already seen and nothing was broadcast
	Duplicate bool
}

type TypingInput struct {
	RoomID        string
	ParticipantID string
	Hint          string
}

type TypingOutput struct {
}

type AdvanceQuestionInput struct {
	RoomID        string
	ParticipantID string
}

type AdvanceQuestionOutput struct {
	// Question is the newly live question; nil when the game finished
	Question *models.PublicQuestion

	// Finished is true when there were no more questions
	Finished bool

	Room *models.Room
}

type CloseQuestionInput struct {
	RoomID        string
	ParticipantID string
}

type CloseQuestionOutput struct {
	Results *models.QuestionResults
}

// SubmitAnswerInput contains an answer to the live question
type SubmitAnswerInput struct {
	RoomID        string
	ParticipantID string
	QuestionID    string
	Answer        string

	// TimeTaken is the client-measured answer time
	TimeTaken time.Duration
}

type SubmitAnswerOutput struct {
	Ack *models.AnswerAck
}

type GetLeaderboardInput struct {
	RoomID string
}

type GetLeaderboardOutput struct {
	Entries []*models.ScoreEntry
}

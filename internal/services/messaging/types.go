package messaging

import (
	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/models"
)

// PresenceChange is what happened to a player
type PresenceChange string

const (
	// PresenceJoined is a first join
	PresenceJoined PresenceChange = "joined"

	// PresenceReturned is a departed player joining again
	PresenceReturned PresenceChange = "returned"

	// PresenceLeft is an explicit leave or a lapsed grace window
	PresenceLeft PresenceChange = "left"
)

// MessageTone represents the tone of a message
type MessageTone string

const (
	// ToneNeutral is a plain tone
	ToneNeutral MessageTone = "neutral"

	// ToneFunny is a humorous tone
	ToneFunny MessageTone = "funny"
)

// ServiceConfig holds configuration for the messaging service
type ServiceConfig struct {
	// Seed makes message selection repeatable; zero seeds from the clock
	Seed int64

	// DefaultTone is used when an input does not ask for one
	DefaultTone MessageTone
}

type GetPresenceMessageInput struct {
	// PlayerName is the display name of the player
	PlayerName string

	Change PresenceChange

	// PreferredTone overrides the default tone (optional)
	PreferredTone MessageTone
}

type GetPresenceMessageOutput struct {
	Message string
	Tone    MessageTone
}

type GetGameStatusMessageInput struct {
	Status models.RoomStatus

	// WinnerName is set when an ended room has a leader
	WinnerName string

	// QuestionCount is how many questions were played
	QuestionCount int
}

type GetGameStatusMessageOutput struct {
	Message string
}

type GetErrorMessageInput struct {
	Kind   apperr.Kind
	Reason string
}

type GetErrorMessageOutput struct {
	Message string
}

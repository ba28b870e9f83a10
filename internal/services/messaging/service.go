package messaging

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/models"
)

// service implements the Service interface
type service struct {
	mu          sync.Mutex
	rand        *rand.Rand
	defaultTone MessageTone
}

// NewService creates a new messaging service
func NewService(config *ServiceConfig) (Service, error) {
	if config == nil {
		return nil, errors.New("config cannot be nil")
	}

	seed := config.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	tone := config.DefaultTone
	if tone == "" {
		tone = ToneFunny
	}

	return &service{
		rand:        rand.New(rand.NewSource(seed)),
		defaultTone: tone,
	}, nil
}

func (s *service) pick(messages []string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return messages[s.rand.Intn(len(messages))]
}

// GetPresenceMessage returns the announcement for a presence change
func (s *service) GetPresenceMessage(ctx context.Context, input *GetPresenceMessageInput) (*GetPresenceMessageOutput, error) {
	if input == nil || input.PlayerName == "" {
		return nil, errors.New("input and player name cannot be empty")
	}

	tone := input.PreferredTone
	if tone == "" {
		tone = s.defaultTone
	}

	var templates []string
	switch input.Change {
	case PresenceJoined:
		if tone == ToneNeutral {
			templates = []string{"%s joined the room."}
		} else {
			templates = []string{
				"%s joined the room. Sharpen those pencils!",
				"A new challenger appears: %s!",
				"%s has entered the quiz arena.",
				"Everyone welcome %s!",
			}
		}
	case PresenceReturned:
		if tone == ToneNeutral {
			templates = []string{"%s rejoined the room."}
		} else {
			templates = []string{
				"%s is back for more.",
				"Look who returned: %s!",
				"%s couldn't stay away.",
			}
		}
	case PresenceLeft:
		if tone == ToneNeutral {
			templates = []string{"%s left the room."}
		} else {
			templates = []string{
				"%s left the room.",
				"%s has left the building.",
				"And just like that, %s is gone.",
			}
		}
	default:
		return nil, fmt.Errorf("unknown presence change %q", input.Change)
	}

	return &GetPresenceMessageOutput{
		Message: fmt.Sprintf(s.pick(templates), input.PlayerName),
		Tone:    tone,
	}, nil
}

// GetGameStatusMessage returns a message based on the room status
func (s *service) GetGameStatusMessage(ctx context.Context, input *GetGameStatusMessageInput) (*GetGameStatusMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var message string
	switch input.Status {
	case models.RoomStatusLobby:
		message = s.pick([]string{
			"Waiting for the host to start the game.",
			"The lobby is open. Invite your friends!",
		})
	case models.RoomStatusLive:
		message = s.pick([]string{
			"The game has started. Good luck!",
			"Here we go! First question coming up.",
			"Pencils down, brains on. The game is live!",
		})
	case models.RoomStatusEnded:
		switch {
		case input.WinnerName != "":
			message = fmt.Sprintf("Game over after %d questions. %s takes the crown!", input.QuestionCount, input.WinnerName)
		default:
			message = fmt.Sprintf("Game over after %d questions.", input.QuestionCount)
		}
	default:
		return nil, fmt.Errorf("unknown room status %q", input.Status)
	}

	return &GetGameStatusMessageOutput{
		Message: message,
	}, nil
}

// GetErrorMessage returns a user-friendly error message
func (s *service) GetErrorMessage(ctx context.Context, input *GetErrorMessageInput) (*GetErrorMessageOutput, error) {
	if input == nil {
		return nil, errors.New("input cannot be nil")
	}

	var message string
	switch input.Reason {
	case "too_late":
		message = "Too late! That question is already closed."
	case "not_live":
		message = "That question is not live right now."
	case "not_host":
		message = "Only the host can do that."
	case "room_full":
		message = "This room is full."
	case "room_ended":
		message = "This game has already ended."
	case "already_in_room":
		message = "You are already playing in another room."
	case "not_in_room":
		message = "Join the room first."
	}

	if message == "" {
		switch input.Kind {
		case apperr.KindValidation:
			message = "That request didn't look right. Please try again."
		case apperr.KindNotFound:
			message = "We couldn't find that."
		case apperr.KindConflict:
			message = "That conflicts with something you're already doing."
		case apperr.KindState:
			message = "You can't do that right now."
		case apperr.KindTransport:
			message = "Connection trouble. Reconnecting..."
		default:
			message = "Something went wrong. Please try again."
		}
	}

	return &GetErrorMessageOutput{
		Message: message,
	}, nil
}

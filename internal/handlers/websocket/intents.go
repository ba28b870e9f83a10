package websocket

import (
	"bytes"
	"encoding/json"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/go-playground/validator/v10"
)

// IntentType names an inbound client request
type IntentType string

const (
	IntentJoinRoom      IntentType = "join_room"
	IntentLeaveRoom     IntentType = "leave_room"
	IntentSendMessage   IntentType = "send_message"
	IntentTyping        IntentType = "typing"
	IntentSubmitAnswer  IntentType = "submit_answer"
	IntentNextQuestion  IntentType = "next_question"
	IntentCloseQuestion IntentType = "close_question"
	IntentEndRoom       IntentType = "end_room"
)

var (
	ErrMalformedIntent     = apperr.Validation("malformed_intent", "intent is not valid JSON")
	ErrUnknownIntent       = apperr.Validation("unknown_intent", "unknown intent type")
	ErrInvalidIntent       = apperr.Validation("invalid_intent", "intent payload failed validation")
	ErrParticipantMismatch = apperr.Validation("participant_mismatch", "participant does not match the authenticated user")
	ErrNotBound            = apperr.State("not_in_room", "connection has not joined a room")
)

// envelope is the wire shape of every inbound intent
type envelope struct {
	Type    IntentType      `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type joinRoomPayload struct {
	RoomID        string `json:"roomId" validate:"required,max=64"`
	ParticipantID string `json:"participantId" validate:"required,max=128"`
}

type leaveRoomPayload struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
}

type sendMessagePayload struct {
	ID     string `json:"id" validate:"max=128"`
	Text   string `json:"text" validate:"required"`
	Name   string `json:"name" validate:"max=64"`
	Kind   string `json:"kind" validate:"omitempty,oneof=normal announcement"`
	RoomID string `json:"roomId" validate:"required,max=64"`

	// CreatedAt is accepted for compatibility and ignored; the server stamps messages
	CreatedAt json.RawMessage `json:"createdAt"`
}

type typingPayload struct {
	Hint   string `json:"hint" validate:"max=256"`
	RoomID string `json:"roomId" validate:"required,max=64"`
}

type submitAnswerPayload struct {
	QuestionID    string `json:"questionId" validate:"required,max=128"`
	ParticipantID string `json:"participantId" validate:"required,max=128"`
	Answer        string `json:"answer" validate:"required,max=256"`

	// TimeTaken is in milliseconds, capped at an hour; negative values are left to the room service
	TimeTaken *int64 `json:"timeTaken" validate:"required,lte=3600000"`
}

type roomPayload struct {
	RoomID string `json:"roomId" validate:"required,max=64"`
}

// intent is a decoded and validated request
type intent struct {
	Type    IntentType
	Payload any
}

var payloadFactories = map[IntentType]func() any{
	IntentJoinRoom:      func() any { return &joinRoomPayload{} },
	IntentLeaveRoom:     func() any { return &leaveRoomPayload{} },
	IntentSendMessage:   func() any { return &sendMessagePayload{} },
	IntentTyping:        func() any { return &typingPayload{} },
	IntentSubmitAnswer:  func() any { return &submitAnswerPayload{} },
	IntentNextQuestion:  func() any { return &roomPayload{} },
	IntentCloseQuestion: func() any { return &roomPayload{} },
	IntentEndRoom:       func() any { return &roomPayload{} },
}

// decodeIntent parses the envelope and checks the payload against its schema
func decodeIntent(validate *validator.Validate, data []byte) (*intent, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, apperr.Wrap(ErrMalformedIntent, err)
	}

	factory, ok := payloadFactories[env.Type]
	if !ok {
		return &intent{Type: env.Type}, ErrUnknownIntent
	}

	payload := factory()
	raw := env.Payload
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if err := json.Unmarshal(raw, payload); err != nil {
		return &intent{Type: env.Type}, apperr.Wrap(ErrMalformedIntent, err)
	}
	if err := validate.Struct(payload); err != nil {
		return &intent{Type: env.Type}, apperr.Wrap(ErrInvalidIntent, err)
	}

	return &intent{
		Type:    env.Type,
		Payload: payload,
	}, nil
}

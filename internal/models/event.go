package models

// EventType names an outbound event
type EventType string

const (
	EventReceiveMessage      EventType = "receive_message"
	EventPlayersResponse     EventType = "players_response"
	EventResultResponse      EventType = "result_response"
	EventNewGameNotification EventType = "new_game_notification"
	EventAnswerAck           EventType = "answer_ack"
	EventGameStatus          EventType = "game_status"
	EventQuestionLive        EventType = "question_live"
	EventQuestionClosed      EventType = "question_closed"
	EventTypingResponse      EventType = "typing_response"
	EventError               EventType = "error"
)

// Event is the outbound envelope; Payload must be a value nothing else holds a reference to
type Event struct {
	Type    EventType `json:"type"`
	RoomID  string    `json:"roomId,omitempty"`
	Payload any       `json:"payload"`
}

// AckStatus tells a submitter what happened to an answer
type AckStatus string

const (
	AckAccepted       AckStatus = "accepted"
	AckAlreadyCounted AckStatus = "already_counted"
	AckTooLate        AckStatus = "too_late"
	AckNotLive        AckStatus = "not_live"
)

// AnswerAck is broadcast to the room when someone answers, and sent to the submitter with Status set
type AnswerAck struct {
	QuestionID    string    `json:"questionId"`
	ParticipantID string    `json:"participantId"`
	Status        AckStatus `json:"status,omitempty"`
	Correct       *bool     `json:"correct,omitempty"`
	Points        *int      `json:"points,omitempty"`
}

// TypingHint is the last-write-wins typing indicator
type TypingHint struct {
	ParticipantID string `json:"participantId"`
	Hint          string `json:"hint"`
}

// QuestionResults is broadcast when a question closes
type QuestionResults struct {
	Question        PublicQuestion  `json:"question"`
	CorrectOptionID string          `json:"correctOptionId"`
	Answers         []*AnswerRecord `json:"answers"`
	AnsweredBy      []string        `json:"answeredBy"`
}

// ErrorPayload is sent only to the originating connection
type ErrorPayload struct {
	Kind    string `json:"kind"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
	Intent  string `json:"intent,omitempty"`
}

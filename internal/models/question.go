package models

import (
	"encoding/json"
	"strings"
	"time"
)

// GamePhase is the position of a room in the question state machine
type GamePhase string

const (
	GamePhaseNotStarted     GamePhase = "not_started"
	GamePhaseQuestionLive   GamePhase = "question_live"
	GamePhaseQuestionClosed GamePhase = "question_closed"
	GamePhaseFinished       GamePhase = "finished"
)

// Option is one selectable answer
type Option struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// PublicQuestion is the projection of a question that is safe to broadcast while it is live
type PublicQuestion struct {
	// ID is the question identifier
	ID string `json:"id"`

	// GameID is the question set the question belongs to
	GameID string `json:"gameId"`

	// Index is the zero-based position within the game
	Index int `json:"index"`

	// Text is the question prompt
	Text string `json:"text"`

	// Options are the selectable answers
	Options []Option `json:"options"`

	// TimeLimit is how long the question stays live; sent as timeLimitMs
	TimeLimit time.Duration `json:"-"`

	// BasePoints is the score for an instant correct answer; zero means the room default
	BasePoints int `json:"basePoints"`
}

// MarshalJSON sends the time limit in milliseconds
func (q PublicQuestion) MarshalJSON() ([]byte, error) {
	type wire PublicQuestion
	return json.Marshal(&struct {
		wire
		TimeLimitMs int64 `json:"timeLimitMs"`
	}{
		wire:        wire(q),
		TimeLimitMs: q.TimeLimit.Milliseconds(),
	})
}

// Question is a full question including its answer key
type Question struct {
	PublicQuestion

	// CorrectOptionID is the ID of the correct option
	CorrectOptionID string `json:"-"`
}

// Public returns a copy without the answer key
func (q *Question) Public() PublicQuestion {
	pub := q.PublicQuestion
	pub.Options = append([]Option(nil), q.Options...)
	return pub
}

// IsCorrect compares a submitted answer against the answer key
func (q *Question) IsCorrect(answer string) bool {
	return strings.EqualFold(strings.TrimSpace(answer), q.CorrectOptionID)
}

// QuestionProgress tracks who has answered the live question
type QuestionProgress struct {
	// QuestionID is the live question
	QuestionID string `json:"questionId"`

	// RoomID is the owning room
	RoomID string `json:"roomId"`

	// Index is the question index within the game
	Index int `json:"index"`

	// AnsweredBy is the set of participants who already answered; insertion is idempotent
	AnsweredBy map[string]struct{} `json:"-"`

	// StartedAt is when the question went live
	StartedAt time.Time `json:"startedAt"`

	// Deadline is the hard cutoff for answers
	Deadline time.Time `json:"deadline"`
}

// MarkAnswered inserts participantID and reports whether it was newly added
func (p *QuestionProgress) MarkAnswered(participantID string) bool {
	if p.AnsweredBy == nil {
		p.AnsweredBy = make(map[string]struct{})
	}
	if _, ok := p.AnsweredBy[participantID]; ok {
		return false
	}
	p.AnsweredBy[participantID] = struct{}{}
	return true
}

// HasAnswered reports whether participantID already answered
func (p *QuestionProgress) HasAnswered(participantID string) bool {
	_, ok := p.AnsweredBy[participantID]
	return ok
}

// AnswerRecord is one counted submission
type AnswerRecord struct {
	PlayerID   string        `json:"playerId"`
	QuestionID string        `json:"questionId"`
	Answer     string        `json:"answer"`
	Correct    bool          `json:"correct"`
	Points     int           `json:"points"`
	TimeTaken  time.Duration `json:"timeTaken"`
	AnsweredAt time.Time     `json:"answeredAt"`
}

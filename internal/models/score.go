package models

import (
	"time"
)

// ScoreEntry is a participant's running total within a room
type ScoreEntry struct {
	// PlayerID is the participant
	PlayerID string `json:"playerId"`

	// RoomID is the owning room
	RoomID string `json:"roomId"`

	// DisplayName is copied from the player for leaderboard rendering
	DisplayName string `json:"playerName"`

	// Points is non-decreasing while the room is live
	Points int `json:"points"`

	// RightAnswered counts correct answers; never exceeds TotalAnswered
	RightAnswered int `json:"rightAnswered"`

	// TotalAnswered counts every counted answer
	TotalAnswered int `json:"totalAnswered"`

	// LastCorrectAt is when Points last increased, used to break ties
	LastCorrectAt time.Time `json:"lastCorrectAt"`
}

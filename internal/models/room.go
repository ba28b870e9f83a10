package models

import (
	"time"
)

// RoomStatus represents the lifecycle position of a room
type RoomStatus string

const (
	// RoomStatusLobby indicates the room is accepting players and no question has been asked
	RoomStatusLobby RoomStatus = "lobby"

	// RoomStatusLive indicates questions are being played
	RoomStatusLive RoomStatus = "live"

	// RoomStatusEnded indicates the game is over; the room is kept until its retention elapses
	RoomStatusEnded RoomStatus = "ended"
)

var roomStatusRank = map[RoomStatus]int{
	RoomStatusLobby: 0,
	RoomStatusLive:  1,
	RoomStatusEnded: 2,
}

// CanTransitionTo reports whether moving to next keeps the lobby -> live -> ended order
func (s RoomStatus) CanTransitionTo(next RoomStatus) bool {
	from, ok := roomStatusRank[s]
	if !ok {
		return false
	}
	to, ok := roomStatusRank[next]
	if !ok {
		return false
	}
	return to >= from
}

// IsActive reports whether participants may still join or play
func (s RoomStatus) IsActive() bool {
	return s == RoomStatusLobby || s == RoomStatusLive
}

// Room is the scoping unit for a single game session
type Room struct {
	// ID is the unique identifier for the room
	ID string `json:"id"`

	// GameID identifies the question set played in this room
	GameID string `json:"gameId"`

	// Status is the current lifecycle state of the room
	Status RoomStatus `json:"status"`

	// InviteCode is the short code players use to find the room
	InviteCode string `json:"inviteCode"`

	// HostID is the participant who created the room and drives question progression
	HostID string `json:"hostId"`

	// CurrentQuestionIndex is the index of the current question, -1 before the first one
	CurrentQuestionIndex int `json:"currentQuestionIndex"`

	// CreatedAt is when the room was created
	CreatedAt time.Time `json:"createdAt"`

	// ExpiresAt is when an unfinished room is ended automatically
	ExpiresAt time.Time `json:"expiresAt"`
}

package models

import (
	"time"
)

// Player represents a participant's membership in one room
type Player struct {
	// ID is the stable participant ID resolved by the identity service
	ID string `json:"id"`

	// RoomID is the room this membership belongs to
	RoomID string `json:"roomId"`

	// DisplayName is the name shown to other players
	DisplayName string `json:"displayName"`

	// ConnectionID is the connection currently bound to this player; not serialized
	ConnectionID string `json:"-"`

	// Online is false while the connection is lost but the grace window is still open
	Online bool `json:"online"`

	// Departed is set when the grace window lapsed; the record is kept so a later join reuses it
	Departed bool `json:"-"`

	// JoinedAt is when the player first joined the room
	JoinedAt time.Time `json:"joinedAt"`

	// LastSeenAt is the last time the player was observed connected
	LastSeenAt time.Time `json:"lastSeenAt"`
}

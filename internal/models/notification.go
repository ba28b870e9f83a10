package models

import (
	"encoding/json"
	"time"
)

// Notification is a user-addressed message that lives outside any room
type Notification struct {
	// ID is the unique identifier for the notification
	ID string `json:"id"`

	// Seq orders a user's notifications and is the pull cursor
	Seq int64 `json:"seq"`

	// ToUserID is the recipient
	ToUserID string `json:"toUserId"`

	// FromUserID is the sender
	FromUserID string `json:"fromUserId"`

	// Payload is opaque to the engine
	Payload json.RawMessage `json:"payload"`

	// CreatedAt is when the notification was created
	CreatedAt time.Time `json:"createdAt"`

	// Read indicates the recipient has acknowledged it
	Read bool `json:"read"`
}

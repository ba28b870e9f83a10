package models

import (
	"time"
)

// MessageKind distinguishes player chat from system announcements
type MessageKind string

const (
	// MessageKindNormal is chat written by a player
	MessageKindNormal MessageKind = "normal"

	// MessageKindAnnouncement is a system or host announcement
	MessageKindAnnouncement MessageKind = "announcement"
)

// IsValid reports whether k is a known kind
func (k MessageKind) IsValid() bool {
	return k == MessageKindNormal || k == MessageKindAnnouncement
}

// Message is an append-only chat entry; it is never mutated after creation
type Message struct {
	// ID is the server-assigned identifier
	ID string `json:"id"`

	// RoomID is the room the message was posted in
	RoomID string `json:"roomId"`

	// AuthorID is empty for system messages
	AuthorID string `json:"authorId,omitempty"`

	// AuthorName is the display name of the author at send time
	AuthorName string `json:"name,omitempty"`

	// ClientMsgID is the id the client attached, used to collapse retried sends
	ClientMsgID string `json:"clientId,omitempty"`

	// Text is the message body
	Text string `json:"text"`

	// Kind is normal or announcement
	Kind MessageKind `json:"kind"`

	// ServerSeq is the room-scoped, strictly increasing sequence number within Kind
	ServerSeq int64 `json:"serverSeq"`

	// CreatedAt is the server timestamp
	CreatedAt time.Time `json:"createdAt"`
}

package membership

import "time"

type ClaimActiveRoomInput struct {
	ParticipantID string
	RoomID        string

	// TTL bounds the claim so a crashed process cannot pin a participant forever
	TTL time.Duration
}

type ClaimActiveRoomOutput struct {
	// Claimed is true when the participant now holds RoomID, including a repeat claim
	Claimed bool

	// HeldBy is the room currently holding the participant
	HeldBy string

	// Fresh is true when the claim did not exist before this call
	Fresh bool
}

type ReleaseActiveRoomInput struct {
	ParticipantID string
	RoomID        string
}

type ReleaseActiveRoomOutput struct {
	Released bool
}

type GetActiveRoomInput struct {
	ParticipantID string
}

type GetActiveRoomOutput struct {
	RoomID string
}

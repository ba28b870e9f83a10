package room

import (
	"github.com/KirkDiggler/quizroom/internal/common/apperr"
)

var (
	ErrRoomNotFound      = apperr.NotFound("room_not_found", "room not found")
	ErrNoActiveRoom      = apperr.NotFound("no_active_room", "participant is not in an active room")
	ErrPlayerNotInRoom   = apperr.State("not_in_room", "participant is not in the room")
	ErrAlreadyInRoom     = apperr.Conflict("already_in_room", "participant is already in another room")
	ErrRoomFull          = apperr.State("room_full", "room is at maximum capacity")
	ErrRoomEnded         = apperr.State("room_ended", "room has ended")
	ErrRoomClosed        = apperr.State("room_closed", "room is shutting down")
	ErrNotHost           = apperr.State("not_host", "only the host can do that")
	ErrQuestionNotLive   = apperr.State("not_live", "question is not live")
	ErrTooLate           = apperr.State("too_late", "question is closed")
	ErrQuestionChanged   = apperr.State("question_changed", "the current question changed, try again")
	ErrEmptyMessage      = apperr.Validation("empty_message", "message text is empty")
	ErrMessageTooLong    = apperr.Validation("message_too_long", "message text is too long")
	ErrInvalidKind       = apperr.Validation("invalid_kind", "unknown message kind")
	ErrNegativeTimeTaken = apperr.Validation("negative_time_taken", "time taken cannot be negative")
	ErrInvalidInput      = apperr.Validation("invalid_input", "required fields are missing")
	ErrUnknownGame       = apperr.Validation("unknown_game", "game has no questions")
	ErrStoreUnavailable  = apperr.Transport("store_unavailable", "room store unavailable")
	ErrInviteCodesSpent  = apperr.New(apperr.KindInternal, "invite_codes_exhausted", "could not allocate a unique invite code")
)

// RoomError is returned for configuration mistakes
type RoomError string

// Error implements the error interface
func (e RoomError) Error() string {
	return string(e)
}

const (
	ErrNilConfig         RoomError = "config cannot be nil"
	ErrNilRoomRepo       RoomError = "room repository cannot be nil"
	ErrNilMembershipRepo RoomError = "membership repository cannot be nil"
	ErrNilQuestionRepo   RoomError = "question repository cannot be nil"
	ErrNilMessaging      RoomError = "messaging service cannot be nil"
	ErrNilPublisher      RoomError = "publisher cannot be nil"
	ErrNilClock          RoomError = "clock cannot be nil"
	ErrNilUUIDGenerator  RoomError = "UUID generator cannot be nil"
	ErrNilInviteCodes    RoomError = "invite code generator cannot be nil"
)

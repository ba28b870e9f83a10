package room

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/KirkDiggler/quizroom/internal/models"
)

// SendMessage validates, sequences and broadcasts a chat message
func (s *service) SendMessage(ctx context.Context, input *SendMessageInput) (*SendMessageOutput, error) {
	if input == nil || input.RoomID == "" || input.AuthorID == "" {
		return nil, ErrInvalidInput
	}

	kind := input.Kind
	if kind == "" {
		kind = models.MessageKindNormal
	}
	if !kind.IsValid() {
		return nil, ErrInvalidKind
	}

	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, ErrEmptyMessage
	}
	if utf8.RuneCountInString(text) > s.maxMessageLength {
		return nil, ErrMessageTooLong
	}

	actor, err := s.loadActor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	var out *SendMessageOutput
	err = actor.do(ctx, func(st *roomState) error {
		if st.room.Status == models.RoomStatusEnded {
			return ErrRoomEnded
		}

		author, ok := st.seatedPlayer(input.AuthorID)
		if !ok {
			return ErrPlayerNotInRoom
		}
		if kind == models.MessageKindAnnouncement && author.ID != st.room.HostID {
			return ErrNotHost
		}

		if input.ClientMsgID != "" {
			if prior, ok := st.byClientID[clientKey(author.ID, input.ClientMsgID)]; ok {
				mc := *prior
				out = &SendMessageOutput{
					Message:   &mc,
					Duplicate: true,
				}
				return nil
			}
		}

		msg := s.appendMessageLocked(st, author.ID, author.DisplayName, text, kind, input.ClientMsgID)
		mc := *msg
		out = &SendMessageOutput{
			Message: &mc,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

func clientKey(authorID, clientMsgID string) string {
	return authorID + "\x00" + clientMsgID
}

// appendMessageLocked stamps the message with the next sequence of its kind and broadcasts it
func (s *service) appendMessageLocked(st *roomState, authorID, authorName, text string, kind models.MessageKind, clientMsgID string) *models.Message {
	var seq int64
	if kind == models.MessageKindAnnouncement {
		st.noticeSeq++
		seq = st.noticeSeq
	} else {
		st.chatSeq++
		seq = st.chatSeq
	}

	msg := &models.Message{
		ID:          s.uuid.NewUUID(),
		RoomID:      st.room.ID,
		AuthorID:    authorID,
		AuthorName:  authorName,
		ClientMsgID: clientMsgID,
		Text:        text,
		Kind:        kind,
		ServerSeq:   seq,
		CreatedAt:   s.clock.Now(),
	}

	if clientMsgID != "" {
		st.byClientID[clientKey(authorID, clientMsgID)] = msg
	}

	mc := *msg
	s.publish(st, models.EventReceiveMessage, &mc)

	return msg
}

// announceLocked posts a system announcement
func (s *service) announceLocked(st *roomState, text string) {
	s.appendMessageLocked(st, "", "", text, models.MessageKindAnnouncement, "")
}

// Typing relays a typing hint to the room
func (s *service) Typing(ctx context.Context, input *TypingInput) (*TypingOutput, error) {
	if input == nil || input.RoomID == "" || input.ParticipantID == "" {
		return nil, ErrInvalidInput
	}
	if utf8.RuneCountInString(input.Hint) > s.maxMessageLength {
		return nil, ErrMessageTooLong
	}

	actor, err := s.lookupActor(input.RoomID)
	if err != nil {
		return nil, err
	}

	err = actor.do(ctx, func(st *roomState) error {
		if _, ok := st.seatedPlayer(input.ParticipantID); !ok {
			return ErrPlayerNotInRoom
		}

		s.publish(st, models.EventTypingResponse, &models.TypingHint{
			ParticipantID: input.ParticipantID,
			Hint:          input.Hint,
		})
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &TypingOutput{}, nil
}

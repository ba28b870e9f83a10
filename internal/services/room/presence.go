package room

import (
	"context"
	"strings"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/models"
	membershipRepo "github.com/KirkDiggler/quizroom/internal/repositories/membership"
	"github.com/KirkDiggler/quizroom/internal/services/messaging"
)

// JoinRoom seats a participant, or rebinds their seat to a new connection
func (s *service) JoinRoom(ctx context.Context, input *JoinRoomInput) (*JoinRoomOutput, error) {
	if input == nil || input.RoomID == "" || input.ParticipantID == "" || input.ConnectionID == "" {
		return nil, ErrInvalidInput
	}

	name := strings.TrimSpace(input.DisplayName)
	if name == "" {
		name = input.ParticipantID
	}

	actor, err := s.loadActor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	claim, err := s.claimActiveRoom(ctx, input.RoomID, input.ParticipantID)
	if err != nil {
		return nil, err
	}

	var out *JoinRoomOutput
	err = actor.do(ctx, func(st *roomState) error {
		if st.room.Status == models.RoomStatusEnded {
			return ErrRoomEnded
		}

		now := s.clock.Now()
		player, exists := st.players[input.ParticipantID]
		resumed := false

		switch {
		case exists && !player.Departed:
			resumed = true
			if t, ok := st.graceTimers[input.ParticipantID]; ok {
				t.Stop()
				delete(st.graceTimers, input.ParticipantID)
			}
		case exists && player.Departed:
			if s.isFull(st) {
				return ErrRoomFull
			}
			player.Departed = false
		default:
			if s.isFull(st) {
				return ErrRoomFull
			}
			player = &models.Player{
				ID:       input.ParticipantID,
				RoomID:   st.room.ID,
				JoinedAt: now,
			}
			st.players[player.ID] = player
			st.order = append(st.order, player.ID)
		}

		player.DisplayName = name
		player.ConnectionID = input.ConnectionID
		player.Online = true
		player.LastSeenAt = now

		if entry, ok := st.scores[player.ID]; ok {
			entry.DisplayName = name
		} else {
			st.scores[player.ID] = &models.ScoreEntry{
				PlayerID:    player.ID,
				RoomID:      st.room.ID,
				DisplayName: name,
			}
		}

		s.publishPresence(st)

		if !resumed {
			change := messaging.PresenceJoined
			if exists {
				change = messaging.PresenceReturned
			}
			s.announcePresenceLocked(st, name, change)
		}

		pc := *player
		out = &JoinRoomOutput{
			Room:            copyRoom(st.room),
			Player:          &pc,
			Players:         copyPlayers(st.seated()),
			Phase:           st.phase,
			CurrentQuestion: st.currentQuestion(),
			Leaderboard:     st.leaderboard(),
			Resumed:         resumed,
		}
		return nil
	})
	if err != nil {
		if claim.Fresh {
			s.releaseClaimLocked(input.RoomID, input.ParticipantID)
		}
		return nil, err
	}

	s.log.Debug("player joined",
		"room_id", input.RoomID,
		"participant_id", input.ParticipantID,
		"connection_id", input.ConnectionID,
		"resumed", out.Resumed)

	return out, nil
}

func (s *service) isFull(st *roomState) bool {
	return s.maxPlayers > 0 && len(st.seated()) >= s.maxPlayers
}

// claimActiveRoom enforces one active room per participant, clearing claims left behind by finished rooms
func (s *service) claimActiveRoom(ctx context.Context, roomID, participantID string) (*membershipRepo.ClaimActiveRoomOutput, error) {
	claimInput := &membershipRepo.ClaimActiveRoomInput{
		ParticipantID: participantID,
		RoomID:        roomID,
		TTL:           s.roomExpiry + s.roomRetention,
	}

	claim, err := s.membershipRepo.ClaimActiveRoom(ctx, claimInput)
	if err != nil {
		return nil, apperr.Wrap(ErrStoreUnavailable, err)
	}
	if claim.Claimed {
		return claim, nil
	}

	if s.roomIsActive(ctx, claim.HeldBy) {
		return nil, ErrAlreadyInRoom
	}

	s.log.Info("clearing stale active room claim",
		"participant_id", participantID,
		"stale_room_id", claim.HeldBy)
	s.releaseClaim(ctx, claim.HeldBy, participantID)

	claim, err = s.membershipRepo.ClaimActiveRoom(ctx, claimInput)
	if err != nil {
		return nil, apperr.Wrap(ErrStoreUnavailable, err)
	}
	if !claim.Claimed {
		return nil, ErrAlreadyInRoom
	}

	return claim, nil
}

// roomIsActive reports false only when the room is known to be gone or ended
func (s *service) roomIsActive(ctx context.Context, roomID string) bool {
	out, err := s.GetRoom(ctx, &GetRoomInput{
		RoomID: roomID,
	})
	if err != nil {
		return !apperr.IsKind(err, apperr.KindNotFound)
	}
	return out.Room.Status.IsActive()
}

// LeaveRoom removes the player at once; their score stays on the leaderboard
func (s *service) LeaveRoom(ctx context.Context, input *LeaveRoomInput) (*LeaveRoomOutput, error) {
	if input == nil || input.RoomID == "" || input.ParticipantID == "" {
		return nil, ErrInvalidInput
	}

	actor, err := s.lookupActor(input.RoomID)
	if err != nil {
		return nil, err
	}

	var out *LeaveRoomOutput
	err = actor.do(ctx, func(st *roomState) error {
		player, ok := st.seatedPlayer(input.ParticipantID)
		if !ok {
			return ErrPlayerNotInRoom
		}

		if t, ok := st.graceTimers[player.ID]; ok {
			t.Stop()
			delete(st.graceTimers, player.ID)
		}
		delete(st.players, player.ID)
		st.removeFromOrder(player.ID)

		s.publishPresence(st)
		s.announcePresenceLocked(st, player.DisplayName, messaging.PresenceLeft)

		out = &LeaveRoomOutput{
			Players: copyPlayers(st.seated()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.releaseClaim(ctx, input.RoomID, input.ParticipantID)

	return out, nil
}

// Disconnect flags the player offline and arms the grace timer; stale connection ids are ignored
func (s *service) Disconnect(ctx context.Context, input *DisconnectInput) (*DisconnectOutput, error) {
	if input == nil || input.RoomID == "" || input.ParticipantID == "" {
		return nil, ErrInvalidInput
	}

	actor, err := s.lookupActor(input.RoomID)
	if err != nil {
		return nil, err
	}

	out := &DisconnectOutput{}
	err = actor.do(ctx, func(st *roomState) error {
		player, ok := st.seatedPlayer(input.ParticipantID)
		if !ok || !player.Online || player.ConnectionID != input.ConnectionID {
			return nil
		}
		if st.room.Status == models.RoomStatusEnded {
			return nil
		}

		player.Online = false
		player.LastSeenAt = s.clock.Now()

		participantID, connectionID := player.ID, player.ConnectionID
		st.graceTimers[participantID] = s.clock.AfterFunc(s.presenceGrace, func() {
			actor.enqueue(func(st *roomState) {
				s.expireGraceLocked(st, participantID, connectionID)
			})
		})

		s.publishPresence(st)
		out.GraceStarted = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// expireGraceLocked departs a player whose grace window lapsed without a rejoin
func (s *service) expireGraceLocked(st *roomState, participantID, connectionID string) {
	player, ok := st.seatedPlayer(participantID)
	if !ok || player.Online || player.ConnectionID != connectionID {
		return
	}

	delete(st.graceTimers, participantID)
	player.Departed = true
	player.ConnectionID = ""

	s.publishPresence(st)
	s.announcePresenceLocked(st, player.DisplayName, messaging.PresenceLeft)
	s.releaseClaimLocked(st.room.ID, participantID)

	s.log.Debug("grace window expired",
		"room_id", st.room.ID,
		"participant_id", participantID)
}

// GetPresence returns the seated players after every earlier mutation of the room
func (s *service) GetPresence(ctx context.Context, input *GetPresenceInput) (*GetPresenceOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, ErrInvalidInput
	}

	actor, err := s.lookupActor(input.RoomID)
	if err != nil {
		return nil, err
	}

	var out *GetPresenceOutput
	err = actor.do(ctx, func(st *roomState) error {
		out = &GetPresenceOutput{
			Players: copyPlayers(st.seated()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// lookupActor returns a loaded actor without reloading from the store
func (s *service) lookupActor(roomID string) (*roomActor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	actor, ok := s.rooms[roomID]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return actor, nil
}

func (s *service) publishPresence(st *roomState) {
	s.publish(st, models.EventPlayersResponse, copyPlayers(st.seated()))
}

func (s *service) announcePresenceLocked(st *roomState, name string, change messaging.PresenceChange) {
	msg, err := s.messaging.GetPresenceMessage(context.Background(), &messaging.GetPresenceMessageInput{
		PlayerName: name,
		Change:     change,
	})
	if err != nil {
		s.log.Warn("failed to build presence announcement",
			"room_id", st.room.ID,
			"change", change,
			"error", err)
		return
	}
	s.announceLocked(st, msg.Message)
}

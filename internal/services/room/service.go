package room

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/common/clock"
	"github.com/KirkDiggler/quizroom/internal/common/uuid"
	"github.com/KirkDiggler/quizroom/internal/invitecode"
	"github.com/KirkDiggler/quizroom/internal/models"
	membershipRepo "github.com/KirkDiggler/quizroom/internal/repositories/membership"
	questionRepo "github.com/KirkDiggler/quizroom/internal/repositories/question"
	roomRepo "github.com/KirkDiggler/quizroom/internal/repositories/room"
	"github.com/KirkDiggler/quizroom/internal/services/messaging"
	"github.com/KirkDiggler/quizroom/internal/services/notification"
)

const (
	defaultPresenceGrace  = 30 * time.Second
	defaultQuestionLimit  = 20 * time.Second
	defaultBasePoints     = 1000
	defaultMessageLength  = 500
	defaultRoomRetention  = 5 * time.Minute
	defaultRoomExpiry     = time.Hour
	maxInviteCodeAttempts = 10

	// storeTimeout bounds store calls made from inside a room actor
	storeTimeout = 2 * time.Second
)

// service implements the Service interface
type service struct {
	presenceGrace    time.Duration
	questionLimit    time.Duration
	basePoints       int
	maxMessageLength int
	maxPlayers       int
	roomRetention    time.Duration
	roomExpiry       time.Duration

	roomRepo       roomRepo.Repository
	membershipRepo membershipRepo.Repository
	questionRepo   questionRepo.Repository
	messaging      messaging.Service
	notifications  notification.Service
	publisher      Publisher
	clock          clock.Clock
	uuid           uuid.UUID
	inviteCodes    invitecode.Generator
	log            *slog.Logger

	mu    sync.RWMutex
	rooms map[string]*roomActor
}

// New creates a new room service
func New(cfg *Config) (*service, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.RoomRepo == nil {
		return nil, ErrNilRoomRepo
	}
	if cfg.MembershipRepo == nil {
		return nil, ErrNilMembershipRepo
	}
	if cfg.QuestionRepo == nil {
		return nil, ErrNilQuestionRepo
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.Publisher == nil {
		return nil, ErrNilPublisher
	}
	if cfg.Clock == nil {
		return nil, ErrNilClock
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}
	if cfg.InviteCodes == nil {
		return nil, ErrNilInviteCodes
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &service{
		presenceGrace:    durationOr(cfg.PresenceGrace, defaultPresenceGrace),
		questionLimit:    durationOr(cfg.DefaultQuestionLimit, defaultQuestionLimit),
		basePoints:       intOr(cfg.BasePoints, defaultBasePoints),
		maxMessageLength: intOr(cfg.MaxMessageLength, defaultMessageLength),
		maxPlayers:       cfg.MaxPlayers,
		roomRetention:    durationOr(cfg.RoomRetention, defaultRoomRetention),
		roomExpiry:       durationOr(cfg.RoomExpiry, defaultRoomExpiry),
		roomRepo:         cfg.RoomRepo,
		membershipRepo:   cfg.MembershipRepo,
		questionRepo:     cfg.QuestionRepo,
		messaging:        cfg.Messaging,
		notifications:    cfg.Notifications,
		publisher:        cfg.Publisher,
		clock:            cfg.Clock,
		uuid:             cfg.UUIDGenerator,
		inviteCodes:      cfg.InviteCodes,
		log:              logger.With("service", "room"),
		rooms:            make(map[string]*roomActor),
	}, nil
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}

func intOr(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}

// CreateRoom allocates a room and starts its actor
func (s *service) CreateRoom(ctx context.Context, input *CreateRoomInput) (*CreateRoomOutput, error) {
	if input == nil || input.HostID == "" || strings.TrimSpace(input.GameID) == "" {
		return nil, ErrInvalidInput
	}

	count, err := s.questionRepo.CountQuestions(ctx, &questionRepo.CountQuestionsInput{
		GameID: input.GameID,
	})
	if err != nil {
		return nil, apperr.Wrap(ErrStoreUnavailable, err)
	}
	if count.Count == 0 {
		return nil, ErrUnknownGame
	}

	now := s.clock.Now()
	room := &models.Room{
		ID:                   s.uuid.NewUUID(),
		GameID:               input.GameID,
		Status:               models.RoomStatusLobby,
		HostID:               input.HostID,
		CurrentQuestionIndex: -1,
		CreatedAt:            now,
		ExpiresAt:            now.Add(s.roomExpiry),
	}

	ttl := s.roomExpiry + s.roomRetention
	for attempt := 0; attempt < maxInviteCodeAttempts && room.InviteCode == ""; attempt++ {
		code := s.inviteCodes.Generate()
		claim, err := s.roomRepo.ClaimInviteCode(ctx, &roomRepo.ClaimInviteCodeInput{
			InviteCode: code,
			RoomID:     room.ID,
			TTL:        ttl,
		})
		if err != nil {
			return nil, apperr.Wrap(ErrStoreUnavailable, err)
		}
		if claim.Claimed {
			room.InviteCode = code
		}
	}
	if room.InviteCode == "" {
		return nil, ErrInviteCodesSpent
	}

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{
		Room: room,
		TTL:  ttl,
	}); err != nil {
		return nil, apperr.Wrap(ErrStoreUnavailable, err)
	}

	s.startActor(copyRoom(room))

	s.log.Info("room created",
		"room_id", room.ID,
		"game_id", room.GameID,
		"host_id", room.HostID,
		"invite_code", room.InviteCode)

	s.inviteAll(ctx, room, input)

	return &CreateRoomOutput{
		Room:          room,
		QuestionCount: count.Count,
	}, nil
}

// inviteAll is best effort; the room exists whether or not invitations land
func (s *service) inviteAll(ctx context.Context, room *models.Room, input *CreateRoomInput) {
	if s.notifications == nil {
		return
	}

	seen := map[string]struct{}{input.HostID: {}}
	for _, invitee := range input.Invitees {
		invitee = strings.TrimSpace(invitee)
		if invitee == "" {
			continue
		}
		if _, dup := seen[invitee]; dup {
			continue
		}
		seen[invitee] = struct{}{}

		_, err := s.notifications.Notify(ctx, &notification.NotifyInput{
			ToUserID:   invitee,
			FromUserID: input.HostID,
			Payload: map[string]string{
				"roomId":     room.ID,
				"inviteCode": room.InviteCode,
				"gameId":     room.GameID,
				"hostName":   input.HostName,
			},
		})
		if err != nil {
			s.log.Warn("failed to notify invitee",
				"room_id", room.ID,
				"invitee", invitee,
				"error", err)
		}
	}
}

// startActor registers and runs an actor for room; an existing actor wins
func (s *service) startActor(room *models.Room) *roomActor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rooms[room.ID]; ok {
		return existing
	}

	actor := newRoomActor(room)
	s.rooms[room.ID] = actor
	go actor.run()

	if room.Status.IsActive() {
		actor.enqueue(func(st *roomState) {
			s.armExpiry(actor, st)
		})
	}

	return actor
}

func (s *service) armExpiry(actor *roomActor, st *roomState) {
	wait := st.room.ExpiresAt.Sub(s.clock.Now())
	if wait < 0 {
		wait = 0
	}
	st.expiryTimer = s.clock.AfterFunc(wait, func() {
		actor.enqueue(func(st *roomState) {
			st.expiryTimer = nil
			if st.room.Status == models.RoomStatusEnded {
				return
			}
			s.log.Info("room expired", "room_id", st.room.ID)
			s.finishLocked(actor, st)
		})
	})
}

// loadActor finds the room's actor, reloading an active room from the store if this process does not hold it
func (s *service) loadActor(ctx context.Context, roomID string) (*roomActor, error) {
	if roomID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.RLock()
	actor, ok := s.rooms[roomID]
	s.mu.RUnlock()
	if ok {
		return actor, nil
	}

	room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{
		RoomID: roomID,
	})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, apperr.Wrap(ErrStoreUnavailable, err)
	}
	if !room.Status.IsActive() {
		return nil, ErrRoomEnded
	}

	s.log.Info("room reloaded", "room_id", room.ID, "status", room.Status)

	return s.startActor(room), nil
}

// teardown drops an ended room from the registry
func (s *service) teardown(roomID string) {
	s.mu.Lock()
	actor, ok := s.rooms[roomID]
	delete(s.rooms, roomID)
	s.mu.Unlock()

	if ok {
		actor.stop()
		s.log.Info("room torn down", "room_id", roomID)
	}
}

// archive tears down an ended room and removes its record once retention is over
func (s *service) archive(roomID string) {
	s.teardown(roomID)

	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	err := s.roomRepo.DeleteRoom(ctx, &roomRepo.DeleteRoomInput{
		RoomID: roomID,
	})
	if err != nil && !errors.Is(err, roomRepo.ErrRoomNotFound) {
		s.log.Warn("failed to delete ended room",
			"room_id", roomID,
			"error", err)
	}
}

// ResumeRooms loads every active room so expiry keeps running across restarts.
// Players are not restored; they rejoin and resume from the stored question index.
func (s *service) ResumeRooms(ctx context.Context, input *ResumeRoomsInput) (*ResumeRoomsOutput, error) {
	out, err := s.roomRepo.GetActiveRooms(ctx, &roomRepo.GetActiveRoomsInput{})
	if err != nil {
		return nil, apperr.Wrap(ErrStoreUnavailable, err)
	}

	resumed := make([]string, 0, len(out.Rooms))
	for _, room := range out.Rooms {
		if !room.Status.IsActive() {
			continue
		}
		s.startActor(room)
		resumed = append(resumed, room.ID)
	}

	s.log.Info("rooms resumed", "count", len(resumed))

	return &ResumeRoomsOutput{
		RoomIDs: resumed,
	}, nil
}

// GetActiveRoom follows the participant's active-room claim
func (s *service) GetActiveRoom(ctx context.Context, input *GetActiveRoomInput) (*GetRoomOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, ErrInvalidInput
	}

	claim, err := s.membershipRepo.GetActiveRoom(ctx, &membershipRepo.GetActiveRoomInput{
		ParticipantID: input.ParticipantID,
	})
	if err != nil {
		if errors.Is(err, membershipRepo.ErrNoActiveRoom) {
			return nil, ErrNoActiveRoom
		}
		return nil, apperr.Wrap(ErrStoreUnavailable, err)
	}

	out, err := s.GetRoom(ctx, &GetRoomInput{
		RoomID: claim.RoomID,
	})
	if err != nil {
		if errors.Is(err, ErrRoomNotFound) {
			return nil, ErrNoActiveRoom
		}
		return nil, err
	}
	if !out.Room.Status.IsActive() {
		return nil, ErrNoActiveRoom
	}

	return out, nil
}

// GetRoom returns a view of the room, served by its actor when loaded
func (s *service) GetRoom(ctx context.Context, input *GetRoomInput) (*GetRoomOutput, error) {
	if input == nil || input.RoomID == "" {
		return nil, ErrInvalidInput
	}

	s.mu.RLock()
	actor, ok := s.rooms[input.RoomID]
	s.mu.RUnlock()

	if !ok {
		room, err := s.roomRepo.GetRoom(ctx, &roomRepo.GetRoomInput{
			RoomID: input.RoomID,
		})
		if err != nil {
			if errors.Is(err, roomRepo.ErrRoomNotFound) {
				return nil, ErrRoomNotFound
			}
			return nil, apperr.Wrap(ErrStoreUnavailable, err)
		}
		return &GetRoomOutput{
			Room: room,
		}, nil
	}

	var out *GetRoomOutput
	err := actor.do(ctx, func(st *roomState) error {
		out = &GetRoomOutput{
			Room:            copyRoom(st.room),
			Phase:           st.phase,
			CurrentQuestion: st.currentQuestion(),
			PlayerCount:     len(st.seated()),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// GetRoomByInviteCode resolves the code through the store and then reads the room
func (s *service) GetRoomByInviteCode(ctx context.Context, input *GetRoomByInviteCodeInput) (*GetRoomOutput, error) {
	if input == nil || strings.TrimSpace(input.InviteCode) == "" {
		return nil, ErrInvalidInput
	}

	room, err := s.roomRepo.GetRoomByInviteCode(ctx, &roomRepo.GetRoomByInviteCodeInput{
		InviteCode: strings.TrimSpace(input.InviteCode),
	})
	if err != nil {
		if errors.Is(err, roomRepo.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, apperr.Wrap(ErrStoreUnavailable, err)
	}

	return s.GetRoom(ctx, &GetRoomInput{
		RoomID: room.ID,
	})
}

// EndRoom ends the game on behalf of the host
func (s *service) EndRoom(ctx context.Context, input *EndRoomInput) (*EndRoomOutput, error) {
	if input == nil || input.ParticipantID == "" {
		return nil, ErrInvalidInput
	}

	actor, err := s.loadActor(ctx, input.RoomID)
	if err != nil {
		return nil, err
	}

	var out *EndRoomOutput
	err = actor.do(ctx, func(st *roomState) error {
		if st.room.HostID != input.ParticipantID {
			return ErrNotHost
		}
		if st.room.Status == models.RoomStatusEnded {
			return ErrRoomEnded
		}

		s.finishLocked(actor, st)

		out = &EndRoomOutput{
			Room:        copyRoom(st.room),
			Leaderboard: st.leaderboard(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return out, nil
}

// finishLocked ends the room: closes any live question, publishes the final standings and schedules teardown
func (s *service) finishLocked(actor *roomActor, st *roomState) {
	if st.phase == models.GamePhaseQuestionLive {
		s.closeQuestionLocked(st)
	}

	st.phase = models.GamePhaseFinished
	if st.room.Status == models.RoomStatusEnded {
		return
	}
	st.room.Status = models.RoomStatusEnded
	st.stopTimers()

	board := st.leaderboard()
	winner := ""
	if len(board) > 0 && board[0].Points > 0 {
		winner = board[0].DisplayName
	}

	s.publish(st, models.EventResultResponse, board)
	s.publish(st, models.EventGameStatus, s.statusPayload(st))

	msg, err := s.messaging.GetGameStatusMessage(context.Background(), &messaging.GetGameStatusMessageInput{
		Status:        models.RoomStatusEnded,
		WinnerName:    winner,
		QuestionCount: st.played,
	})
	if err == nil {
		s.announceLocked(st, msg.Message)
	}

	s.persistLocked(st, s.roomRetention)

	for _, p := range st.seated() {
		s.releaseClaimLocked(st.room.ID, p.ID)
	}

	roomID := st.room.ID
	st.retentionTimer = s.clock.AfterFunc(s.roomRetention, func() {
		s.archive(roomID)
	})

	s.log.Info("room ended",
		"room_id", roomID,
		"questions_played", st.played,
		"winner", winner)
}

// persistLocked writes the room record from inside the actor
func (s *service) persistLocked(st *roomState, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	if err := s.roomRepo.SaveRoom(ctx, &roomRepo.SaveRoomInput{
		Room: copyRoom(st.room),
		TTL:  ttl,
	}); err != nil {
		s.log.Error("failed to persist room",
			"room_id", st.room.ID,
			"status", st.room.Status,
			"error", err)
	}
}

// activeTTL keeps the record alive until the room would expire plus its retention
func (s *service) activeTTL(st *roomState) time.Duration {
	ttl := st.room.ExpiresAt.Sub(s.clock.Now()) + s.roomRetention
	if ttl <= 0 {
		return s.roomRetention
	}
	return ttl
}

// releaseClaimLocked releases with its own deadline so a cancelled caller cannot leave a stale claim
func (s *service) releaseClaimLocked(roomID, participantID string) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()
	s.releaseClaim(ctx, roomID, participantID)
}

func (s *service) releaseClaim(ctx context.Context, roomID, participantID string) {
	_, err := s.membershipRepo.ReleaseActiveRoom(ctx, &membershipRepo.ReleaseActiveRoomInput{
		ParticipantID: participantID,
		RoomID:        roomID,
	})
	if err != nil {
		s.log.Warn("failed to release active room",
			"room_id", roomID,
			"participant_id", participantID,
			"error", err)
	}
}

// publish hands a snapshot to the publisher; payload must not be referenced by the state afterwards
func (s *service) publish(st *roomState, eventType models.EventType, payload any) {
	s.publisher.Broadcast(st.room.ID, &models.Event{
		Type:    eventType,
		RoomID:  st.room.ID,
		Payload: payload,
	})
}

// StatusPayload is the game_status body
type StatusPayload struct {
	Room  *models.Room     `json:"room"`
	Phase models.GamePhase `json:"phase"`
}

func (s *service) statusPayload(st *roomState) *StatusPayload {
	return &StatusPayload{
		Room:  copyRoom(st.room),
		Phase: st.phase,
	}
}

// Shutdown stops every actor
func (s *service) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	actors := make([]*roomActor, 0, len(s.rooms))
	for id, actor := range s.rooms {
		actors = append(actors, actor)
		delete(s.rooms, id)
	}
	s.mu.Unlock()

	for _, actor := range actors {
		actor.stop()
	}

	s.log.Info("room service stopped", "rooms", len(actors))
	return ctx.Err()
}

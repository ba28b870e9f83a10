package websocket

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	"github.com/KirkDiggler/quizroom/internal/common/uuid"
	"github.com/KirkDiggler/quizroom/internal/identity"
	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/KirkDiggler/quizroom/internal/services/messaging"
	"github.com/KirkDiggler/quizroom/internal/services/room"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/websocket"
)

const (
	// intentTimeout bounds the handling of one inbound intent
	intentTimeout = 5 * time.Second

	// disconnectTimeout bounds the presence update after a socket closes
	disconnectTimeout = 2 * time.Second
)

// HandlerError is returned for configuration mistakes
type HandlerError string

func (e HandlerError) Error() string {
	return string(e)
}

const (
	ErrNilConfig        HandlerError = "config cannot be nil"
	ErrNilHub           HandlerError = "hub cannot be nil"
	ErrNilRoomService   HandlerError = "room service cannot be nil"
	ErrNilResolver      HandlerError = "identity resolver cannot be nil"
	ErrNilMessaging     HandlerError = "messaging service cannot be nil"
	ErrNilUUIDGenerator HandlerError = "UUID generator cannot be nil"
)

// HandlerConfig holds configuration for the websocket handler
type HandlerConfig struct {
	Hub           *Hub
	RoomService   room.Service
	Identity      identity.Resolver
	Messaging     messaging.Service
	UUIDGenerator uuid.UUID

	// AllowedOrigins lists accepted Origin headers; "*" accepts any
	AllowedOrigins []string

	// SendBuffer is the per-connection outbound buffer in events
	SendBuffer int

	Logger *slog.Logger
}

// Handler upgrades connections and routes their intents to the room service
type Handler struct {
	hub        *Hub
	rooms      room.Service
	identity   identity.Resolver
	messaging  messaging.Service
	uuid       uuid.UUID
	validate   *validator.Validate
	upgrader   websocket.Upgrader
	sendBuffer int
	log        *slog.Logger
}

// JoinSnapshot is sent to a joining connection only
type JoinSnapshot struct {
	Room            *models.Room           `json:"room"`
	Phase           models.GamePhase       `json:"phase"`
	Self            *models.Player         `json:"self"`
	Players         []*models.Player       `json:"players"`
	CurrentQuestion *models.PublicQuestion `json:"currentQuestion,omitempty"`
	Leaderboard     []*models.ScoreEntry   `json:"leaderboard"`
	Resumed         bool                   `json:"resumed"`
}

// NewHandler creates a new websocket handler
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Hub == nil {
		return nil, ErrNilHub
	}
	if cfg.RoomService == nil {
		return nil, ErrNilRoomService
	}
	if cfg.Identity == nil {
		return nil, ErrNilResolver
	}
	if cfg.Messaging == nil {
		return nil, ErrNilMessaging
	}
	if cfg.UUIDGenerator == nil {
		return nil, ErrNilUUIDGenerator
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	origins := cfg.AllowedOrigins
	return &Handler{
		hub:       cfg.Hub,
		rooms:     cfg.RoomService,
		identity:  cfg.Identity,
		messaging: cfg.Messaging,
		uuid:      cfg.UUIDGenerator,
		validate:  validator.New(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(origins, r.Header.Get("Origin"))
			},
		},
		sendBuffer: cfg.SendBuffer,
		log:        logger.With("handler", "websocket"),
	}, nil
}

func originAllowed(allowed []string, origin string) bool {
	if origin == "" || len(allowed) == 0 || slices.Contains(allowed, "*") {
		return true
	}
	return slices.ContainsFunc(allowed, func(o string) bool {
		return strings.EqualFold(o, origin)
	})
}

// ServeHTTP authenticates the caller, upgrades the connection and serves it until it closes
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	token := r.Header.Get("Authorization")
	if token == "" {
		token = r.URL.Query().Get("token")
	}

	id, err := h.identity.Resolve(r.Context(), token)
	if err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the HTTP error
		h.log.Warn("failed to upgrade connection",
			"participant_id", id.ParticipantID,
			"error", err)
		return
	}

	client := NewClient(conn, h.uuid.NewUUID(), id.ParticipantID, id.DisplayName, h.sendBuffer, h.log)
	h.hub.Register(client)

	h.log.Info("connection opened",
		"connection_id", client.id,
		"participant_id", client.participantID)

	go client.WritePump()
	client.ReadPump(func(data []byte) {
		ctx, cancel := context.WithTimeout(context.Background(), intentTimeout)
		defer cancel()
		h.RouteInbound(ctx, client, data)
	})

	h.closeClient(client)
}

// closeClient unbinds the connection and starts the grace window for its room seat
func (h *Handler) closeClient(c *Client) {
	roomID := h.hub.Unregister(c)

	h.log.Info("connection closed",
		"connection_id", c.id,
		"participant_id", c.participantID,
		"room_id", roomID)

	if roomID == "" {
		return
	}

	h.disconnect(c, roomID)
}

// disconnect starts the grace window for the connection's seat in roomID
func (h *Handler) disconnect(c *Client, roomID string) {
	ctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
	defer cancel()

	if _, err := h.rooms.Disconnect(ctx, &room.DisconnectInput{
		RoomID:        roomID,
		ParticipantID: c.participantID,
		ConnectionID:  c.id,
	}); err != nil && !apperr.IsKind(err, apperr.KindNotFound) {
		h.log.Warn("failed to record disconnect",
			"connection_id", c.id,
			"room_id", roomID,
			"error", err)
	}
}

// RouteInbound decodes one intent and applies it; failures go back to the sender only
func (h *Handler) RouteInbound(ctx context.Context, c *Client, data []byte) {
	in, err := decodeIntent(h.validate, data)
	if err != nil {
		intentType := IntentType("")
		if in != nil {
			intentType = in.Type
		}
		h.sendError(ctx, c, intentType, err)
		return
	}

	switch p := in.Payload.(type) {
	case *joinRoomPayload:
		err = h.joinRoom(ctx, c, p)
	case *leaveRoomPayload:
		err = h.leaveRoom(ctx, c, p)
	case *sendMessagePayload:
		err = h.sendMessage(ctx, c, p)
	case *typingPayload:
		err = h.typing(ctx, c, p)
	case *submitAnswerPayload:
		err = h.submitAnswer(ctx, c, p)
	case *roomPayload:
		err = h.hostAction(ctx, c, in.Type, p)
	default:
		err = ErrUnknownIntent
	}

	if err != nil {
		h.sendError(ctx, c, in.Type, err)
	}
}

func (h *Handler) joinRoom(ctx context.Context, c *Client, p *joinRoomPayload) error {
	if p.ParticipantID != c.participantID {
		return ErrParticipantMismatch
	}

	// Attach first so the joiner sees its own join broadcasts. A connection
	// still bound to another room keeps that binding until the room service
	// accepts the join; the active-room claim decides whether it may move.
	if err := h.hub.Attach(c.id, p.RoomID, c.participantID); err != nil {
		return apperr.Wrap(ErrParticipantMismatch, err)
	}

	out, err := h.rooms.JoinRoom(ctx, &room.JoinRoomInput{
		RoomID:        p.RoomID,
		ParticipantID: c.participantID,
		DisplayName:   c.displayName,
		ConnectionID:  c.id,
	})
	if err != nil {
		h.hub.Detach(c.id, p.RoomID)
		return err
	}

	if err := h.hub.RegisterRoom(c.id, p.RoomID, c.participantID); err != nil {
		// Evicted while joining; the close path only knows the previous binding
		h.disconnect(c, p.RoomID)
		return err
	}

	h.hub.Send(c.id, &models.Event{
		Type:   models.EventGameStatus,
		RoomID: p.RoomID,
		Payload: &JoinSnapshot{
			Room:            out.Room,
			Phase:           out.Phase,
			Self:            out.Player,
			Players:         out.Players,
			CurrentQuestion: out.CurrentQuestion,
			Leaderboard:     out.Leaderboard,
			Resumed:         out.Resumed,
		},
	})

	return nil
}

func (h *Handler) leaveRoom(ctx context.Context, c *Client, p *leaveRoomPayload) error {
	_, err := h.rooms.LeaveRoom(ctx, &room.LeaveRoomInput{
		RoomID:        p.RoomID,
		ParticipantID: c.participantID,
	})
	h.hub.UnregisterRoom(c.id, p.RoomID)
	return err
}

func (h *Handler) sendMessage(ctx context.Context, c *Client, p *sendMessagePayload) error {
	_, err := h.rooms.SendMessage(ctx, &room.SendMessageInput{
		RoomID:      p.RoomID,
		AuthorID:    c.participantID,
		Text:        p.Text,
		Kind:        models.MessageKind(p.Kind),
		ClientMsgID: p.ID,
	})
	return err
}

func (h *Handler) typing(ctx context.Context, c *Client, p *typingPayload) error {
	_, err := h.rooms.Typing(ctx, &room.TypingInput{
		RoomID:        p.RoomID,
		ParticipantID: c.participantID,
		Hint:          p.Hint,
	})
	return err
}

func (h *Handler) submitAnswer(ctx context.Context, c *Client, p *submitAnswerPayload) error {
	if p.ParticipantID != c.participantID {
		return ErrParticipantMismatch
	}

	roomID := h.hub.RoomOf(c.id)
	if roomID == "" {
		return ErrNotBound
	}

	out, err := h.rooms.SubmitAnswer(ctx, &room.SubmitAnswerInput{
		RoomID:        roomID,
		ParticipantID: c.participantID,
		QuestionID:    p.QuestionID,
		Answer:        p.Answer,
		TimeTaken:     time.Duration(*p.TimeTaken) * time.Millisecond,
	})
	if err != nil {
		status, ok := rejectedStatus(err)
		if !ok {
			return err
		}
		h.hub.Send(c.id, &models.Event{
			Type:   models.EventAnswerAck,
			RoomID: roomID,
			Payload: &models.AnswerAck{
				QuestionID:    p.QuestionID,
				ParticipantID: c.participantID,
				Status:        status,
			},
		})
		return nil
	}

	h.hub.Send(c.id, &models.Event{
		Type:    models.EventAnswerAck,
		RoomID:  roomID,
		Payload: out.Ack,
	})
	return nil
}

// rejectedStatus maps answer rejections that are reported as acks instead of errors
func rejectedStatus(err error) (models.AckStatus, bool) {
	switch {
	case errors.Is(err, room.ErrTooLate):
		return models.AckTooLate, true
	case errors.Is(err, room.ErrQuestionNotLive):
		return models.AckNotLive, true
	default:
		return "", false
	}
}

func (h *Handler) hostAction(ctx context.Context, c *Client, t IntentType, p *roomPayload) error {
	var err error
	switch t {
	case IntentNextQuestion:
		_, err = h.rooms.AdvanceQuestion(ctx, &room.AdvanceQuestionInput{
			RoomID:        p.RoomID,
			ParticipantID: c.participantID,
		})
	case IntentCloseQuestion:
		_, err = h.rooms.CloseQuestion(ctx, &room.CloseQuestionInput{
			RoomID:        p.RoomID,
			ParticipantID: c.participantID,
		})
	case IntentEndRoom:
		_, err = h.rooms.EndRoom(ctx, &room.EndRoomInput{
			RoomID:        p.RoomID,
			ParticipantID: c.participantID,
		})
	default:
		err = ErrUnknownIntent
	}
	return err
}

// sendError replies to the originating connection with a classified error event
func (h *Handler) sendError(ctx context.Context, c *Client, t IntentType, err error) {
	kind := apperr.KindOf(err)
	reason := apperr.ReasonOf(err)

	text := "Something went wrong."
	msg, msgErr := h.messaging.GetErrorMessage(ctx, &messaging.GetErrorMessageInput{
		Kind:   kind,
		Reason: reason,
	})
	if msgErr == nil {
		text = msg.Message
	}

	if kind == apperr.KindInternal || kind == apperr.KindTransport {
		h.log.Error("intent failed",
			"connection_id", c.id,
			"participant_id", c.participantID,
			"intent", t,
			"error", err)
	} else {
		h.log.Debug("intent rejected",
			"connection_id", c.id,
			"intent", t,
			"reason", reason)
	}

	h.hub.Send(c.id, &models.Event{
		Type:   models.EventError,
		RoomID: h.hub.RoomOf(c.id),
		Payload: &models.ErrorPayload{
			Kind:    string(kind),
			Reason:  reason,
			Message: text,
			Intent:  string(t),
		},
	})
}

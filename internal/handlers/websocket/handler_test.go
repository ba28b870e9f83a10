package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/KirkDiggler/quizroom/internal/common/apperr"
	uuidMocks "github.com/KirkDiggler/quizroom/internal/common/uuid/mocks"
	"github.com/KirkDiggler/quizroom/internal/identity"
	identityMocks "github.com/KirkDiggler/quizroom/internal/identity/mocks"
	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/KirkDiggler/quizroom/internal/services/messaging"
	"github.com/KirkDiggler/quizroom/internal/services/room"
	roomMocks "github.com/KirkDiggler/quizroom/internal/services/room/mocks"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type wireEvent struct {
	Type    models.EventType `json:"type"`
	RoomID  string           `json:"roomId"`
	Payload json.RawMessage  `json:"payload"`
}

type HandlerTestSuite struct {
	suite.Suite
	mockCtrl     *gomock.Controller
	mockRooms    *roomMocks.MockService
	mockResolver *identityMocks.MockResolver
	mockUUID     *uuidMocks.MockUUID
	hub          *Hub
	handler      *Handler
	ctx          context.Context

	// Test data
	roomID string
	client *Client
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRooms = roomMocks.NewMockService(s.mockCtrl)
	s.mockResolver = identityMocks.NewMockResolver(s.mockCtrl)
	s.mockUUID = uuidMocks.NewMockUUID(s.mockCtrl)
	s.hub = NewHub(nil)
	s.ctx = context.Background()

	msgs, err := messaging.NewService(&messaging.ServiceConfig{
		Seed:        1,
		DefaultTone: messaging.ToneNeutral,
	})
	s.Require().NoError(err)

	handler, err := NewHandler(&HandlerConfig{
		Hub:           s.hub,
		RoomService:   s.mockRooms,
		Identity:      s.mockResolver,
		Messaging:     msgs,
		UUIDGenerator: s.mockUUID,
		SendBuffer:    16,
	})
	s.Require().NoError(err)
	s.handler = handler

	s.roomID = "room-1"
	s.client = NewClient(nil, "conn-1", "alice", "Alice", 16, nil)
	s.hub.Register(s.client)
}

func (s *HandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *HandlerTestSuite) route(intentType IntentType, payload any) {
	body, err := json.Marshal(payload)
	s.Require().NoError(err)
	data, err := json.Marshal(map[string]any{
		"type":    intentType,
		"payload": json.RawMessage(body),
	})
	s.Require().NoError(err)
	s.handler.RouteInbound(s.ctx, s.client, data)
}

func (s *HandlerTestSuite) nextEvent() *wireEvent {
	select {
	case data := <-s.client.send:
		var e wireEvent
		s.Require().NoError(json.Unmarshal(data, &e))
		return &e
	case <-time.After(time.Second):
		s.FailNow("no event sent")
		return nil
	}
}

func (s *HandlerTestSuite) noEvent() {
	select {
	case data := <-s.client.send:
		s.Failf("unexpected event", "%s", data)
	default:
	}
}

func (s *HandlerTestSuite) nextError() *models.ErrorPayload {
	e := s.nextEvent()
	s.Require().Equal(models.EventError, e.Type)
	var p models.ErrorPayload
	s.Require().NoError(json.Unmarshal(e.Payload, &p))
	return &p
}

func (s *HandlerTestSuite) bind() {
	s.Require().NoError(s.hub.RegisterRoom(s.client.id, s.roomID, s.client.participantID))
}

func (s *HandlerTestSuite) TestJoinRoom_SendsSnapshotToJoiner() {
	s.mockRooms.EXPECT().
		JoinRoom(gomock.Any(), &room.JoinRoomInput{
			RoomID:        s.roomID,
			ParticipantID: "alice",
			DisplayName:   "Alice",
			ConnectionID:  "conn-1",
		}).
		DoAndReturn(func(_ context.Context, _ *room.JoinRoomInput) (*room.JoinRoomOutput, error) {
			// The room broadcasts the join before JoinRoom returns
			s.hub.Broadcast(s.roomID, &models.Event{Type: models.EventPlayersResponse, RoomID: s.roomID})
			return &room.JoinRoomOutput{
				Room:    &models.Room{ID: s.roomID, Status: models.RoomStatusLobby},
				Player:  &models.Player{ID: "alice", DisplayName: "Alice", Online: true},
				Players: []*models.Player{{ID: "alice", DisplayName: "Alice", Online: true}},
				Phase:   models.GamePhaseNotStarted,
			}, nil
		})

	s.route(IntentJoinRoom, map[string]string{"roomId": s.roomID, "participantId": "alice"})

	s.Equal(models.EventPlayersResponse, s.nextEvent().Type)

	e := s.nextEvent()
	s.Equal(models.EventGameStatus, e.Type)
	var snap JoinSnapshot
	s.Require().NoError(json.Unmarshal(e.Payload, &snap))
	s.Equal(s.roomID, snap.Room.ID)
	s.Len(snap.Players, 1)
	s.Equal(s.roomID, s.hub.RoomOf("conn-1"))
}

func (s *HandlerTestSuite) TestJoinRoom_FailureUnbinds() {
	s.mockRooms.EXPECT().
		JoinRoom(gomock.Any(), gomock.Any()).
		Return(nil, room.ErrRoomFull)

	s.route(IntentJoinRoom, map[string]string{"roomId": s.roomID, "participantId": "alice"})

	p := s.nextError()
	s.Equal("room_full", p.Reason)
	s.Equal(string(apperr.KindState), p.Kind)
	s.Equal("This room is full.", p.Message)
	s.Equal(string(IntentJoinRoom), p.Intent)
	s.Equal("", s.hub.RoomOf("conn-1"))
}

func (s *HandlerTestSuite) TestJoinRoom_ParticipantMustMatchToken() {
	s.route(IntentJoinRoom, map[string]string{"roomId": s.roomID, "participantId": "mallory"})

	p := s.nextError()
	s.Equal("participant_mismatch", p.Reason)
	s.Equal(string(apperr.KindValidation), p.Kind)
}

func (s *HandlerTestSuite) TestJoinRoom_SecondActiveRoomRejected() {
	s.bind()
	s.mockRooms.EXPECT().
		JoinRoom(gomock.Any(), &room.JoinRoomInput{
			RoomID:        "room-2",
			ParticipantID: "alice",
			DisplayName:   "Alice",
			ConnectionID:  "conn-1",
		}).
		Return(nil, room.ErrAlreadyInRoom)

	s.route(IntentJoinRoom, map[string]string{"roomId": "room-2", "participantId": "alice"})

	p := s.nextError()
	s.Equal("already_in_room", p.Reason)
	s.Equal(s.roomID, s.hub.RoomOf("conn-1"))

	s.hub.Broadcast("room-2", &models.Event{Type: models.EventReceiveMessage, RoomID: "room-2"})
	s.noEvent()
	s.hub.Broadcast(s.roomID, &models.Event{Type: models.EventReceiveMessage, RoomID: s.roomID})
	s.Equal(models.EventReceiveMessage, s.nextEvent().Type)
}

func (s *HandlerTestSuite) TestJoinRoom_MovesOnceRoomServiceAccepts() {
	// Bound to a room that has since ended; the room service clears the stale claim
	s.bind()
	s.mockRooms.EXPECT().
		JoinRoom(gomock.Any(), gomock.Any()).
		Return(&room.JoinRoomOutput{
			Room:   &models.Room{ID: "room-2", Status: models.RoomStatusLobby},
			Player: &models.Player{ID: "alice", DisplayName: "Alice", Online: true},
			Phase:  models.GamePhaseNotStarted,
		}, nil)

	s.route(IntentJoinRoom, map[string]string{"roomId": "room-2", "participantId": "alice"})

	s.Equal(models.EventGameStatus, s.nextEvent().Type)
	s.Equal("room-2", s.hub.RoomOf("conn-1"))

	s.hub.Broadcast(s.roomID, &models.Event{Type: models.EventReceiveMessage, RoomID: s.roomID})
	s.noEvent()
}

func (s *HandlerTestSuite) TestJoinRoom_EvictedWhileJoiningStartsGrace() {
	s.mockRooms.EXPECT().
		JoinRoom(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ *room.JoinRoomInput) (*room.JoinRoomOutput, error) {
			s.hub.evict([]*Client{s.client})
			return &room.JoinRoomOutput{
				Room:   &models.Room{ID: s.roomID},
				Player: &models.Player{ID: "alice"},
			}, nil
		})
	s.mockRooms.EXPECT().
		Disconnect(gomock.Any(), &room.DisconnectInput{
			RoomID:        s.roomID,
			ParticipantID: "alice",
			ConnectionID:  "conn-1",
		}).
		Return(&room.DisconnectOutput{}, nil)

	s.route(IntentJoinRoom, map[string]string{"roomId": s.roomID, "participantId": "alice"})

	_, open := <-s.client.send
	s.False(open)
}

func (s *HandlerTestSuite) TestRouteInbound_Malformed() {
	s.handler.RouteInbound(s.ctx, s.client, []byte("{not json"))
	s.Equal("malformed_intent", s.nextError().Reason)

	s.handler.RouteInbound(s.ctx, s.client, []byte(`{"type":"dance","payload":{}}`))
	p := s.nextError()
	s.Equal("unknown_intent", p.Reason)
	s.Equal("dance", p.Intent)

	s.route(IntentSendMessage, map[string]string{"text": "hi"})
	s.Equal("invalid_intent", s.nextError().Reason)

	s.route(IntentSendMessage, map[string]string{"text": "hi", "roomId": s.roomID, "kind": "shout"})
	s.Equal("invalid_intent", s.nextError().Reason)

	s.route(IntentSubmitAnswer, map[string]string{"questionId": "q1", "participantId": "alice", "answer": "a"})
	s.Equal("invalid_intent", s.nextError().Reason)
}

func (s *HandlerTestSuite) TestSendMessage_UsesAuthenticatedAuthor() {
	s.mockRooms.EXPECT().
		SendMessage(gomock.Any(), &room.SendMessageInput{
			RoomID:      s.roomID,
			AuthorID:    "alice",
			Text:        "hi",
			Kind:        models.MessageKindNormal,
			ClientMsgID: "c-1",
		}).
		Return(&room.SendMessageOutput{Message: &models.Message{ID: "m-1"}}, nil)

	s.route(IntentSendMessage, map[string]any{
		"id":        "c-1",
		"text":      "hi",
		"name":      "Someone Else",
		"kind":      "normal",
		"roomId":    s.roomID,
		"createdAt": "2020-01-01T00:00:00Z",
	})

	s.noEvent()
}

func (s *HandlerTestSuite) TestSendMessage_ErrorGoesToSenderOnly() {
	bob := NewClient(nil, "conn-2", "bob", "Bob", 4, nil)
	s.hub.Register(bob)
	s.bind()
	s.Require().NoError(s.hub.RegisterRoom("conn-2", s.roomID, "bob"))

	s.mockRooms.EXPECT().
		SendMessage(gomock.Any(), gomock.Any()).
		Return(nil, room.ErrMessageTooLong)

	s.route(IntentSendMessage, map[string]string{"text": "way too long", "roomId": s.roomID})

	s.Equal("message_too_long", s.nextError().Reason)
	s.Empty(bob.send)
}

func (s *HandlerTestSuite) TestTyping() {
	s.mockRooms.EXPECT().
		Typing(gomock.Any(), &room.TypingInput{RoomID: s.roomID, ParticipantID: "alice", Hint: "typing..."}).
		Return(&room.TypingOutput{}, nil)

	s.route(IntentTyping, map[string]string{"hint": "typing...", "roomId": s.roomID})
	s.noEvent()
}

func (s *HandlerTestSuite) TestSubmitAnswer_AckToSubmitter() {
	s.bind()
	s.mockRooms.EXPECT().
		SubmitAnswer(gomock.Any(), &room.SubmitAnswerInput{
			RoomID:        s.roomID,
			ParticipantID: "alice",
			QuestionID:    "q1",
			Answer:        "a",
			TimeTaken:     2 * time.Second,
		}).
		Return(&room.SubmitAnswerOutput{
			Ack: &models.AnswerAck{QuestionID: "q1", ParticipantID: "alice", Status: models.AckAccepted},
		}, nil)

	s.route(IntentSubmitAnswer, map[string]any{
		"questionId":    "q1",
		"participantId": "alice",
		"answer":        "a",
		"timeTaken":     2000,
	})

	e := s.nextEvent()
	s.Equal(models.EventAnswerAck, e.Type)
	var ack models.AnswerAck
	s.Require().NoError(json.Unmarshal(e.Payload, &ack))
	s.Equal(models.AckAccepted, ack.Status)
}

func (s *HandlerTestSuite) TestSubmitAnswer_TooLateIsAnAck() {
	s.bind()
	s.mockRooms.EXPECT().
		SubmitAnswer(gomock.Any(), gomock.Any()).
		Return(nil, room.ErrTooLate)

	s.route(IntentSubmitAnswer, map[string]any{
		"questionId":    "q1",
		"participantId": "alice",
		"answer":        "a",
		"timeTaken":     0,
	})

	e := s.nextEvent()
	s.Equal(models.EventAnswerAck, e.Type)
	var ack models.AnswerAck
	s.Require().NoError(json.Unmarshal(e.Payload, &ack))
	s.Equal(models.AckTooLate, ack.Status)
	s.Nil(ack.Points)
}

func (s *HandlerTestSuite) TestSubmitAnswer_NegativeTimeIsAnError() {
	s.bind()
	s.mockRooms.EXPECT().
		SubmitAnswer(gomock.Any(), gomock.Any()).
		Return(nil, room.ErrNegativeTimeTaken)

	s.route(IntentSubmitAnswer, map[string]any{
		"questionId":    "q1",
		"participantId": "alice",
		"answer":        "a",
		"timeTaken":     -5,
	})

	s.Equal("negative_time_taken", s.nextError().Reason)
}

func (s *HandlerTestSuite) TestSubmitAnswer_HugeTimeTakenIsInvalid() {
	s.bind()

	s.route(IntentSubmitAnswer, map[string]any{
		"questionId":    "q1",
		"participantId": "alice",
		"answer":        "a",
		"timeTaken":     int64(1) << 62,
	})

	s.Equal("invalid_intent", s.nextError().Reason)
}

func (s *HandlerTestSuite) TestSubmitAnswer_RequiresJoinedRoom() {
	s.route(IntentSubmitAnswer, map[string]any{
		"questionId":    "q1",
		"participantId": "alice",
		"answer":        "a",
		"timeTaken":     100,
	})

	s.Equal("not_in_room", s.nextError().Reason)
}

func (s *HandlerTestSuite) TestHostIntents() {
	s.mockRooms.EXPECT().
		AdvanceQuestion(gomock.Any(), &room.AdvanceQuestionInput{RoomID: s.roomID, ParticipantID: "alice"}).
		Return(&room.AdvanceQuestionOutput{}, nil)
	s.mockRooms.EXPECT().
		CloseQuestion(gomock.Any(), &room.CloseQuestionInput{RoomID: s.roomID, ParticipantID: "alice"}).
		Return(nil, room.ErrNotHost)
	s.mockRooms.EXPECT().
		EndRoom(gomock.Any(), &room.EndRoomInput{RoomID: s.roomID, ParticipantID: "alice"}).
		Return(&room.EndRoomOutput{}, nil)

	s.route(IntentNextQuestion, map[string]string{"roomId": s.roomID})
	s.noEvent()

	s.route(IntentCloseQuestion, map[string]string{"roomId": s.roomID})
	p := s.nextError()
	s.Equal("not_host", p.Reason)
	s.Equal("Only the host can do that.", p.Message)

	s.route(IntentEndRoom, map[string]string{"roomId": s.roomID})
	s.noEvent()
}

func (s *HandlerTestSuite) TestLeaveRoom_Unbinds() {
	s.bind()
	s.mockRooms.EXPECT().
		LeaveRoom(gomock.Any(), &room.LeaveRoomInput{RoomID: s.roomID, ParticipantID: "alice"}).
		Return(&room.LeaveRoomOutput{}, nil)

	s.route(IntentLeaveRoom, map[string]string{"roomId": s.roomID})

	s.noEvent()
	s.Equal("", s.hub.RoomOf("conn-1"))
}

func (s *HandlerTestSuite) TestServeHTTP_RejectsBadToken() {
	s.mockResolver.EXPECT().
		Resolve(gomock.Any(), "Bearer nope").
		Return(nil, identity.ErrInvalidToken)

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	header := http.Header{}
	header.Set("Authorization", "Bearer nope")
	_, resp, err := gorilla.DefaultDialer.Dial(wsURL(srv.URL), header)
	s.Require().Error(err)
	s.Require().NotNil(resp)
	s.Equal(http.StatusUnauthorized, resp.StatusCode)
}

func (s *HandlerTestSuite) TestServeHTTP_JoinThenCloseStartsGrace() {
	disconnected := make(chan *room.DisconnectInput, 1)

	s.mockResolver.EXPECT().
		Resolve(gomock.Any(), "good-token").
		Return(&identity.Identity{ParticipantID: "bob", DisplayName: "Bob"}, nil)
	s.mockUUID.EXPECT().NewUUID().Return("conn-ws")
	s.mockRooms.EXPECT().
		JoinRoom(gomock.Any(), gomock.Any()).
		Return(&room.JoinRoomOutput{
			Room:   &models.Room{ID: s.roomID},
			Player: &models.Player{ID: "bob"},
		}, nil)
	s.mockRooms.EXPECT().
		Disconnect(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, input *room.DisconnectInput) (*room.DisconnectOutput, error) {
			disconnected <- input
			return &room.DisconnectOutput{GraceStarted: true}, nil
		})

	srv := httptest.NewServer(s.handler)
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial(wsURL(srv.URL)+"?token=good-token", nil)
	s.Require().NoError(err)

	s.Require().NoError(conn.WriteJSON(map[string]any{
		"type":    IntentJoinRoom,
		"payload": map[string]string{"roomId": s.roomID, "participantId": "bob"},
	}))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var e wireEvent
	s.Require().NoError(conn.ReadJSON(&e))
	s.Equal(models.EventGameStatus, e.Type)
	s.Equal(s.roomID, e.RoomID)

	s.Require().NoError(conn.Close())

	select {
	case input := <-disconnected:
		s.Equal(&room.DisconnectInput{RoomID: s.roomID, ParticipantID: "bob", ConnectionID: "conn-ws"}, input)
	case <-time.After(2 * time.Second):
		s.FailNow("disconnect was not recorded")
	}
}

func (s *HandlerTestSuite) TestNewHandler_RequiresDependencies() {
	_, err := NewHandler(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = NewHandler(&HandlerConfig{})
	s.ErrorIs(err, ErrNilHub)
}

func TestOriginAllowed(t *testing.T) {
	cases := []struct {
		name    string
		allowed []string
		origin  string
		want    bool
	}{
		{"wildcard", []string{"*"}, "https://evil.example", true},
		{"no origin header", []string{"https://app.example"}, "", true},
		{"listed", []string{"https://app.example"}, "https://APP.example", true},
		{"not listed", []string{"https://app.example"}, "https://evil.example", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := originAllowed(tc.allowed, tc.origin); got != tc.want {
				t.Errorf("originAllowed(%v, %q) = %v, want %v", tc.allowed, tc.origin, got, tc.want)
			}
		})
	}
}

func wsURL(httpURL string) string {
	return "ws" + strings.TrimPrefix(httpURL, "http")
}

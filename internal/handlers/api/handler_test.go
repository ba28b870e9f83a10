package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/KirkDiggler/quizroom/internal/identity"
	identityMocks "github.com/KirkDiggler/quizroom/internal/identity/mocks"
	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/KirkDiggler/quizroom/internal/services/notification"
	notificationMocks "github.com/KirkDiggler/quizroom/internal/services/notification/mocks"
	"github.com/KirkDiggler/quizroom/internal/services/room"
	roomMocks "github.com/KirkDiggler/quizroom/internal/services/room/mocks"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type HandlerTestSuite struct {
	suite.Suite
	mockCtrl          *gomock.Controller
	mockRooms         *roomMocks.MockService
	mockNotifications *notificationMocks.MockService
	mockResolver      *identityMocks.MockResolver
	router            http.Handler

	// Test data
	token  string
	caller *identity.Identity
}

func TestHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(HandlerTestSuite))
}

func (s *HandlerTestSuite) SetupTest() {
	s.mockCtrl = gomock.NewController(s.T())
	s.mockRooms = roomMocks.NewMockService(s.mockCtrl)
	s.mockNotifications = notificationMocks.NewMockService(s.mockCtrl)
	s.mockResolver = identityMocks.NewMockResolver(s.mockCtrl)

	s.token = "Bearer good"
	s.caller = &identity.Identity{ParticipantID: "alice", DisplayName: "Alice"}
	s.mockResolver.EXPECT().Resolve(gomock.Any(), s.token).Return(s.caller, nil).AnyTimes()
	s.mockResolver.EXPECT().Resolve(gomock.Any(), gomock.Not(s.token)).Return(nil, identity.ErrInvalidToken).AnyTimes()

	h, err := New(&Config{
		RoomService:         s.mockRooms,
		NotificationService: s.mockNotifications,
		Identity:            s.mockResolver,
		WebSocket: http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		}),
	})
	s.Require().NoError(err)
	s.router = h.Routes()
}

func (s *HandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func (s *HandlerTestSuite) do(method, path, body string, authed bool) (*httptest.ResponseRecorder, *Response) {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if authed {
		req.Header.Set("Authorization", s.token)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)

	if rec.Body.Len() == 0 {
		return rec, nil
	}
	var resp Response
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec, &resp
}

func (s *HandlerTestSuite) TestHealthNeedsNoToken() {
	rec, resp := s.do(http.MethodGet, "/healthz", "", false)
	s.Equal(http.StatusOK, rec.Code)
	s.False(resp.Error)
}

func (s *HandlerTestSuite) TestWebSocketRouteIsMounted() {
	rec, _ := s.do(http.MethodGet, "/ws", "", false)
	s.Equal(http.StatusTeapot, rec.Code)
}

func (s *HandlerTestSuite) TestRequiresToken() {
	rec, resp := s.do(http.MethodGet, "/rooms/room-1", "", false)
	s.Equal(http.StatusUnauthorized, rec.Code)
	s.True(resp.Error)
	s.Equal("unauthorized", resp.Reason)
}

func (s *HandlerTestSuite) TestCreateRoom() {
	s.mockRooms.EXPECT().
		CreateRoom(gomock.Any(), &room.CreateRoomInput{
			HostID:   "alice",
			HostName: "Alice",
			GameID:   "game-1",
			Invitees: []string{"bob"},
		}).
		Return(&room.CreateRoomOutput{
			Room:          &models.Room{ID: "room-1", InviteCode: "ABC234", Status: models.RoomStatusLobby},
			QuestionCount: 5,
		}, nil)

	rec, resp := s.do(http.MethodPost, "/rooms", `{"gameId":"game-1","invitees":["bob"]}`, true)
	s.Equal(http.StatusCreated, rec.Code)
	s.False(resp.Error)

	data := resp.Data.(map[string]any)
	s.Equal(float64(5), data["questionCount"])
	s.Equal("ABC234", data["room"].(map[string]any)["inviteCode"])
}

func (s *HandlerTestSuite) TestCreateRoom_InvalidBody() {
	rec, resp := s.do(http.MethodPost, "/rooms", `{"invitees":["bob"]}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid_body", resp.Reason)

	rec, _ = s.do(http.MethodPost, "/rooms", `{"gameId":"g","extra":1}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)

	rec, _ = s.do(http.MethodPost, "/rooms", `{"gameId":"g","invitees":[""]}`, true)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerTestSuite) TestErrorKindsMapToStatus() {
	cases := []struct {
		err  error
		want int
	}{
		{room.ErrRoomNotFound, http.StatusNotFound},
		{room.ErrUnknownGame, http.StatusBadRequest},
		{room.ErrAlreadyInRoom, http.StatusConflict},
		{room.ErrRoomEnded, http.StatusConflict},
		{room.ErrStoreUnavailable, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		s.mockRooms.EXPECT().
			GetRoom(gomock.Any(), &room.GetRoomInput{RoomID: "room-1"}).
			Return(nil, tc.err)

		rec, resp := s.do(http.MethodGet, "/rooms/room-1", "", true)
		s.Equal(tc.want, rec.Code, tc.err.Error())
		s.True(resp.Error)
	}
}

func (s *HandlerTestSuite) TestGetRoomByInviteCode() {
	s.mockRooms.EXPECT().
		GetRoomByInviteCode(gomock.Any(), &room.GetRoomByInviteCodeInput{InviteCode: "abc234"}).
		Return(&room.GetRoomOutput{
			Room:        &models.Room{ID: "room-1"},
			Phase:       models.GamePhaseQuestionLive,
			PlayerCount: 2,
		}, nil)

	rec, resp := s.do(http.MethodGet, "/rooms/invite/abc234", "", true)
	s.Equal(http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	s.Equal("question_live", data["phase"])
	s.Equal(float64(2), data["playerCount"])
}

func (s *HandlerTestSuite) TestGetActiveRoom() {
	s.mockRooms.EXPECT().
		GetActiveRoom(gomock.Any(), &room.GetActiveRoomInput{ParticipantID: "alice"}).
		Return(&room.GetRoomOutput{
			Room:        &models.Room{ID: "room-1", Status: models.RoomStatusLive},
			Phase:       models.GamePhaseNotStarted,
			PlayerCount: 1,
		}, nil)

	rec, resp := s.do(http.MethodGet, "/me/room", "", true)
	s.Equal(http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	s.Equal("room-1", data["room"].(map[string]any)["id"])
	s.Equal(float64(1), data["playerCount"])
}

func (s *HandlerTestSuite) TestGetActiveRoom_NoneIsNotFound() {
	s.mockRooms.EXPECT().
		GetActiveRoom(gomock.Any(), &room.GetActiveRoomInput{ParticipantID: "alice"}).
		Return(nil, room.ErrNoActiveRoom)

	rec, resp := s.do(http.MethodGet, "/me/room", "", true)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("no_active_room", resp.Reason)
}

func (s *HandlerTestSuite) TestGetPlayersAndLeaderboard() {
	s.mockRooms.EXPECT().
		GetPresence(gomock.Any(), &room.GetPresenceInput{RoomID: "room-1"}).
		Return(&room.GetPresenceOutput{Players: []*models.Player{{ID: "alice"}, {ID: "bob"}}}, nil)
	s.mockRooms.EXPECT().
		GetLeaderboard(gomock.Any(), &room.GetLeaderboardInput{RoomID: "room-1"}).
		Return(&room.GetLeaderboardOutput{Entries: []*models.ScoreEntry{{PlayerID: "bob", Points: 89}}}, nil)

	rec, resp := s.do(http.MethodGet, "/rooms/room-1/players", "", true)
	s.Equal(http.StatusOK, rec.Code)
	s.Len(resp.Data, 2)

	rec, resp = s.do(http.MethodGet, "/rooms/room-1/leaderboard", "", true)
	s.Equal(http.StatusOK, rec.Code)
	entries := resp.Data.([]any)
	s.Require().Len(entries, 1)
	s.Equal(float64(89), entries[0].(map[string]any)["points"])
}

func (s *HandlerTestSuite) TestListNotifications() {
	s.mockNotifications.EXPECT().
		ListNotifications(gomock.Any(), &notification.ListNotificationsInput{UserID: "alice", AfterSeq: 3, Limit: 10}).
		Return(&notification.ListNotificationsOutput{
			Notifications: []*models.Notification{{ID: "n-4", Seq: 4, ToUserID: "alice", Payload: json.RawMessage(`{}`)}},
			LastSeq:       4,
		}, nil)

	rec, resp := s.do(http.MethodGet, "/notifications?after=3&limit=10", "", true)
	s.Equal(http.StatusOK, rec.Code)
	data := resp.Data.(map[string]any)
	s.Equal(float64(4), data["lastSeq"])
	s.Len(data["notifications"], 1)
}

func (s *HandlerTestSuite) TestListNotifications_BadCursor() {
	rec, resp := s.do(http.MethodGet, "/notifications?after=-1", "", true)
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Equal("invalid_query", resp.Reason)
}

func (s *HandlerTestSuite) TestMarkRead() {
	s.mockNotifications.EXPECT().
		MarkRead(gomock.Any(), &notification.MarkReadInput{UserID: "alice", NotificationID: "n-1"}).
		Return(nil)
	s.mockNotifications.EXPECT().
		MarkRead(gomock.Any(), &notification.MarkReadInput{UserID: "alice", NotificationID: "n-2"}).
		Return(notification.ErrNotificationNotFound)

	rec, _ := s.do(http.MethodPost, "/notifications/n-1/read", "", true)
	s.Equal(http.StatusNoContent, rec.Code)

	rec, resp := s.do(http.MethodPost, "/notifications/n-2/read", "", true)
	s.Equal(http.StatusNotFound, rec.Code)
	s.Equal("notification_not_found", resp.Reason)
}

func (s *HandlerTestSuite) TestNew_RequiresDependencies() {
	_, err := New(nil)
	s.ErrorIs(err, ErrNilConfig)

	_, err = New(&Config{RoomService: s.mockRooms})
	s.ErrorIs(err, ErrNilNotificationService)
}

func TestCallerMissingFromContext(t *testing.T) {
	if caller(context.Background()) != nil {
		t.Error("expected no caller on a bare context")
	}
}

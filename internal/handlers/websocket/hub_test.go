package websocket

import (
	"encoding/json"
	"testing"

	"github.com/KirkDiggler/quizroom/internal/models"
	"github.com/stretchr/testify/suite"
)

type HubTestSuite struct {
	suite.Suite
	hub *Hub
}

func TestHubTestSuite(t *testing.T) {
	suite.Run(t, new(HubTestSuite))
}

func (s *HubTestSuite) SetupTest() {
	s.hub = NewHub(nil)
}

func (s *HubTestSuite) newClient(connID, participantID string, buffer int) *Client {
	c := NewClient(nil, connID, participantID, participantID, buffer, nil)
	s.hub.Register(c)
	return c
}

func (s *HubTestSuite) drain(c *Client) []models.EventType {
	var types []models.EventType
	for {
		select {
		case data, ok := <-c.send:
			if !ok {
				return types
			}
			var e struct {
				Type models.EventType `json:"type"`
			}
			s.Require().NoError(json.Unmarshal(data, &e))
			types = append(types, e.Type)
		default:
			return types
		}
	}
}

func (s *HubTestSuite) TestBroadcast_OnlyReachesBoundConnections() {
	a := s.newClient("conn-a", "alice", 4)
	b := s.newClient("conn-b", "bob", 4)
	other := s.newClient("conn-c", "carol", 4)

	s.Require().NoError(s.hub.RegisterRoom("conn-a", "room-1", "alice"))
	s.Require().NoError(s.hub.RegisterRoom("conn-b", "room-1", "bob"))
	s.Require().NoError(s.hub.RegisterRoom("conn-c", "room-2", "carol"))

	s.hub.Broadcast("room-1", &models.Event{Type: models.EventReceiveMessage, RoomID: "room-1"})

	s.Equal([]models.EventType{models.EventReceiveMessage}, s.drain(a))
	s.Equal([]models.EventType{models.EventReceiveMessage}, s.drain(b))
	s.Empty(s.drain(other))
}

func (s *HubTestSuite) TestBroadcast_EvictsConnectionThatFallsBehind() {
	slow := s.newClient("conn-slow", "slow", 1)
	fast := s.newClient("conn-fast", "fast", 8)
	s.Require().NoError(s.hub.RegisterRoom("conn-slow", "room-1", "slow"))
	s.Require().NoError(s.hub.RegisterRoom("conn-fast", "room-1", "fast"))

	for i := 0; i < 3; i++ {
		s.hub.Broadcast("room-1", &models.Event{Type: models.EventReceiveMessage, RoomID: "room-1"})
	}

	// The slow connection keeps what it queued and then sees its buffer closed
	s.Len(s.drain(slow), 1)
	_, open := <-slow.send
	s.False(open)
	s.Len(s.drain(fast), 3)

	s.False(s.hub.Send("conn-slow", &models.Event{Type: models.EventError}))
	s.Equal(0, s.hub.SendToUser("slow", &models.Event{Type: models.EventError}))
	s.ErrorIs(s.hub.RegisterRoom("conn-slow", "room-1", "slow"), ErrUnknownConnection)

	// Unregister still reports the room so the close path can start the grace window
	s.Equal("room-1", s.hub.Unregister(slow))
	s.Equal("", s.hub.Unregister(slow))
}

func (s *HubTestSuite) TestSend_EvictsOnFullBuffer() {
	c := s.newClient("conn-a", "alice", 1)

	s.True(s.hub.Send("conn-a", &models.Event{Type: models.EventError}))
	s.False(s.hub.Send("conn-a", &models.Event{Type: models.EventError}))

	s.Len(s.drain(c), 1)
	_, open := <-c.send
	s.False(open)
}

func (s *HubTestSuite) TestAttach_ReachesRoomWithoutMovingBinding() {
	a := s.newClient("conn-a", "alice", 8)
	s.Require().NoError(s.hub.RegisterRoom("conn-a", "room-1", "alice"))
	s.Require().NoError(s.hub.Attach("conn-a", "room-2", "alice"))

	s.Equal("room-1", s.hub.RoomOf("conn-a"))
	s.hub.Broadcast("room-2", &models.Event{Type: models.EventPlayersResponse})
	s.Len(s.drain(a), 1)

	s.hub.Detach("conn-a", "room-2")
	s.hub.Broadcast("room-2", &models.Event{Type: models.EventPlayersResponse})
	s.Empty(s.drain(a))

	// Detaching the bound room is a no-op
	s.hub.Detach("conn-a", "room-1")
	s.hub.Broadcast("room-1", &models.Event{Type: models.EventPlayersResponse})
	s.Len(s.drain(a), 1)

	s.ErrorIs(s.hub.Attach("conn-a", "room-3", "mallory"), ErrWrongParticipant)
	s.ErrorIs(s.hub.Attach("conn-missing", "room-3", "alice"), ErrUnknownConnection)
}

func (s *HubTestSuite) TestSendToUser_ReachesEverySession() {
	phone := s.newClient("conn-phone", "alice", 4)
	laptop := s.newClient("conn-laptop", "alice", 4)
	s.newClient("conn-bob", "bob", 4)

	delivered := s.hub.SendToUser("alice", &models.Event{Type: models.EventNewGameNotification})
	s.Equal(2, delivered)
	s.Len(s.drain(phone), 1)
	s.Len(s.drain(laptop), 1)

	s.Equal(0, s.hub.SendToUser("nobody", &models.Event{Type: models.EventNewGameNotification}))
}

func (s *HubTestSuite) TestRegisterRoom_Errors() {
	s.newClient("conn-a", "alice", 4)

	s.ErrorIs(s.hub.RegisterRoom("conn-missing", "room-1", "alice"), ErrUnknownConnection)
	s.ErrorIs(s.hub.RegisterRoom("conn-a", "room-1", "mallory"), ErrWrongParticipant)
}

func (s *HubTestSuite) TestRegisterRoom_RebindMovesConnection() {
	a := s.newClient("conn-a", "alice", 4)
	s.Require().NoError(s.hub.RegisterRoom("conn-a", "room-1", "alice"))
	s.Require().NoError(s.hub.RegisterRoom("conn-a", "room-2", "alice"))

	s.hub.Broadcast("room-1", &models.Event{Type: models.EventReceiveMessage})
	s.Empty(s.drain(a))

	s.Equal("room-2", s.hub.RoomOf("conn-a"))
}

func (s *HubTestSuite) TestUnregister_ClosesAndUnbinds() {
	a := s.newClient("conn-a", "alice", 4)
	s.Require().NoError(s.hub.RegisterRoom("conn-a", "room-1", "alice"))

	s.Equal("room-1", s.hub.Unregister(a))
	s.Equal("", s.hub.Unregister(a))

	_, open := <-a.send
	s.False(open)

	s.False(s.hub.Send("conn-a", &models.Event{Type: models.EventError}))
	s.hub.Broadcast("room-1", &models.Event{Type: models.EventReceiveMessage})
	s.Equal(0, s.hub.SendToUser("alice", &models.Event{Type: models.EventError}))
}

func (s *HubTestSuite) TestUnregisterRoom_IgnoresOtherRoom() {
	s.newClient("conn-a", "alice", 4)
	s.Require().NoError(s.hub.RegisterRoom("conn-a", "room-1", "alice"))

	s.hub.UnregisterRoom("conn-a", "room-2")
	s.Equal("room-1", s.hub.RoomOf("conn-a"))

	s.hub.UnregisterRoom("conn-a", "room-1")
	s.Equal("", s.hub.RoomOf("conn-a"))
}

package websocket

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/KirkDiggler/quizroom/internal/models"
)

var (
	// ErrUnknownConnection is returned when binding a connection the hub does not hold
	ErrUnknownConnection = errors.New("unknown connection")

	// ErrWrongParticipant is returned when a connection is bound for someone else
	ErrWrongParticipant = errors.New("connection belongs to another participant")
)

// HubConfig holds configuration for the hub
type HubConfig struct {
	Logger *slog.Logger
}

// Hub tracks live connections and which room each one is bound to.
// It implements room.Publisher and notification.SessionPublisher.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
	rooms   map[string]map[string]*Client
	users   map[string]map[string]*Client
	log     *slog.Logger
}

// NewHub creates an empty hub
func NewHub(cfg *HubConfig) *Hub {
	logger := slog.Default()
	if cfg != nil && cfg.Logger != nil {
		logger = cfg.Logger
	}

	return &Hub{
		clients: make(map[string]*Client),
		rooms:   make(map[string]map[string]*Client),
		users:   make(map[string]map[string]*Client),
		log:     logger.With("component", "hub"),
	}
}

// Register adds a connection and indexes it by participant
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[c.id] = c
	addTo(h.users, c.participantID, c)

	h.log.Debug("connection registered",
		"connection_id", c.id,
		"participant_id", c.participantID)
}

// Unregister drops a connection from every index and closes its send buffer.
// It returns the room the connection was bound to, if any.
func (h *Hub) Unregister(c *Client) string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[c.id]; !ok {
		return ""
	}

	roomID := c.roomID
	if roomID != "" {
		removeFrom(h.rooms, roomID, c.id)
		c.roomID = ""
	}
	removeFrom(h.users, c.participantID, c.id)
	delete(h.clients, c.id)
	if !c.evicted {
		close(c.send)
	}

	h.log.Debug("connection unregistered",
		"connection_id", c.id,
		"participant_id", c.participantID,
		"room_id", roomID)

	return roomID
}

// RegisterRoom binds a connection to a room; a connection is bound to at most one room
func (h *Hub) RegisterRoom(connID, roomID, participantID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.lookup(connID, participantID)
	if err != nil {
		return err
	}

	if c.roomID != "" && c.roomID != roomID {
		removeFrom(h.rooms, c.roomID, connID)
	}
	c.roomID = roomID
	addTo(h.rooms, roomID, c)

	return nil
}

// Attach adds a connection to a room's fan-out without moving its binding.
// A join attaches first so the joiner sees its own join broadcasts, then
// either RegisterRoom moves the binding or Detach undoes the attach.
func (h *Hub) Attach(connID, roomID, participantID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, err := h.lookup(connID, participantID)
	if err != nil {
		return err
	}
	addTo(h.rooms, roomID, c)
	return nil
}

// Detach removes an attach made by Attach; the room the connection is bound to is left alone
func (h *Hub) Detach(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok || c.roomID == roomID {
		return
	}
	removeFrom(h.rooms, roomID, connID)
}

func (h *Hub) lookup(connID, participantID string) (*Client, error) {
	c, ok := h.clients[connID]
	if !ok || c.evicted {
		return nil, ErrUnknownConnection
	}
	if c.participantID != participantID {
		return nil, ErrWrongParticipant
	}
	return c, nil
}

// UnregisterRoom unbinds a connection if it is still bound to roomID
func (h *Hub) UnregisterRoom(connID, roomID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[connID]
	if !ok || c.roomID != roomID {
		return
	}
	removeFrom(h.rooms, roomID, connID)
	c.roomID = ""
}

// RoomOf returns the room a connection is bound to
func (h *Hub) RoomOf(connID string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if c, ok := h.clients[connID]; ok {
		return c.roomID
	}
	return ""
}

// Broadcast marshals the event once and offers it to every connection bound to the room
func (h *Hub) Broadcast(roomID string, event *models.Event) {
	data, ok := h.marshal(event)
	if !ok {
		return
	}

	var slow []*Client
	h.mu.RLock()
	for _, c := range h.rooms[roomID] {
		if !h.offer(c, event.Type, data) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	h.evict(slow)
}

// SendToUser offers the event to every live session of a participant and returns how many took it
func (h *Hub) SendToUser(userID string, event *models.Event) int {
	data, ok := h.marshal(event)
	if !ok {
		return 0
	}

	var slow []*Client
	delivered := 0
	h.mu.RLock()
	for _, c := range h.users[userID] {
		if h.offer(c, event.Type, data) {
			delivered++
		} else {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	h.evict(slow)
	return delivered
}

// Send offers the event to a single connection
func (h *Hub) Send(connID string, event *models.Event) bool {
	data, ok := h.marshal(event)
	if !ok {
		return false
	}

	h.mu.RLock()
	c, found := h.clients[connID]
	if !found || c.evicted {
		h.mu.RUnlock()
		return false
	}
	sent := h.offer(c, event.Type, data)
	h.mu.RUnlock()

	if !sent {
		h.evict([]*Client{c})
	}
	return sent
}

func (h *Hub) marshal(event *models.Event) ([]byte, bool) {
	data, err := json.Marshal(event)
	if err != nil {
		h.log.Error("failed to marshal event",
			"type", event.Type,
			"room_id", event.RoomID,
			"error", err)
		return nil, false
	}
	return data, true
}

// offer never blocks. Callers hold at least the read lock, so the send
// channel is not closed underneath.
func (h *Hub) offer(c *Client, eventType models.EventType, data []byte) bool {
	if c.evicted {
		return false
	}
	select {
	case c.send <- data:
		return true
	default:
		h.log.Warn("send buffer full, evicting connection",
			"connection_id", c.id,
			"participant_id", c.participantID,
			"type", eventType)
		return false
	}
}

// evict cuts off connections that could not keep up. Closing the send buffer
// makes the write pump close the socket, and the read side then unregisters
// the connection and starts the grace window for its room. The connection
// stays in the client index until then so Unregister still reports its room.
func (h *Hub) evict(slow []*Client) {
	if len(slow) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for _, c := range slow {
		if c.evicted || h.clients[c.id] != c {
			continue
		}
		c.evicted = true
		for roomID, members := range h.rooms {
			if _, ok := members[c.id]; ok {
				removeFrom(h.rooms, roomID, c.id)
			}
		}
		removeFrom(h.users, c.participantID, c.id)
		close(c.send)
	}
}

func addTo(index map[string]map[string]*Client, key string, c *Client) {
	set, ok := index[key]
	if !ok {
		set = make(map[string]*Client)
		index[key] = set
	}
	set[c.id] = c
}

func removeFrom(index map[string]map[string]*Client, key, connID string) {
	set, ok := index[key]
	if !ok {
		return
	}
	delete(set, connID)
	if len(set) == 0 {
		delete(index, key)
	}
}

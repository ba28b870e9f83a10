package websocket

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 * 1024

	defaultSendBuffer = 256
)

// Client is one websocket connection of an authenticated participant
type Client struct {
	id            string
	participantID string
	displayName   string
	conn          *websocket.Conn
	send          chan []byte
	log           *slog.Logger

	// roomID and evicted are guarded by the hub lock
	roomID  string
	evicted bool
}

// NewClient wraps an upgraded connection; conn may be nil for connections driven directly in tests
func NewClient(conn *websocket.Conn, id, participantID, displayName string, sendBuffer int, logger *slog.Logger) *Client {
	if sendBuffer <= 0 {
		sendBuffer = defaultSendBuffer
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		id:            id,
		participantID: participantID,
		displayName:   displayName,
		conn:          conn,
		send:          make(chan []byte, sendBuffer),
		log:           logger.With("connection_id", id, "participant_id", participantID),
	}
}

// ReadPump reads frames until the connection fails and hands each text frame to handle.
// Frames are handled one at a time, so intents from one connection are applied in order.
func (c *Client) ReadPump(handle func(data []byte)) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("websocket closed unexpectedly", "error", err)
			} else {
				c.log.Debug("websocket closed", "error", err)
			}
			return
		}

		if messageType != websocket.TextMessage {
			c.log.Debug("ignoring non-text frame", "message_type", messageType)
			continue
		}

		handle(data)
	}
}

// WritePump drains the send buffer to the socket and keeps the connection alive with pings
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Warn("failed to write to websocket", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.log.Debug("failed to ping websocket", "error", err)
				return
			}
		}
	}
}

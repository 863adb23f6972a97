package server

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

// Connection streams one subscription to a WebSocket client
type Connection struct {
	conn      *websocket.Conn
	sub       *Subscription
	service   *GameService
	logger    *log.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewConnection creates a new connection wrapper that ends with parent
func NewConnection(parent context.Context, conn *websocket.Conn, sub *Subscription, service *GameService, logger *log.Logger) *Connection {
	ctx, cancel := context.WithCancel(parent)

	return &Connection{
		conn:    conn,
		sub:     sub,
		service: service,
		logger:  logger.WithPrefix("conn").With("game", sub.GameID, "viewer", sub.Viewer),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Run serves the connection until either side goes away
func (c *Connection) Run() {
	defer func() { _ = c.Close() }()
	go c.readPump()
	c.writePump()
}

// Close closes the connection and drops the subscription
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		c.service.Hub().Unsubscribe(c.sub)
		err = c.conn.Close()
	})
	return err
}

// readPump only watches for the peer closing; clients do not send commands
// over the stream.
func (c *Connection) readPump() {
	defer c.cancel()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			return
		}
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case snap, ok := <-c.sub.C:
			if !ok {
				c.writeFinal()
				return
			}

			msg, err := NewMessage(MessageTypeState, snap, c.service.Clock().Now())
			if err != nil {
				c.logger.Error("Failed to encode snapshot", "error", err)
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Debug("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "server closing"))
			return
		}
	}
}

// writeFinal explains why the stream ended and closes it
func (c *Connection) writeFinal() {
	var msg *Message
	if c.service.Exists(c.sub.GameID) {
		msg, _ = NewMessage(MessageTypeError, ErrorData{
			Code:    "subscriber_lagging",
			Message: "connection fell too far behind",
		}, c.service.Clock().Now())
	} else {
		msg, _ = NewMessage(MessageTypeDiscarded, MessageResponse{
			Message: "game discarded",
			GameID:  c.sub.GameID,
		}, c.service.Clock().Now())
	}

	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = c.conn.WriteJSON(msg)
	_ = c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, string(msg.Type)))
}

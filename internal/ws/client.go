package ws

import (
	"context"
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/rpsarena-go/internal/protocol"
	"github.com/mcoot/rpsarena-go/internal/session"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 4096
	sendBufferSize = 32
)

// Client is one websocket connection. Outbound events go through a buffered
// channel drained by the write pump, so per-client delivery order matches
// send order without the hub blocking on any socket.
type Client struct {
	id      string
	conn    *websocket.Conn
	hub     *Hub
	tracker *session.Tracker
	send    chan protocol.Message
	done    chan struct{}
	logger  *slog.Logger
}

func newClient(id string, conn *websocket.Conn, hub *Hub, tracker *session.Tracker, logger *slog.Logger) *Client {
	return &Client{
		id:      id,
		conn:    conn,
		hub:     hub,
		tracker: tracker,
		send:    make(chan protocol.Message, sendBufferSize),
		done:    make(chan struct{}),
		logger:  logger.With(slog.String("conn", id)),
	}
}

// ID returns the connection's unique identifier
func (c *Client) ID() string {
	return c.id
}

// Send queues an event for delivery. If the client's buffer is full the
// connection is closed; the read pump then runs the disconnect path.
func (c *Client) Send(msg protocol.Message) {
	select {
	case <-c.done:
	case c.send <- msg:
	default:
		c.logger.Warn("send buffer full, dropping connection")
		c.conn.Close()
	}
}

// readPump owns the socket's read side. It blocks until the connection
// drops, then tears down the client.
func (c *Client) readPump(ctx context.Context) {
	defer func() {
		close(c.done)
		c.hub.unregister(c)
		c.tracker.HandleDisconnect(ctx, c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.logger.Warn("unexpected close", slog.Any("error", err))
			}
			return
		}

		msg, err := protocol.DecodeInbound(data)
		if err != nil {
			c.Send(protocol.NewError(err.Error()))
			continue
		}
		c.tracker.HandleMessage(ctx, c, msg)
	}
}

// writePump owns the socket's write side, draining the send channel and
// keeping the connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				c.logger.Warn("write failed", slog.Any("error", err))
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"uno_server/internal/logger"
	"uno_server/internal/service"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
)

// Dispatcher receives what a connection asks for.
type Dispatcher interface {
	Connect(ctx context.Context, connID string)
	Handle(ctx context.Context, connID string, cmd service.Command) error
	Disconnect(ctx context.Context, connID string)
}

type Client struct {
	ID   string
	conn *websocket.Conn
	hub  *Hub
	send chan []byte
	log  *slog.Logger
}

func NewClient(id string, conn *websocket.Conn, hub *Hub, buffer int) *Client {
	if buffer <= 0 {
		buffer = 256
	}
	return &Client{
		ID:   id,
		conn: conn,
		hub:  hub,
		send: make(chan []byte, buffer),
		log:  logger.With("component", "client", "conn", id),
	}
}

// Run serves the connection until it closes. The write pump runs in its
// own goroutine; reads happen on the caller's.
func (c *Client) Run(ctx context.Context, d Dispatcher) {
	c.hub.Register(c)
	go c.writePump()

	d.Connect(ctx, c.ID)
	c.readPump(ctx, d)

	if c.hub.Unregister(c) {
		d.Disconnect(ctx, c.ID)
	}
	c.log.Info("connection closed")
}

func (c *Client) readPump(ctx context.Context, d Dispatcher) {
	defer c.conn.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("read error", "error", err)
			}
			return
		}

		var frame inbound
		if err := json.Unmarshal(msg, &frame); err != nil || frame.Type == "" {
			c.reply(msgInvalidFrame)
			continue
		}
		cmd, err := service.DecodeCommand(frame.Type, frame.Payload)
		if err != nil {
			if errors.Is(err, service.ErrUnknownCommand) {
				c.reply(err.Error())
			} else {
				c.reply(msgInvalidFrame)
			}
			c.log.Debug("rejected frame", "type", frame.Type, "error", err)
			continue
		}
		_ = d.Handle(ctx, c.ID, cmd)
	}
}

func (c *Client) reply(message string) {
	c.hub.Send(c.ID, service.EventError, service.ErrorPayload{Message: message})
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				c.log.Warn("write error", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

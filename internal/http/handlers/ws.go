package handlers

import (
	"context"
	"net/http"

	"uno_server/internal/logger"
	"uno_server/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// WS upgrades to a WebSocket. With tickets enabled the connection id comes
// from the signed ticket, otherwise a fresh id is assigned.
func (h *Handler) WS(c *gin.Context) {
	connID := uuid.NewString()
	if h.Tickets != nil {
		ticket := c.Query("ticket")
		if ticket == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "ticket required"})
			return
		}
		id, err := h.Tickets.Parse(ticket)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid ticket"})
			return
		}
		connID = id
	}

	allowedOrigin := h.AllowedOrigin
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.WithContext(c.Request.Context()).Warn("ws upgrade error", "error", err)
		return
	}

	// the connection outlives the request
	ctx := logger.NewContext(context.WithoutCancel(c.Request.Context()), "conn", connID)
	client := ws.NewClient(connID, conn, h.Hub, h.SendBuffer)
	go client.Run(ctx, h.Dispatcher)
}

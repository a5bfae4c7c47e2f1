package handlers

import (
	"net/http"

	"uno_server/internal/logger"

	"github.com/gin-gonic/gin"
)

// Ticket issues a signed connection ticket for /ws.
func (h *Handler) Ticket(c *gin.Context) {
	if h.Tickets == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "tickets are disabled"})
		return
	}

	connID, token, err := h.Tickets.Issue()
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("issue ticket failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue ticket"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ticket":       token,
		"connectionId": connID,
	})
}

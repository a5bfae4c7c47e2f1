package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"uno_server/internal/logger"

	"github.com/gin-gonic/gin"
)

// History returns recent finished games a player took part in.
func (h *Handler) History(c *gin.Context) {
	if h.HistoryRepo == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "history is disabled"})
		return
	}

	name := strings.TrimSpace(c.Query("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name required"})
		return
	}

	limit := h.HistoryLimit
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		if limit <= 0 || n < limit {
			limit = n
		}
	}

	games, err := h.HistoryRepo.GetByPlayerName(c.Request.Context(), name, limit)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("load history failed", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	wins, err := h.HistoryRepo.CountWins(c.Request.Context(), name)
	if err != nil {
		logger.WithContext(c.Request.Context()).Error("count wins failed", "name", name, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"games": games, "wins": wins})
}

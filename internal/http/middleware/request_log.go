package middleware

import (
	"strconv"
	"time"

	"uno_server/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const requestIDHeader = "X-Request-ID"

// RequestLogger tags each request with an id, puts it on the request
// context for logger.WithContext and logs one line when the request ends.
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Header(requestIDHeader, id)
		c.Request = c.Request.WithContext(logger.NewContext(c.Request.Context(), "request_id", id))

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()
		HTTPRequests.WithLabelValues(route, strconv.Itoa(status/100)+"xx").Inc()

		logger.WithContext(c.Request.Context()).Debug("http request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", status,
			"duration", time.Since(start),
		)
	}
}

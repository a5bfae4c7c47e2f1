package http

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"uno_server/internal/http/handlers"
	"uno_server/internal/http/middleware"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	redis "github.com/redis/go-redis/v9"
)

// Deps is everything the routes need. Redis may be nil.
type Deps struct {
	Handler *handlers.Handler
	Health  *handlers.HealthHandler
	Redis   *redis.Client

	APIRateLimit  int
	APIRateWindow time.Duration
	StaticDir     string
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middleware.RequestLogger())

	// Health checks (no rate limiting)
	r.GET("/health", d.Health.Health)
	r.GET("/healthz", d.Health.Liveness)
	r.GET("/readyz", d.Health.Readiness)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// WebSocket for UNO rooms
	r.GET("/ws", d.Handler.WS)

	// API v1 routes
	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(d.Redis, d.APIRateLimit, d.APIRateWindow))
	v1.GET("/ticket", d.Handler.Ticket)
	v1.GET("/history", d.Handler.History)

	registerStatic(r, d.StaticDir)
}

// registerStatic serves the browser client. Unknown paths fall back to
// index.html so client-side routes work.
func registerStatic(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	if _, err := os.Stat(dir); err != nil {
		return
	}

	index := filepath.Join(dir, "index.html")
	fs := gin.Dir(dir, false)
	r.NoRoute(func(c *gin.Context) {
		path := c.Request.URL.Path
		if strings.HasPrefix(path, "/api/") {
			c.JSON(404, gin.H{"error": "not found"})
			return
		}
		if path != "/" {
			if f, err := fs.Open(path); err == nil {
				stat, statErr := f.Stat()
				f.Close()
				if statErr == nil && !stat.IsDir() {
					c.FileFromFS(path, fs)
					return
				}
			}
		}
		c.File(index)
	})
}

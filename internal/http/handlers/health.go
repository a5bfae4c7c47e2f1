package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
)

// Check pings one dependency.
type Check func(ctx context.Context) error

// HealthHandler handles health check endpoints
type HealthHandler struct {
	checks    map[string]Check
	stats     func() map[string]int
	startTime time.Time
	version   string
}

// NewHealthHandler creates a new health handler. checks are keyed by the
// name reported in the response; stats may be nil.
func NewHealthHandler(version string, checks map[string]Check, stats func() map[string]int) *HealthHandler {
	return &HealthHandler{
		checks:    checks,
		stats:     stats,
		startTime: time.Now(),
		version:   version,
	}
}

// HealthResponse is the readiness report: dependency checks by name and
// live counters of the game server.
type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version,omitempty"`
	Uptime        string            `json:"uptime,omitempty"`
	Timestamp     string            `json:"timestamp"`
	Checks        map[string]string `json:"checks,omitempty"`
	Stats         map[string]int    `json:"stats,omitempty"`
	MemoryAllocMB string            `json:"memory_alloc_mb"`
}

// Liveness returns simple alive status (for k8s liveness probe)
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Readiness returns detailed health status (for k8s readiness probe)
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	for _, name := range h.checkNames() {
		if err := h.checks[name](ctx); err != nil {
			checks[name] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks[name] = "healthy"
		}
	}

	var stats map[string]int
	if h.stats != nil {
		stats = h.stats()
	}

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	status := "healthy"
	statusCode := http.StatusOK
	if !allHealthy {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, HealthResponse{
		Status:        status,
		Version:       h.version,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Checks:        checks,
		Stats:         stats,
		MemoryAllocMB: formatMB(m.Alloc),
	})
}

// Health is a combined endpoint for basic health checks
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	for _, name := range h.checkNames() {
		if err := h.checks[name](ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  name + " unavailable",
			})
			return
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"version": h.version,
	})
}

func (h *HealthHandler) checkNames() []string {
	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func formatMB(bytes uint64) string {
	mb := float64(bytes) / 1024 / 1024
	return fmt.Sprintf("%.2f", mb)
}

package http

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"uno_server/internal/http/handlers"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRouter(t *testing.T, staticDir string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, Deps{
		Handler:       &handlers.Handler{},
		Health:        handlers.NewHealthHandler("test", nil, nil),
		APIRateLimit:  100,
		APIRateWindow: time.Minute,
		StaticDir:     staticDir,
	})
	return r
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestStaticFallback(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>uno</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))

	r := newRouter(t, dir)

	w := get(r, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uno")

	w = get(r, "/app.js")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "console.log")

	w = get(r, "/room/ABC123")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "uno")

	w = get(r, "/api/v1/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCoreRoutes(t *testing.T) {
	r := newRouter(t, "")

	assert.Equal(t, http.StatusOK, get(r, "/healthz").Code)
	assert.Equal(t, http.StatusOK, get(r, "/metrics").Code)
	assert.Equal(t, http.StatusNotFound, get(r, "/api/v1/ticket").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(r, "/api/v1/history?name=a").Code)
}

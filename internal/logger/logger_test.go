package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARN"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("nonsense"))
}

func TestWithContextAddsAttributes(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "debug", true)
	t.Cleanup(func() { Init("info", false) })

	ctx := NewContext(context.Background(), "conn", "abc")
	ctx = NewContext(ctx, "room", "ROOM42")
	WithContext(ctx).Info("hello")

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "hello", rec["msg"])
	assert.Equal(t, "abc", rec["conn"])
	assert.Equal(t, "ROOM42", rec["room"])
}

func TestLevelFilters(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", false)
	t.Cleanup(func() { Init("info", false) })

	Info("dropped")
	assert.Zero(t, buf.Len())
	Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

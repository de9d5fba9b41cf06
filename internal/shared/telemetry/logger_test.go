package telemetry

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	prev := Logger()
	var buf bytes.Buffer
	SetLogger(newLogger(&buf))
	t.Cleanup(func() { SetLogger(prev) })
	return &buf
}

func TestInfoWritesJSONLine(t *testing.T) {
	buf := capture(t)
	Info("analysis.status", map[string]any{"analysis_id": "a-1", "status": "completed"})

	var payload map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &payload))
	assert.Equal(t, "analysis.status", payload["msg"])
	assert.Equal(t, "info", payload["level"])
	assert.Equal(t, "a-1", payload["analysis_id"])
	assert.NotEmpty(t, payload["ts"])
}

func TestErrorLevel(t *testing.T) {
	buf := capture(t)
	Error("http.error", nil)
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func TestInitWithFile(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, Init("warn", path))
	Info("dropped", nil)
	Warn("kept", map[string]any{"k": 1})

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], `"msg":"kept"`)
}

func TestInitBadLevelFallsBackToInfo(t *testing.T) {
	prev := Logger()
	t.Cleanup(func() { SetLogger(prev) })

	err := Init("loud", "")
	require.Error(t, err)
	assert.Equal(t, "info", Logger().GetLevel().String())
}

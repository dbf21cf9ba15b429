package logger

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

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "warn")
	require.NoError(t, err)

	log.Info("skipped %d", 1)
	log.Warn("slot %s taken", "09:00")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "slot 09:00 taken", entry["message"])
}

func TestLoggerWith(t *testing.T) {
	var buf bytes.Buffer
	log, err := NewWithWriter(&buf, "debug")
	require.NoError(t, err)

	log.With("request_id", "abc").Error("boom")
	assert.Contains(t, buf.String(), `"request_id":"abc"`)
}

func TestNewWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "service.log")

	log, err := New(path, "info")
	require.NoError(t, err)
	log.Info("hello %s", "file")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello file")
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := New("", "loud")
	assert.Error(t, err)
}

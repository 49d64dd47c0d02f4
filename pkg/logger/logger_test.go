package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := NewWithWriter(&buf, "warn")

	log.Info("CreateReservation: hall=%d", 1)
	log.Warn("CreateReservation: slot taken hall=%d", 2)
	log.Error("CreateReservation: failed: %v", "db down")

	out := buf.String()
	assert.NotContains(t, out, "[INFO]")
	assert.Contains(t, out, "[WARN] CreateReservation: slot taken hall=2")
	assert.Contains(t, out, "[ERROR] CreateReservation: failed: db down")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, LevelWarn, ParseLevel("warning"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelInfo, ParseLevel("whatever"))
}

func TestNew_WithFile(t *testing.T) {
	file := filepath.Join(t.TempDir(), "app.log")

	log, err := New(file, "info")
	require.NoError(t, err)
	log.Info("hello")
	require.NoError(t, log.Close())

	assert.FileExists(t, file)
}

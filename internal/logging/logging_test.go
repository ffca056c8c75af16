package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, ParseLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, ParseLevel(" WARN "))
	assert.Equal(t, zapcore.ErrorLevel, ParseLevel("error"))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel(""))
	assert.Equal(t, zapcore.InfoLevel, ParseLevel("verbose"))
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Level: "info", Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	log.Debug("hidden")
	log.Info("synced", zap.Int("items", 3))
	require.NoError(t, log.Sync())

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "synced", entry["msg"])
	assert.Equal(t, "info", entry["level"])
	assert.EqualValues(t, 3, entry["items"])
	assert.Contains(t, entry, "ts")
}

func TestNew_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "streamiz.log")
	var buf bytes.Buffer
	log, err := New(Options{Level: "debug", File: path, MaxSizeMB: 1, Output: zapcore.AddSync(&buf)})
	require.NoError(t, err)

	log.Warn("mirror save failed")
	require.NoError(t, log.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "mirror save failed")
	assert.Contains(t, buf.String(), "mirror save failed")
}

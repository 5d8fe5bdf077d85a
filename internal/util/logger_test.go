package util

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLogLevel("debug"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("WARNING"))
	assert.Equal(t, zerolog.WarnLevel, parseLogLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, parseLogLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel(""))
	assert.Equal(t, zerolog.InfoLevel, parseLogLevel("chatty"))
}

func TestNewLogger_File(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "app.log")

	logger, closer, err := NewLogger("info", logFile, false)
	require.NoError(t, err)
	logger.Info().Msg("loaded archive")
	logger.Debug().Msg("hidden")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "loaded archive")
	assert.NotContains(t, string(data), "hidden")
}

func TestNewLogger_RequiresOutput(t *testing.T) {
	_, _, err := NewLogger("info", "", false)
	require.Error(t, err)

	_, closer, err := NewLogger("debug", "", true)
	require.NoError(t, err)
	assert.NoError(t, closer.Close())
}

func TestGlobalHelpers(t *testing.T) {
	var buf bytes.Buffer
	previous := Logger()
	SetLogger(zerolog.New(&buf).Level(zerolog.DebugLevel))
	defer SetLogger(previous)

	LogInfof("records=%d", 6)
	LogWarn("bad ts")
	LogDebugf("file %s", "2024-01-01")
	LogErrorf("failed: %v", "boom")

	out := buf.String()
	assert.Contains(t, out, `"level":"info","message":"records=6"`)
	assert.Contains(t, out, `"level":"warn","message":"bad ts"`)
	assert.Contains(t, out, `"message":"file 2024-01-01"`)
	assert.Contains(t, out, `"level":"error"`)
}

func TestInitAndCloseLogger(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.log")
	second := filepath.Join(dir, "second.log")

	require.NoError(t, InitLogger("info", first, false))
	// Already initialized, so the second file is not opened
	require.NoError(t, InitLogger("info", second, false))
	LogInfo("first run")
	require.NoError(t, CloseLogger())
	LogInfo("after close")

	require.NoError(t, InitLogger("info", second, false))
	LogInfo("second run")
	require.NoError(t, CloseLogger())
	assert.NoError(t, CloseLogger())

	data, err := os.ReadFile(first)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first run")
	assert.NotContains(t, string(data), "after close")
	assert.NotContains(t, string(data), "second run")

	data, err = os.ReadFile(second)
	require.NoError(t, err)
	assert.Contains(t, string(data), "second run")
}

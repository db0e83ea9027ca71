package infrastructure

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"movieweek/internal/config"
)

func decodeLine(t *testing.T, line []byte) map[string]interface{} {
	t.Helper()
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(line, &entry))
	return entry
}

func resetGlobalLogger(t *testing.T) {
	t.Helper()
	_ = CloseLogFile()
	globalLogger = nil
	globalLoggerOnce = sync.Once{}

	previous := slog.Default()
	t.Cleanup(func() {
		_ = CloseLogFile()
		globalLogger = nil
		globalLoggerOnce = sync.Once{}
		slog.SetDefault(previous)
	})
}

func TestInitializeLogger_FileOutput(t *testing.T) {
	resetGlobalLogger(t)

	logFile := filepath.Join(t.TempDir(), "nested", "movieweek.log")

	logger, err := InitializeLogger(config.LoggingConfig{
		Level:    "info",
		Format:   "json",
		Output:   "file",
		FilePath: logFile,
	})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Info("analysis complete", "rows", 12)
	require.NoError(t, CloseLogFile())

	content, err := os.ReadFile(logFile)
	require.NoError(t, err)

	entry := decodeLine(t, bytes.TrimSpace(content))
	assert.Equal(t, "analysis complete", entry["msg"])
	assert.Equal(t, float64(12), entry["rows"])
	assert.Equal(t, "INFO", entry["level"])
}

func TestInitializeLogger_OnlyOnce(t *testing.T) {
	resetGlobalLogger(t)

	first, err := InitializeLogger(config.LoggingConfig{Level: "info", Output: "stderr"})
	require.NoError(t, err)

	second, err := InitializeLogger(config.LoggingConfig{Level: "debug", Output: "console"})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Same(t, first, slog.Default())
}

func TestNewLogger_TraceIDInjection(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: "info", Format: "json"})

	ctx := WithTraceID(context.Background(), "trace-abc")
	logger.InfoContext(ctx, "with trace")
	logger.Info("without trace")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Equal(t, "trace-abc", decodeLine(t, lines[0])["trace_id"])
	_, has := decodeLine(t, lines[1])["trace_id"]
	assert.False(t, has)
}

func TestNewLogger_TextFormatAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: "warn", Format: "text"})

	logger.Info("hidden")
	logger.Warn("shown", slog.String("component", "loader"))

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "msg=shown")
	assert.Contains(t, out, "component=loader")
}

func TestNewLogger_WithAttrsKeepsTrace(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, config.LoggingConfig{Level: "debug"}).With(slog.String("component", "pipeline"))

	logger.DebugContext(WithTraceID(context.Background(), "t-1"), "stage done")

	entry := decodeLine(t, bytes.TrimSpace(buf.Bytes()))
	assert.Equal(t, "pipeline", entry["component"])
	assert.Equal(t, "t-1", entry["trace_id"])
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, parseLogLevel(tt.input))
		})
	}
}

func TestTraceIDHelpers(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, GetTraceID(ctx))

	ensured := EnsureTraceID(ctx)
	id := GetTraceID(ensured)
	assert.Len(t, id, 36)
	assert.Equal(t, 4, strings.Count(id, "-"))

	assert.Equal(t, id, GetTraceID(EnsureTraceID(ensured)))
}

func TestOpenLogFile_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a", "b", "app.log")

	f, err := openLogFile(path)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

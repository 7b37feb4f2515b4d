package log

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DefaultConfig(t *testing.T) {
	t.Parallel()

	logger := New(nil)
	assert.NotNil(t, logger)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo), "default level is warn")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
}

func TestNew_JSONOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{
		Output: &buf,
		Level:  slog.LevelInfo,
		Format: FormatJSON,
	})

	logger.Info("test message", "key", "value")

	var logEntry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))

	assert.Contains(t, logEntry, "ts")
	assert.NotContains(t, logEntry, "time")
	assert.Contains(t, logEntry, "level")
	assert.Equal(t, "test message", logEntry["msg"])
	assert.Equal(t, "value", logEntry["key"])
}

func TestNew_TextOutput(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf, Level: slog.LevelInfo})

	logger.Info("hello", "key", "value")

	line := buf.String()
	assert.True(t, strings.HasPrefix(line, "ts="), line)
	assert.Contains(t, line, "msg=hello")
	assert.Contains(t, line, "key=value")
}

func TestNew_DebugLevel(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{
		Output: &buf,
		Level:  slog.LevelError,
		Debug:  true,
	})

	logger.Debug("debug message")

	assert.Contains(t, buf.String(), "debug message")
}

func TestNew_WarnLevel_HidesInfo(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf, Level: slog.LevelWarn})

	logger.Info("info message")
	logger.Debug("debug message")

	assert.Empty(t, buf.String())
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("VAULTPICK_DEBUG", "1")
	assert.True(t, NewFromEnv().Enabled(context.Background(), slog.LevelDebug))

	t.Setenv("VAULTPICK_DEBUG", "")
	assert.False(t, NewFromEnv().Enabled(context.Background(), slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		name    string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{"warn", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"WARN", slog.LevelWarn, false},
		{"loud", slog.LevelWarn, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLevel(tt.name)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "vaultpick.log")

	f, err := OpenFile(path)
	require.NoError(t, err)
	logger := New(&Config{Output: f, Level: slog.LevelInfo})
	logger.Info("first")
	require.NoError(t, f.Close())

	f, err = OpenFile(path)
	require.NoError(t, err)
	New(&Config{Output: f, Level: slog.LevelInfo}).Info("second")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=first")
	assert.Contains(t, string(data), "msg=second", "file is appended to")
}

func TestLogHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := New(&Config{Output: &buf, Level: slog.LevelDebug, Format: FormatJSON})

	LogRunStart(logger, RunInfo{Version: "1.0.0", PickerBackend: "command", Sources: []string{"env"}, PID: 42})
	LogRunFinished(logger, "copied", nil)
	LogRunFinished(logger, "cancelled", errors.New("no selection made"))
	LogSourceFailed(logger, "systemd", errors.New("boom"))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 4)

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "run started", entry["msg"])
	assert.Equal(t, "command", entry["picker_backend"])
	assert.EqualValues(t, 42, entry["pid"])

	require.NoError(t, json.Unmarshal([]byte(lines[2]), &entry))
	assert.Equal(t, "cancelled", entry["outcome"])
	assert.Equal(t, "no selection made", entry["error"])

	require.NoError(t, json.Unmarshal([]byte(lines[3]), &entry))
	assert.Equal(t, "WARN", entry["level"])
	assert.Equal(t, "systemd", entry["source"])
}

package logging

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/dots/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logPath := filepath.Join(t.TempDir(), "logs", "dots.log")

			got := SetupLogger(Options{Verbosity: tt.verbosity, Console: io.Discard, LogFile: logPath})

			assert.Equal(t, logPath, got)
			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestSetupLogger_DefaultsToStateDir(t *testing.T) {
	stateDir := filepath.Join(t.TempDir(), "custom-state")
	t.Setenv("XDG_STATE_HOME", filepath.Join(t.TempDir(), "xdg-state"))
	t.Setenv(paths.EnvDotsStateDir, stateDir)

	got := SetupLogger(Options{Console: io.Discard})

	assert.Equal(t, filepath.Join(stateDir, paths.LogFileName), got)
	assert.Equal(t, paths.New().LogFilePath(), got)
	assert.FileExists(t, got)
}

func TestSetupLogger_UnwritableLogFile(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0644))
	var console bytes.Buffer

	SetupLogger(Options{Console: &console, LogFile: filepath.Join(blocker, "dots.log")})

	assert.Contains(t, console.String(), "Logging to console only")
}

func TestLevelFor(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, LevelFor(-1))
	assert.Equal(t, zerolog.InfoLevel, LevelFor(1))
	assert.Equal(t, zerolog.TraceLevel, LevelFor(9))
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := GetLogger(Resolver)
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), `"component":"resolver"`)
	assert.Contains(t, buf.String(), `"message":"hello"`)
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	logger := zerolog.New(&buf)

	done := LogOperationStart(logger, "resolve")
	done()

	assert.Contains(t, buf.String(), "Operation started")
	assert.Contains(t, buf.String(), "Operation completed")
	assert.Contains(t, buf.String(), `"duration"`)
}

package logging

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"factbot/internal/config"
)

func TestSetup_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"bogus", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := Setup(config.LoggingConfig{Level: tt.level})
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.GetLevel())
		})
	}
}

func TestSetup_CreatesLogDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	logger, err := Setup(config.LoggingConfig{Level: "info", Dir: dir})
	require.NoError(t, err)

	logger.Info().Msg("hello")

	assert.DirExists(t, dir)
}

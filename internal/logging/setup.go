// Package logging configures the zerolog output for the process.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"factbot/internal/config"
)

// Setup builds the process logger from the logging configuration.
// Console output always goes to stderr; when a log directory is
// configured, output is duplicated into a rotating file as well.
func Setup(cfg config.LoggingConfig) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	console := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}

	var out io.Writer = console
	if cfg.Dir != "" {
		if err := os.MkdirAll(cfg.Dir, 0o700); err != nil {
			return zerolog.Nop(), fmt.Errorf("failed to create logs directory: %w", err)
		}
		fileWriter := &lumberjack.Logger{
			Filename:   filepath.Join(cfg.Dir, "factbot.log"),
			MaxSize:    10, // MiB
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		}
		out = io.MultiWriter(console, fileWriter)
	}

	logger := zerolog.New(out).Level(level).With().Timestamp().Logger()

	if err != nil {
		logger.Warn().Str("invalid_level", cfg.Level).Msg("Invalid log level, using info")
	}
	return logger, nil
}

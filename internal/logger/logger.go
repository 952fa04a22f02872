// Package logger builds the zerolog logger shared by the HTTP layer, the
// database bootstrap and the service.
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"reviewapi/internal/config"
)

// New returns a logger writing to stdout and installs it as the global zerolog logger.
func New(env string, cfg config.LogConfig) zerolog.Logger {
	l := NewWithWriter(env, cfg, os.Stdout)
	log.Logger = l
	zerolog.SetGlobalLevel(l.GetLevel())
	return l
}

// NewWithWriter builds a logger for w. APP_ENV=dev (or LOG_FORMAT=console)
// switches to a human-friendly console writer.
func NewWithWriter(env string, cfg config.LogConfig, w io.Writer) zerolog.Logger {
	if env == "dev" || env == "development" || strings.EqualFold(cfg.Format, "console") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(parseLevel(cfg.Level)).With().Timestamp().Logger()
}

func parseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

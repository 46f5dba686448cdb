package config

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// NewLogger builds the process logger and installs it as the zerolog
// global so packages logging through zerolog/log pick it up.
func NewLogger(cfg Config) zerolog.Logger {
	var w io.Writer = os.Stdout
	if cfg.LogFormat == LogFormatConsole {
		w = zerolog.ConsoleWriter{Out: os.Stdout}
	}

	zerolog.SetGlobalLevel(cfg.LogLevel)
	l := zerolog.New(w).With().Timestamp().Caller().Logger()
	log.Logger = l
	return l
}

package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// InitLogger builds the application logger: human readable console output in
// development, JSON lines elsewhere. Unknown levels fall back to info.
func InitLogger(env, level string) zerolog.Logger {
	return New(os.Stderr, env, level)
}

func New(out io.Writer, env, level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}

	if env == "development" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Str("env", env).Logger()
}

// Package logging configures structured JSON logging with correlation
// IDs, so every log line of a conversion can be traced back to the
// request that started it.
package logging

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const correlationField = "correlation_id"

// Setup builds the root logger. Level parsing is forgiving: unknown
// names fall back to info.
func Setup(level string, pretty bool) zerolog.Logger {
	var out io.Writer = os.Stderr
	if pretty {
		out = zerolog.ConsoleWriter{Out: os.Stderr}
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	return zerolog.New(out).
		Level(parseLevel(level)).
		With().
		Timestamp().
		Str("service", "ksef-processor").
		Logger()
}

func parseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithCorrelationID attaches a fresh correlation ID to the context's
// logger and returns the ID for response headers and error messages.
func WithCorrelationID(ctx context.Context, log zerolog.Logger) (context.Context, string) {
	id := uuid.NewString()
	scoped := log.With().Str(correlationField, id).Logger()
	return scoped.WithContext(ctx), id
}

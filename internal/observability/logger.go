package observability

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a JSON logger on stdout. level is a slog level name
// ("debug", "info", "warn", "error"); when empty or unknown, development logs
// at debug and every other env at info. Records logged with a request context
// carry its request id, actor and span.
func NewLogger(env, level string) *slog.Logger {
	return newLogger(os.Stdout, env, level)
}

func levelFor(env, level string) slog.Level {
	var l slog.Level
	if level != "" && l.UnmarshalText([]byte(level)) == nil {
		return l
	}
	if env == "development" {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func newLogger(w io.Writer, env, level string) *slog.Logger {
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     levelFor(env, level),
		AddSource: env == "development",
	})

	return slog.New(NewContextHandler(handler))
}

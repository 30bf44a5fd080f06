package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LevelTrace sits below Debug for per-probe scanner output.
const LevelTrace = slog.Level(-8)

// New returns a logger configured with a text handler writing to w at level.
func New(w io.Writer, level slog.Level) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.LevelKey {
				if lv, ok := a.Value.Any().(slog.Level); ok && lv == LevelTrace {
					a.Value = slog.StringValue("TRACE")
				}
			}
			return a
		},
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// ParseLevel accepts any prefix of trace, debug, info, warning or error.
func ParseLevel(value string) (slog.Level, error) {
	lv := strings.ToLower(strings.TrimSpace(value))
	if lv == "" {
		return slog.LevelInfo, nil
	}
	switch {
	case strings.HasPrefix("trace", lv):
		return LevelTrace, nil
	case strings.HasPrefix("debug", lv):
		return slog.LevelDebug, nil
	case strings.HasPrefix("info", lv):
		return slog.LevelInfo, nil
	case strings.HasPrefix("warning", lv):
		return slog.LevelWarn, nil
	case strings.HasPrefix("error", lv):
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log level %q must be a prefix of trace, debug, info, warning or error", value)
}

type ctxKey struct{}

// NewContext returns a copy of ctx with the logger stored.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// FromContext retrieves a logger from ctx or returns slog.Default().
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return l
	}
	return slog.Default()
}

package fat

import (
	"context"
	"log/slog"
)

// slogLevelTrace sits one notch below slog.LevelDebug, matching the
// teacher's convention for wire-level tracing that's too noisy even for
// ordinary debug logging.
const slogLevelTrace = slog.LevelDebug - 2

func trace(l *slog.Logger, msg string, args ...any) {
	if l == nil {
		return
	}
	l.Log(context.Background(), slogLevelTrace, msg, args...)
}

func debugLog(l *slog.Logger, msg string, args ...any) {
	if l == nil {
		return
	}
	l.Debug(msg, args...)
}

func warn(l *slog.Logger, msg string, args ...any) {
	if l == nil {
		return
	}
	l.Warn(msg, args...)
}

func logerror(l *slog.Logger, msg string, args ...any) {
	if l == nil {
		return
	}
	l.Error(msg, args...)
}


package logger

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

type Logger struct {
	l *slog.Logger
}

func NewWithLevel(w io.Writer, level slog.Level) *Logger {
	h := tint.NewHandler(w, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	})
	return &Logger{l: slog.New(h)}
}

// Discard returns a logger that drops everything, for tests.
func Discard() *Logger { return NewWithLevel(io.Discard, slog.LevelError+1) }

// ParseLevel maps debug, info, warn and error to a slog level. Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// With returns a logger that adds the given key/value pairs to every record.
func (l *Logger) With(args ...any) *Logger { return &Logger{l: l.l.With(args...)} }

func (l *Logger) Debugf(format string, args ...any) {
	l.l.Debug(fmt.Sprintf(format, args...))
}
func (l *Logger) Infof(format string, args ...any) {
	l.l.Info(fmt.Sprintf(format, args...))
}
func (l *Logger) Warnf(format string, args ...any) {
	l.l.Warn(fmt.Sprintf(format, args...))
}
func (l *Logger) Errorf(format string, args ...any) {
	l.l.Error(fmt.Sprintf(format, args...))
}

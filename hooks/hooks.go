// Package hooks provides ready-made logger adapters for the library's
// core.Logger interface.
package hooks

import (
	"log/slog"

	"github.com/rs/zerolog"
)

// SlogLogger adapts a *slog.Logger to core.Logger.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps a *slog.Logger. A nil logger falls back to
// slog.Default().
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogLogger{logger: logger}
}

func (l *SlogLogger) Debug(msg string, fields ...interface{}) { l.logger.Debug(msg, fields...) }
func (l *SlogLogger) Info(msg string, fields ...interface{})  { l.logger.Info(msg, fields...) }
func (l *SlogLogger) Warn(msg string, fields ...interface{})  { l.logger.Warn(msg, fields...) }
func (l *SlogLogger) Error(msg string, fields ...interface{}) { l.logger.Error(msg, fields...) }

// ZerologLogger adapts a zerolog.Logger to core.Logger.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger wraps a zerolog.Logger.
func NewZerologLogger(logger zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: logger}
}

func (l *ZerologLogger) Debug(msg string, fields ...interface{}) {
	l.emit(l.logger.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields ...interface{}) {
	l.emit(l.logger.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields ...interface{}) {
	l.emit(l.logger.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields ...interface{}) {
	l.emit(l.logger.Error(), msg, fields)
}

// emit attaches key/value pairs to the event. A trailing key without a
// value is logged as-is under the "extra" key.
func (l *ZerologLogger) emit(ev *zerolog.Event, msg string, fields []interface{}) {
	for i := 0; i+1 < len(fields); i += 2 {
		key, ok := fields[i].(string)
		if !ok {
			ev = ev.Interface("field", fields[i]).Interface("value", fields[i+1])
			continue
		}
		ev = ev.Interface(key, fields[i+1])
	}
	if len(fields)%2 != 0 {
		ev = ev.Interface("extra", fields[len(fields)-1])
	}
	ev.Msg(msg)
}

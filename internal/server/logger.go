package server

import (
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// Logger interface for structured logging
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
}

// Field represents a structured log field
type Field struct {
	Key   string
	Value interface{}
}

const maxLoggedValue = 100

// ZerologLogger adapts a zerolog.Logger to Logger
type ZerologLogger struct {
	log zerolog.Logger
}

func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{log: l}
}

func NewConsoleLogger(w io.Writer, level zerolog.Level) *ZerologLogger {
	out := zerolog.ConsoleWriter{Out: w, TimeFormat: "2006-01-02 15:04:05.000"}
	return NewZerologLogger(zerolog.New(out).Level(level).With().Timestamp().Logger())
}

func (l *ZerologLogger) Debug(msg string, fields ...Field) {
	emit(l.log.Debug(), msg, fields)
}

func (l *ZerologLogger) Info(msg string, fields ...Field) {
	emit(l.log.Info(), msg, fields)
}

func (l *ZerologLogger) Warn(msg string, fields ...Field) {
	emit(l.log.Warn(), msg, fields)
}

func (l *ZerologLogger) Error(msg string, fields ...Field) {
	emit(l.log.Error(), msg, fields)
}

// emit is a no-op when e is nil (level disabled)
func emit(e *zerolog.Event, msg string, fields []Field) {
	if e == nil {
		return
	}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case error:
			e = e.AnErr(f.Key, v)
		case string:
			e = e.Str(f.Key, sanitizeValue(v))
		case time.Duration:
			e = e.Dur(f.Key, v)
		case int:
			e = e.Int(f.Key, v)
		case int64:
			e = e.Int64(f.Key, v)
		case fmt.Stringer:
			e = e.Str(f.Key, sanitizeValue(v.String()))
		default:
			e = e.Interface(f.Key, v)
		}
	}
	e.Msg(msg)
}

// Request data is echoed into logs; keep lines bounded.
func sanitizeValue(s string) string {
	if len(s) > maxLoggedValue {
		return s[:maxLoggedValue] + "...[truncated]"
	}
	return s
}

// NullLogger discards all logs (for testing)
type NullLogger struct{}

func (NullLogger) Debug(string, ...Field) {}
func (NullLogger) Info(string, ...Field)  {}
func (NullLogger) Warn(string, ...Field)  {}
func (NullLogger) Error(string, ...Field) {}

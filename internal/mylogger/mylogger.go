package mylogger

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
)

const (
	LevelDebug string = "DEBUG"
	LevelInfo  string = "INFO"
	LevelWarn  string = "WARN"
	LevelError string = "ERROR"
)

type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, err error, args ...any)
	Action(action string) Logger
	With(args ...any) Logger
	WithGroup(groupName string) Logger
}

// New builds a JSON logger tagged with the service name, hostname and a
// per-process instance id so log lines from different services sharing one
// box stay distinguishable.
func New(service, logLevel string) (Logger, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	level := new(slog.LevelVar)
	switch logLevel {
	case LevelDebug:
		level.Set(slog.LevelDebug)
	case LevelInfo:
		level.Set(slog.LevelInfo)
	case LevelWarn:
		level.Set(slog.LevelWarn)
	case LevelError:
		level.Set(slog.LevelError)
	default:
		level.Set(slog.LevelInfo)
	}

	var out io.Writer = os.Stdout

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.MessageKey {
				return slog.Attr{Key: "message", Value: a.Value}
			}
			if a.Key == slog.TimeKey {
				if t, ok := a.Value.Any().(time.Time); ok {
					return slog.Attr{Key: "timestamp", Value: slog.StringValue(t.Format(time.RFC3339))}
				}
			}
			return a
		},
	})

	log := slog.New(handler).With(
		"service", service,
		"hostname", hostname,
		"instance_id", uuid.NewString()[:8],
	)
	return &logger{log: log}, nil
}

type logger struct {
	log *slog.Logger
}

func (l *logger) Debug(msg string, args ...any) {
	l.log.Debug(msg, args...)
}

func (l *logger) Info(msg string, args ...any) {
	l.log.Info(msg, args...)
}

func (l *logger) Warn(msg string, args ...any) {
	l.log.Warn(msg, args...)
}

// Error logs with the wrapped error and a short stack.
func (l *logger) Error(msg string, err error, args ...any) {
	frames := captureFrames(5, 8)

	attrs := append(args, slog.Group("error",
		slog.Any("msg", err),
		slog.Any("stack", frames),
	))

	l.log.Error(msg, attrs...)
}

func (l logger) Action(action string) Logger {
	l.log = l.log.With("action", action)
	return &l
}

func (l logger) With(args ...any) Logger {
	l.log = l.log.With(args...)
	return &l
}

func (l logger) WithGroup(groupName string) Logger {
	l.log = l.log.WithGroup(groupName)
	return &l
}

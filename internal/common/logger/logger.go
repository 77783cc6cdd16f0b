package logger

import (
	"context"
	"log/slog"
	"os"
)

// Logger emits action-keyed JSON entries on stdout. Every entry carries the
// service name and hostname so mixed-mode deployments stay greppable.
type Logger struct {
	service  string
	hostname string
	sl       *slog.Logger
}

func New(service string) *Logger {
	hostname, _ := os.Hostname()
	return &Logger{
		service:  service,
		hostname: hostname,
		sl:       slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})),
	}
}

func (l *Logger) log(level slog.Level, action string, err error, fields map[string]any) {
	attrs := []slog.Attr{
		slog.String("service", l.service),
		slog.String("hostname", l.hostname),
		slog.String("action", action),
	}
	for k, v := range fields {
		attrs = append(attrs, slog.Any(k, v))
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	l.sl.LogAttrs(context.Background(), level, action, attrs...)
}

func (l *Logger) Info(action string, fields map[string]any)  { l.log(slog.LevelInfo, action, nil, fields) }
func (l *Logger) Debug(action string, fields map[string]any) { l.log(slog.LevelDebug, action, nil, fields) }
func (l *Logger) Error(action string, err error, fields map[string]any) {
	l.log(slog.LevelError, action, err, fields)
}

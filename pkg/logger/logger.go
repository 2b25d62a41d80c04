package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

const (
	DEBUG int = iota
	INFO
	WARNING
	ERROR
	SILENCE
)

type Logger interface {
	Debugf(msg string, a ...any)
	Infof(msg string, a ...any)
	Warnf(msg string, a ...any)
	Errorf(msg string, a ...any)
}

type defaultLogger struct {
	level int
	inner *logrus.Logger
}

// NewLogger creates a text logger writing to stderr at the given level.
func NewLogger(level int) *defaultLogger {
	return NewLoggerWithOptions(level, "text", os.Stderr)
}

func NewLoggerWithOptions(level int, format string, out io.Writer) *defaultLogger {
	inner := logrus.New()
	inner.SetOutput(out)
	inner.SetLevel(logrus.DebugLevel)

	if format == "json" {
		inner.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02 15:04:05"})
	} else {
		inner.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: "2006-01-02 15:04:05"})
	}

	return &defaultLogger{level: level, inner: inner}
}

// ParseLevel converts a level name to its value. Unknown names fall back to
// INFO.
func ParseLevel(s string) int {
	switch s {
	case "debug":
		return DEBUG
	case "warning", "warn":
		return WARNING
	case "error":
		return ERROR
	case "silence":
		return SILENCE
	default:
		return INFO
	}
}

func (l *defaultLogger) Debugf(msg string, a ...any) {
	if l.level <= DEBUG {
		l.inner.Debugf(msg, a...)
	}
}

func (l *defaultLogger) Infof(msg string, a ...any) {
	if l.level <= INFO {
		l.inner.Infof(msg, a...)
	}
}

func (l *defaultLogger) Warnf(msg string, a ...any) {
	if l.level <= WARNING {
		l.inner.Warnf(msg, a...)
	}
}

func (l *defaultLogger) Errorf(msg string, a ...any) {
	if l.level <= ERROR {
		l.inner.Errorf(msg, a...)
	}
}

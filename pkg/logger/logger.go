package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Logger wraps logrus logger
type Logger struct {
	*logrus.Logger
}

// New creates a new logger instance.
func New() *Logger {
	log := logrus.New()

	log.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})
	log.SetOutput(os.Stderr)
	log.SetLevel(logrus.InfoLevel)

	return &Logger{Logger: log}
}

// WithComponent returns an entry tagged with the component name.
func (l *Logger) WithComponent(component string) *logrus.Entry {
	return l.WithField("component", component)
}

// SetLevelFromString applies a configured level name, keeping the current
// level when the name is unknown.
func (l *Logger) SetLevelFromString(level string) {
	parsed, err := logrus.ParseLevel(level)
	if err != nil {
		l.Warnf("Unknown log level %q, keeping %s", level, l.GetLevel())
		return
	}
	l.SetLevel(parsed)
}

// Discard silences the logger. Used by tests.
func (l *Logger) Discard() *Logger {
	l.SetOutput(io.Discard)
	return l
}

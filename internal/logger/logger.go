package logger

import (
	"os"

	"github.com/sirupsen/logrus"
)

// Logger is the shared structured logger. Output is JSON on stdout; the
// level comes from LOG_LEVEL.
var Logger = logrus.New()

func init() {
	Logger.SetOutput(os.Stdout)
	Logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	SetLevel(os.Getenv("LOG_LEVEL"))
}

// SetLevel applies a named log level, defaulting to info.
func SetLevel(level string) {
	switch level {
	case "debug":
		Logger.SetLevel(logrus.DebugLevel)
	case "warn":
		Logger.SetLevel(logrus.WarnLevel)
	case "error":
		Logger.SetLevel(logrus.ErrorLevel)
	default:
		Logger.SetLevel(logrus.InfoLevel)
	}
}

// WithFields creates an entry with the given fields.
func WithFields(fields logrus.Fields) *logrus.Entry {
	return Logger.WithFields(fields)
}

// WithField creates an entry with a single field.
func WithField(key string, value interface{}) *logrus.Entry {
	return Logger.WithField(key, value)
}

// WithError creates an entry with an error field.
func WithError(err error) *logrus.Entry {
	return Logger.WithError(err)
}

// Info logs an info message.
func Info(msg string) { Logger.Info(msg) }

// Warn logs a warning message.
func Warn(msg string) { Logger.Warn(msg) }

// Error logs an error message.
func Error(msg string) { Logger.Error(msg) }

// Debug logs a debug message.
func Debug(msg string) { Logger.Debug(msg) }

package logger

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

var log = newLogger(os.Stdout, logrus.InfoLevel)

func newLogger(out io.Writer, level logrus.Level) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(out)
	l.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: "2006-01-02T15:04:05.000Z",
	})
	l.SetLevel(level)
	return l
}

// Init configures the package logger. Unknown levels fall back to info.
func Init(level string) {
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	log.SetLevel(logLevel)
}

// SetOutput redirects log output, mostly so tests and the CLI can silence it.
func SetOutput(w io.Writer) {
	log.SetOutput(w)
}

func Debug(args ...interface{}) {
	log.Debug(args...)
}

func Info(args ...interface{}) {
	log.Info(args...)
}

func Warn(args ...interface{}) {
	log.Warn(args...)
}

func Error(args ...interface{}) {
	log.Error(args...)
}

func WithFields(fields logrus.Fields) *logrus.Entry {
	return log.WithFields(fields)
}

// Logger exposes the underlying logger for middleware that needs a writer.
func Logger() *logrus.Logger {
	return log
}

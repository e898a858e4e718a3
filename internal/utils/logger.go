package utils

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// NewLogger creates a logger writing to stdout at the given level
func NewLogger(level string) *logrus.Logger {
	return newLogger(os.Stdout, level)
}

// NewStderrLogger is used by one-shot CLI commands so that logs never mix
// with rendered results on stdout
func NewStderrLogger(level string) *logrus.Logger {
	return newLogger(os.Stderr, level)
}

// DiscardLogger returns a logger that drops everything
func DiscardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newLogger(w io.Writer, level string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	return logger
}

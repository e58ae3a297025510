package utils

import (
	"os"
	"sync"

	"github.com/sirupsen/logrus"
)

var (
	logger     *logrus.Logger
	loggerOnce sync.Once
)

// GetLogger returns a singleton logger instance configured from LOG_LEVEL
// and LOG_FORMAT.
func GetLogger() *logrus.Logger {
	loggerOnce.Do(func() {
		logger = NewLogger(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
	})
	return logger
}

// NewLogger builds a logger writing to stdout. format is "json" (default)
// or "text".
func NewLogger(level, format string) *logrus.Logger {
	l := logrus.New()

	if level == "" {
		level = "info"
	}
	logLevel, err := logrus.ParseLevel(level)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	l.SetLevel(logLevel)

	if format == "text" {
		l.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	} else {
		l.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	l.SetOutput(os.Stdout)
	return l
}

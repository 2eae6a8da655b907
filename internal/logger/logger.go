package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	once   sync.Once
	logger *zerolog.Logger
)

// Get returns the singleton logger instance, initializing it on first call.
func Get() *zerolog.Logger {
	once.Do(func() {
		logger = newLogger()
	})
	return logger
}

// newLogger builds a logger from LOG_LEVEL (default info) and ENV: console
// output for development, JSON otherwise.
func newLogger() *zerolog.Logger {
	level := zerolog.InfoLevel
	if s := os.Getenv("LOG_LEVEL"); s != "" {
		if parsed, err := zerolog.ParseLevel(strings.ToLower(s)); err == nil {
			level = parsed
		} else {
			fmt.Fprintf(os.Stderr, "Invalid LOG_LEVEL %q; defaulting to 'info'\n", s)
		}
	}

	var zl zerolog.Logger
	switch os.Getenv("ENV") {
	case "", "dev", "development":
		zl = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "2006-01-02 15:04:05"})
	default:
		zl = zerolog.New(os.Stderr)
	}
	zl = zl.Level(level).With().Timestamp().Logger()
	return &zl
}

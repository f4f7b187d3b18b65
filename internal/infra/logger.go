package infra

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// Logger aliases zerolog.Logger so packages can take a logger without
// importing zerolog themselves.
type Logger = zerolog.Logger

// NewLogger returns the service logger. Development gets a human readable
// console writer at debug level; every other environment logs JSON at info.
func NewLogger(appEnv string) Logger {
	level := zerolog.InfoLevel
	if appEnv == "development" {
		level = zerolog.DebugLevel
	}

	logger := zerolog.New(os.Stdout).
		Level(level).
		With().
		Timestamp().
		Str("service", "imagegw").
		Logger()

	if appEnv == "development" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger
}

// DiscardLogger is used where no logger was injected, mostly tests.
func DiscardLogger() Logger {
	return zerolog.New(io.Discard)
}

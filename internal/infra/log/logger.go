package log

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger returns a configured zerolog logger. Dev environments log at
// debug level.
func NewLogger(appEnv string) zerolog.Logger {
	level := zerolog.InfoLevel
	if appEnv == "dev" {
		level = zerolog.DebugLevel
	}
	zerolog.TimeFieldFormat = time.RFC3339
	return zerolog.New(os.Stdout).With().Timestamp().Logger().Level(level)
}

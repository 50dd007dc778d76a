// Package logs builds the application's slog loggers from configuration.
package logs

import (
	"log/slog"
	"os"
	"strings"
)

func GetLoggerFromLevel(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
}

// GetLoggerFromString accepts debug/info/warn/error, defaulting to info
// for anything unrecognized.
func GetLoggerFromString(level string) *slog.Logger {
	switch strings.ToLower(level) {
	case "debug":
		return GetLoggerFromLevel(slog.LevelDebug)
	case "warn":
		return GetLoggerFromLevel(slog.LevelWarn)
	case "error":
		return GetLoggerFromLevel(slog.LevelError)
	default:
		return GetLoggerFromLevel(slog.LevelInfo)
	}
}

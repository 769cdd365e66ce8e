package platform

import (
	"log/slog"
	"os"

	"github.com/lmittmann/tint"
)

// InitLogger sets up the process-wide logger. Services log JSON; the CLI
// uses the tinted console handler so quote output stays readable.
func InitLogger(level slog.Level, console bool) *slog.Logger {
	var handler slog.Handler
	if console {
		handler = tint.NewHandler(os.Stderr, &tint.Options{Level: level})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// ParseLevel maps a config string to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func LogFatal(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, "error", err)
	os.Exit(1)
}

package observability

import (
	"errors"
	"log/slog"
	"os"
	"strings"

	"github.com/JRhoadhouse/TwitterExercise/internal/config"
)

// NewLogger builds the process-wide slog.Logger from config. LOG_FORMAT
// selects json or text handlers; anything unrecognized falls back to json.
func NewLogger(cfg *config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}

	var handler slog.Handler
	if strings.EqualFold(cfg.LogFormat, "text") {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LogErrorChain logs err and every wrapped cause beneath it, one line each,
// so nested failures (connection inside parse inside worker) stay legible in
// aggregated output. The source label identifies the component that caught it.
func LogErrorChain(logger *slog.Logger, source string, err error) {
	if err == nil {
		return
	}
	logger.Error("error encountered", "source", source, "error", err.Error())
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		logger.Error("caused by", "source", source, "error", cause.Error())
	}
}

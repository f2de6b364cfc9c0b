package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/slipstream-bet/converter/internal/pkg/config"
)

// SetupLogger configures the global slog logger for a service.
func SetupLogger(cfg *config.LoggingConfig, serviceName string) *slog.Logger {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Level),
	})

	logger := slog.New(handler).With("service", serviceName)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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

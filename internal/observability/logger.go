// Package observability wires structured logging and Prometheus metrics.
package observability

import (
	"log/slog"
	"os"

	"github.com/developia-II/interview-practice-backend/internal/config"
)

// SetupLogger configures a JSON slog logger with environment fields and
// installs it as the process default.
func SetupLogger(cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{}
	if cfg.IsDev() {
		opts.Level = slog.LevelDebug
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, opts)).With(
		slog.String("service", cfg.ServiceName),
		slog.String("env", cfg.AppEnv),
	)
	slog.SetDefault(logger)
	return logger
}

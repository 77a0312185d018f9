package app

import (
	"github.com/riskibarqy/dirty-thirty/internal/config"
	"github.com/riskibarqy/dirty-thirty/internal/platform/logging"
)

// NewLogger builds the process logger: console output in dev, JSON elsewhere.
func NewLogger(cfg config.Config) *logging.Logger {
	var logger *logging.Logger
	if cfg.AppEnv == config.EnvDev {
		logger = logging.NewConsole(cfg.LogLevel)
	} else {
		logger = logging.NewJSON(cfg.LogLevel)
	}
	return logger.With("service", cfg.ServiceName, "version", cfg.ServiceVersion, "env", cfg.AppEnv)
}

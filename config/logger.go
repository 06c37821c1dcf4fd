package config

import (
	"fmt"

	"go.uber.org/zap"
)

var loggerInstance *zap.Logger = zap.NewNop()

// InitLogger creates and configures the application logger.
// Production mode gets the JSON production config; everything else
// gets the human-readable development config.
func InitLogger(goEnv string) (*zap.Logger, error) {
	var logger *zap.Logger
	var err error

	if goEnv == "production" {
		logger, err = zap.NewProduction()
	} else {
		logger, err = zap.NewDevelopment()
	}

	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	loggerInstance = logger
	return logger, nil
}

// GetLogger returns the application logger. Before InitLogger is called
// (e.g. in unit tests) this is a no-op logger, so callers never need a
// nil check.
func GetLogger() *zap.Logger {
	return loggerInstance
}

// SetLogger sets the application logger (primarily for testing)
func SetLogger(l *zap.Logger) {
	loggerInstance = l
}

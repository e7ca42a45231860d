package utils

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"studiobook/config"
)

// Global logger instance
var Logger *zap.Logger

// InitializeLogger sets up the logging configuration. LOG_LEVEL overrides
// the environment's default level.
func InitializeLogger() {
	var cfg zap.Config

	if config.IsProduction() {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	if lvl := config.AppConfig.LogLevel; lvl != "" {
		parsed, err := zapcore.ParseLevel(lvl)
		if err != nil {
			log.Printf("Unknown LOG_LEVEL %q, keeping %s", lvl, cfg.Level.Level())
		} else {
			cfg.Level = zap.NewAtomicLevelAt(parsed)
		}
	}

	// Create logger
	var err error
	Logger, err = cfg.Build()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	zap.ReplaceGlobals(Logger)
}

// GetLogger retrieves the global logger
func GetLogger() *zap.Logger {
	if Logger == nil {
		InitializeLogger()
	}
	return Logger
}

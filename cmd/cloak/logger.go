package main

import (
	"go.uber.org/zap"
)

// newLogger builds a console logger in development mode and a JSON logger
// otherwise. Both write to stderr so command output stays clean.
func newLogger(dev bool) (*zap.Logger, error) {
	var zapConfig zap.Config
	if dev {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		zapConfig.DisableStacktrace = true
	}
	zapConfig.OutputPaths = []string{"stderr"}
	zapConfig.ErrorOutputPaths = []string{"stderr"}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, err
	}
	return logger.With(zap.String("service", "cloak")), nil
}

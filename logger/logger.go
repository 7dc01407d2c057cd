// Package logger builds the zap logger shared by the server components.
package logger

import (
	"go.uber.org/zap"
)

// New returns a sugared logger. Debug selects zap's development config
// (console encoding, debug level); otherwise the production JSON config.
func New(debug bool) (*zap.SugaredLogger, error) {
	var (
		logger *zap.Logger
		err    error
	)
	if debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	return logger.Sugar(), nil
}

// Must is New for main packages: it panics when the logger cannot be built
func Must(debug bool) *zap.SugaredLogger {
	log, err := New(debug)
	if err != nil {
		panic("failed to initialize zap logger: " + err.Error())
	}
	return log
}

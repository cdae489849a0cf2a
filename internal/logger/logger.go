// Package logger builds the zap loggers used by the binaries.
package logger

import "go.uber.org/zap"

// New builds a sugared logger for the given environment. "production"
// selects the JSON encoder; everything else gets the human-readable
// development console encoder. Falls back to a nop logger if construction
// fails, so callers never need to handle an error at startup.
func New(env string) *zap.SugaredLogger {
	var base *zap.Logger
	var err error

	if env == "production" {
		base, err = zap.NewProduction()
	} else {
		base, err = zap.NewDevelopment()
	}
	if err != nil {
		base = zap.NewNop()
	}
	return base.Sugar()
}

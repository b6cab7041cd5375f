package logger

import "go.uber.org/zap"

// New returns a production logger, or a human-readable development logger
// outside production.
func New(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

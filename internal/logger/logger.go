package logger

import (
	"go.uber.org/zap"
)

// New builds a SugaredLogger for the given environment. Production gets
// JSON output, everything else gets the human-readable console encoder.
func New(env string) (*zap.SugaredLogger, error) {
	var (
		log *zap.Logger
		err error
	)
	if env == "production" {
		log, err = zap.NewProduction()
	} else {
		log, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return log.Sugar(), nil
}

package logging

import (
	"go.uber.org/zap"
)

// New returns a production logger in prod and a development one otherwise.
func New(stage string) (*zap.Logger, error) {
	if stage == "prod" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

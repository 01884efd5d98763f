package engine

import (
	"go.uber.org/zap"
)

// NewLifecycleLogger builds the internal structured logger used for
// engine startup/shutdown and configuration diagnostics. It writes to
// stderr, kept deliberately separate from the UCI protocol stream on
// stdout: a UCI GUI parses stdout line by line and would choke on JSON.
func NewLifecycleLogger() (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

package app

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// NewLogger builds a zap logger writing to stderr, so command output on
// stdout stays machine-readable.
func NewLogger(lc LogConfig) (*zap.Logger, error) {
	var zc zap.Config
	if lc.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
	}

	level := lc.Level
	if level == "" {
		level = "warn"
	}
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, errors.Wrap(err, "log level")
	}
	zc.Level = lvl
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}

	return zc.Build()
}

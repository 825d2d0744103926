// Package logging builds the process logger.
package logging

import (
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// New returns a zap logger at level. Format "json" selects the production
// encoder; anything else gives human readable console output.
func New(level, format string) (logger *zap.Logger, err error) {
	var lvl zapcore.Level
	lvl, err = zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		err = errors.Wrapf(err, "invalid log level %q", level)
		return logger, err
	}

	var cfg zap.Config
	if format == "json" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	// Progress goes to stdout; logs stay on stderr.
	cfg.OutputPaths = []string{"stderr"}

	logger, err = cfg.Build()
	if err != nil {
		err = errors.Wrap(err, "failed to build logger")
		return logger, err
	}

	return logger, err
}

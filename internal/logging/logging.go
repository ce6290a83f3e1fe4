// Package logging builds the zap logger used by the command line.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options select the level and encoding.
type Options struct {
	// Format is "console" (default) or "json".
	Format  string
	Quiet   bool
	Verbose bool
}

// Level returns the minimum level for opts: warn when quiet, debug when
// verbose, info otherwise.
func (o Options) Level() zapcore.Level {
	switch {
	case o.Quiet:
		return zap.WarnLevel
	case o.Verbose:
		return zap.DebugLevel
	}
	return zap.InfoLevel
}

// Config returns the zap configuration for opts, writing to stderr.
func Config(opts Options) (*zap.Config, error) {
	var cfg *zap.Config
	switch opts.Format {
	case "json":
		cfg = &zap.Config{
			Encoding:      "json",
			EncoderConfig: zap.NewProductionEncoderConfig(),
		}
	case "", "console":
		enc := zap.NewDevelopmentEncoderConfig()
		enc.StacktraceKey = ""
		cfg = &zap.Config{
			Encoding:      "console",
			EncoderConfig: enc,
		}
	default:
		return nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(opts.Level())
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg, nil
}

// New builds a logger for opts.
func New(opts Options, options ...zap.Option) (*zap.Logger, error) {
	cfg, err := Config(opts)
	if err != nil {
		return nil, err
	}
	return cfg.Build(options...)
}

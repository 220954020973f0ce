// Package logger wraps zap behind logr, the logging interface the rest
// of this module's packages depend on instead of zap directly.
package logger

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is the logr.Logger this module's packages take as a dependency,
// kept as a named type so call sites don't import zap or zapr directly.
type Log struct {
	logr.Logger
}

// New builds a Log named name. production selects zap's production
// encoder (JSON, no color); the development encoder is used otherwise.
// If logPath is non-empty, output is written to <logPath>/<name>.log
// instead of stderr.
func New(name, logPath string, production bool) (*Log, error) {
	var zc zap.Config
	if production {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zc.DisableCaller = true
	zc.DisableStacktrace = true

	if logPath != "" {
		if err := os.MkdirAll(logPath, fs.ModeDir); err != nil {
			return nil, err
		}
		zc.OutputPaths = []string{
			filepath.Join(logPath, fmt.Sprintf("%s.log", name)),
		}
	}

	z, err := zc.Build()
	if err != nil {
		return nil, err
	}

	return &Log{Logger: zapr.NewLogger(z).WithName(name)}, nil
}

// NewSimple builds a Log from the global zap logger, for call sites that
// run before a configured logger is available (e.g. reading config).
func NewSimple(name string) *Log {
	return &Log{Logger: zapr.NewLogger(zap.L().Named(name))}
}

// Named returns a child logger scoped under an additional name segment.
func (l *Log) Named(name string) *Log {
	return &Log{Logger: l.WithName(name)}
}

// Info logs at the default verbosity.
func (l *Log) Info(msg string, keysAndValues ...interface{}) {
	l.Logger.V(0).WithValues(keysAndValues...).Info(msg)
}

// Debug logs at verbosity 1.
func (l *Log) Debug(msg string, keysAndValues ...interface{}) {
	l.Logger.V(1).WithValues(keysAndValues...).Info(msg)
}

// Trace logs at verbosity 2, the noisiest level this module emits.
func (l *Log) Trace(msg string, keysAndValues ...interface{}) {
	l.Logger.V(2).WithValues(keysAndValues...).Info(msg)
}

// Package logging sets up the structured logger shared by experiments
// and the command line
package logging

import (
	"os"
	"sync"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	rootLogger *zap.SugaredLogger
	mutex      sync.Mutex
)

// Encoding determines how log entries are written
type Encoding string

const (
	JSON    Encoding = "json"
	Console Encoding = "console"
)

// Options configures the root logger
type Options struct {
	Level    string   `json:"level" yaml:"level"`
	Encoding Encoding `json:"encoding" yaml:"encoding"`
	Name     string   `json:"name" yaml:"name"`

	// TimeLayout is the layout of timestamps, empty for ISO8601
	TimeLayout string `json:"timeLayout" yaml:"timeLayout"`

	// Stderr sends every entry to standard error, leaving standard
	// output to the program's results
	Stderr bool `json:"stderr" yaml:"stderr"`
}

// DefaultOptions returns the options used when Setup is never called
func DefaultOptions() Options {
	return Options{Level: "info", Encoding: Console}
}

// Setup builds the root logger. Unless o.Stderr is set, entries below
// warn level are written to standard output and all others to standard
// error. Setup may be called more than once, later calls replace the
// root logger.
func Setup(o Options) (*zap.SugaredLogger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(o.Level)); err != nil {
		return nil, errors.Wrapf(err, "setup: unknown level %q", o.Level)
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.ConsoleSeparator = " "
	if o.TimeLayout != "" {
		encoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout(o.TimeLayout)
	} else {
		encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	var encoder zapcore.Encoder
	switch o.Encoding {
	case JSON:
		encoder = zapcore.NewJSONEncoder(encoderConfig)
	case Console, "":
		encoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encoderConfig)
	default:
		return nil, errors.Errorf("setup: unknown encoding %q", o.Encoding)
	}

	low := zapcore.Lock(os.Stdout)
	if o.Stderr {
		low = zapcore.Lock(os.Stderr)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, low,
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= level && lvl < zapcore.WarnLevel
			})),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr),
			zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
				return lvl >= level && lvl >= zapcore.WarnLevel
			})),
	}

	logger := zap.New(zapcore.NewTee(cores...)).Sugar()
	if o.Name != "" {
		logger = logger.Named(o.Name)
	}

	mutex.Lock()
	defer mutex.Unlock()
	rootLogger = logger
	return logger, nil
}

// Global returns the root logger, or a logger which discards everything
// if Setup has not been called
func Global() *zap.SugaredLogger {
	mutex.Lock()
	defer mutex.Unlock()
	if rootLogger == nil {
		return zap.NewNop().Sugar()
	}
	return rootLogger
}

// Named returns a child of the root logger
func Named(name string) *zap.SugaredLogger {
	return Global().Named(name)
}

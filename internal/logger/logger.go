// Package logger provides the process-wide structured logger: console
// output always, optionally teed with a rotating JSON file.
package logger

import (
	"os"
	"sync"

	"github.com/natefinch/lumberjack"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Options selects the log level and the optional file destination.
type Options struct {
	Debug bool
	// File, if non-empty, adds a size-rotated JSON log at this path.
	File string
}

var (
	mu  sync.Mutex
	log = zap.NewNop()
	set bool
	// defaulted records that Get built the fallback logger; unlike set, it
	// does not stop a later Init from taking effect.
	defaulted bool
)

// Init configures the global logger. The first call wins; later calls are
// ignored so library code can call Get without worrying about ordering.
func Init(opts Options) {
	mu.Lock()
	defer mu.Unlock()
	if set {
		return
	}
	log = build(opts)
	set = true
}

func build(opts Options) *zap.Logger {
	level := zapcore.InfoLevel
	encCfg := zap.NewProductionEncoderConfig()
	if opts.Debug {
		level = zapcore.DebugLevel
		encCfg = zap.NewDevelopmentEncoderConfig()
	}

	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.AddSync(os.Stdout), level),
	}
	if opts.File != "" {
		rotated := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
		}
		cores = append(cores, zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(rotated),
			level,
		))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Get returns the global logger, initializing a default console logger if
// Init was never called.
func Get() *zap.Logger {
	mu.Lock()
	defer mu.Unlock()
	if !set && !defaulted {
		log = build(Options{})
		defaulted = true
	}
	return log
}

// Sync flushes any buffered log entries.
func Sync() {
	mu.Lock()
	l := log
	mu.Unlock()
	_ = l.Sync()
}

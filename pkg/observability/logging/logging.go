// Package logging provides a thin package-level wrapper around zap so that
// callers can log without carrying a logger through every constructor.
package logging

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger *zap.SugaredLogger
)

func init() {
	logger = newDefault().Sugar()
}

func newDefault() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		// zap's production config cannot fail to build with a valid encoder;
		// fall back to a no-op logger rather than panic at init.
		return zap.NewNop()
	}
	return l
}

// SetLogger replaces the package-level logger. Intended for tests and for
// embedding applications that already own a zap instance.
func SetLogger(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	logger = l.Sugar()
}

func get() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...interface{}) {
	get().Debugf(format, args...)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...interface{}) {
	get().Infof(format, args...)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...interface{}) {
	get().Warnf(format, args...)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...interface{}) {
	get().Errorf(format, args...)
}

// Sync flushes any buffered log entries.
func Sync() error {
	return get().Sync()
}

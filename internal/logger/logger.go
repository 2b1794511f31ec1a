package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var level = zap.NewAtomicLevelAt(zap.InfoLevel)

var instance *zap.Logger = func() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.Level = level
	log, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return log
}()

// SetLevel changes the minimum enabled level, e.g. "debug" or "warn".
func SetLevel(name string) error {
	var l zapcore.Level
	if err := l.UnmarshalText([]byte(name)); err != nil {
		return fmt.Errorf("logger: unknown level %q", name)
	}
	level.SetLevel(l)
	return nil
}

// L returns the underlying logger.
func L() *zap.Logger {
	return instance
}

// Replace swaps the package logger and returns a function restoring the
// previous one. It is not safe to call while other goroutines are logging.
func Replace(l *zap.Logger) func() {
	prev := instance
	instance = l
	return func() { instance = prev }
}

func Sync() {
	_ = instance.Sync()
}

func Fatal(msg string, err error, fields ...zap.Field) {
	instance.Fatal(msg, append(fields, zap.Error(err))...)
}

func Error(msg string, err error, fields ...zap.Field) {
	instance.Error(msg, append(fields, zap.Error(err))...)
}

func Warn(msg string, fields ...zap.Field) {
	instance.Warn(msg, fields...)
}

func Info(msg string, fields ...zap.Field) {
	instance.Info(msg, fields...)
}

func Debug(msg string, fields ...zap.Field) {
	instance.Debug(msg, fields...)
}

package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu   sync.RWMutex
	base = zap.NewNop()
)

// Init configures the process-wide logger. Debug enables the development
// encoder and debug-level output; otherwise JSON at info level.
func Init(debug bool) {
	var cfg zap.Config
	if debug {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	cfg.DisableStacktrace = true

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}

	mu.Lock()
	base = l
	mu.Unlock()
}

func logger() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

func zapFields(component string, fields map[string]interface{}) []zap.Field {
	zf := make([]zap.Field, 0, len(fields)+1)
	zf = append(zf, zap.String("component", component))
	for k, v := range fields {
		zf = append(zf, zap.Any(k, v))
	}
	return zf
}

// DebugCF logs a debug message tagged with a component and structured fields.
func DebugCF(component, msg string, fields map[string]interface{}) {
	logger().Debug(msg, zapFields(component, fields)...)
}

// InfoCF logs an info message tagged with a component and structured fields.
func InfoCF(component, msg string, fields map[string]interface{}) {
	logger().Info(msg, zapFields(component, fields)...)
}

// WarnCF logs a warning tagged with a component and structured fields.
func WarnCF(component, msg string, fields map[string]interface{}) {
	logger().Warn(msg, zapFields(component, fields)...)
}

// ErrorCF logs an error tagged with a component and structured fields.
func ErrorCF(component, msg string, fields map[string]interface{}) {
	logger().Error(msg, zapFields(component, fields)...)
}

// Info logs a plain info message with no component tag.
func Info(msg string) {
	logger().Info(msg)
}

// Sync flushes buffered log entries. Safe to call on shutdown.
func Sync() {
	_ = logger().Sync()
}

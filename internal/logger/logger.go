// Package logger is the structured logger of the HTTP service.
package logger

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LoggerOptions is a key-value pair attached to a log entry.
type LoggerOptions struct {
	Key  string
	Data interface{}
}

// Logger is the underlying zap logger. It may be replaced, e.g. by tests.
var Logger = newLogger()

func newLogger() *zap.Logger {
	cfg := zap.NewProductionConfig()
	if os.Getenv("GIN_MODE") == "debug" {
		cfg = zap.NewDevelopmentConfig()
	}
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

func fields(payload []LoggerOptions) []zapcore.Field {
	zapFields := make([]zapcore.Field, 0, len(payload))
	for _, data := range payload {
		zapFields = append(zapFields, zap.Any(data.Key, data.Data))
	}
	return zapFields
}

// Info logs info level messages.
func Info(msg string, payload ...LoggerOptions) {
	Logger.Info(msg, fields(payload)...)
}

// Error logs error messages.
// Describe the incident in msg and pass the error through logger options
// with key error.
func Error(msg string, payload ...LoggerOptions) {
	Logger.Error(msg, fields(payload)...)
}

// Warning logs warning messages.
func Warning(msg string, payload ...LoggerOptions) {
	Logger.Warn(msg, fields(payload)...)
}

// Sync flushes any buffered log entries.
func Sync() {
	_ = Logger.Sync()
}

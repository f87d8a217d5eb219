package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_Levels(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	prev := Logger
	Logger = zap.New(core)
	defer func() { Logger = prev }()

	Info("request served", LoggerOptions{Key: "status", Data: 200})
	Warning("slow request")
	Error("request failed", LoggerOptions{Key: "error", Data: errors.New("boom")})

	entries := logs.All()
	if assert.Len(t, entries, 3) {
		assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
		assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
		assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
		assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
		assert.Equal(t, "boom", entries[2].ContextMap()["error"])
	}
}

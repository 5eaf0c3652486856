package util

import (
	"log"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewZap builds the process logger. Debug switches to the development encoder at debug level.
func NewZap(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	return cfg.Build()
}

// NewLogger returns a *log.Logger writing through z at info level, for the
// repos/services layer which logs with Printf.
func NewLogger(z *zap.Logger) *log.Logger {
	if z == nil {
		z = zap.NewNop()
	}
	return zap.NewStdLog(z)
}

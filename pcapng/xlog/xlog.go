// Package xlog provides the pcapng engine's default Logger
// implementation: a zap-backed logger carrying only what the engine's
// debug notices need (Debugf/Warnf).
package xlog

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level mirrors zapcore.Level so callers configuring xlog never need
// to import zap directly.
type Level int8

const (
	DebugLevel Level = Level(zapcore.DebugLevel)
	InfoLevel  Level = Level(zapcore.InfoLevel)
	WarnLevel  Level = Level(zapcore.WarnLevel)
	ErrorLevel Level = Level(zapcore.ErrorLevel)
)

// Logger wraps a *zap.Logger and satisfies pcapng.Logger (Debugf,
// Warnf) without the caller needing to import zap.
type Logger struct {
	z *zap.Logger
}

// New builds a console-encoded zap logger at the given level, writing
// to os.Stderr by default through zap's standard production
// configuration. There is no file-rotation wiring here: pcapng
// readers/writers are typically embedded in a larger process that
// already owns log rotation for its own output.
func New(level Level) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.Level(level))
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeLevel = zapcore.LowercaseLevelEncoder
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{z: z}, nil
}

// NewNop returns a Logger that discards everything, useful in tests
// that want a real *Logger value without stderr noise.
func NewNop() *Logger {
	return &Logger{z: zap.NewNop()}
}

func (l *Logger) Debugf(format string, args ...any) {
	if ce := l.z.Check(zapcore.DebugLevel, fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

func (l *Logger) Warnf(format string, args ...any) {
	if ce := l.z.Check(zapcore.WarnLevel, fmt.Sprintf(format, args...)); ce != nil {
		ce.Write()
	}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

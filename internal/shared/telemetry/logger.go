package telemetry

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = newDefault()
)

func newDefault() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.MessageKey = "msg"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// SetLogger replaces the process logger. Passing nil installs a no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	logger = l
	mu.Unlock()
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	L().Info(msg, toZap(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	L().Warn(msg, toZap(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	L().Error(msg, toZap(fields)...)
}

func toZap(fields map[string]any) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		switch val := v.(type) {
		case error:
			out = append(out, zap.NamedError(k, val))
		default:
			out = append(out, zap.Any(k, val))
		}
	}
	return out
}

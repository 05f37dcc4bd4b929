package internallogger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapLoggerAdapter implements types.Logger on top of zap. The base core writes JSON to
// stdout and AddSink tees further outputs onto it. All sinks share one atomic level.
type ZapLoggerAdapter struct {
	mu          sync.Mutex
	logger      *zap.Logger
	atomicLevel zap.AtomicLevel
	encConfig   zapcore.EncoderConfig
	baseCore    zapcore.Core
	baseFields  []zap.Field
	sinks       map[string]sinkEntry
	zapOpts     []zap.Option
}

func NewLogger(options ...LoggerOption) *ZapLoggerAdapter {
	s := defaultSettings()
	for _, option := range options {
		option(s)
	}

	z := &ZapLoggerAdapter{
		atomicLevel: zap.NewAtomicLevelAt(s.level),
		encConfig:   encoderConfig(s.development),
		baseFields:  fieldsFromMap(s.fields),
		sinks:       make(map[string]sinkEntry),
		zapOpts:     []zap.Option{zap.AddCallerSkip(s.callerSkip), zap.WithCaller(!s.noCaller)},
	}
	z.baseCore = zapcore.NewCore(zapcore.NewJSONEncoder(z.encConfig), zapcore.Lock(os.Stdout), z.atomicLevel)

	z.mu.Lock()
	z.rebuildLocked()
	z.mu.Unlock()
	return z
}

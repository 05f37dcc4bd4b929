package internallogger

import (
	"time"

	"github.com/hummel-lab/tistim/pkg/logschema"
	"go.uber.org/zap/zapcore"
)

// encoderConfig is the tistim line format: logschema keys, UTC timestamps with nanoseconds,
// and upper-case levels in development.
func encoderConfig(development bool) zapcore.EncoderConfig {
	level := zapcore.LowercaseLevelEncoder
	if development {
		level = zapcore.CapitalLevelEncoder
	}
	return zapcore.EncoderConfig{
		TimeKey:       logschema.FieldTimestamp,
		LevelKey:      logschema.FieldLevel,
		NameKey:       logschema.FieldLogger,
		CallerKey:     logschema.FieldCaller,
		MessageKey:    logschema.FieldMessage,
		StacktraceKey: logschema.FieldStack,
		LineEnding:    zapcore.DefaultLineEnding,
		EncodeLevel:   level,
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(t.UTC().Format(time.RFC3339Nano))
		},
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

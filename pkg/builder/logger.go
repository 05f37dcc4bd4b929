package builder

import (
	"github.com/hummel-lab/tistim/pkg/internal/internallogger"
	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/logschema"
)

type (
	LoggerOption = internallogger.LoggerOption
	SinkConfig   = types.SinkConfig
	SinkType     = types.SinkType
	LogLevel     = types.LogLevel
)

const (
	FileSink   = types.FileSink
	StdoutSink = types.StdoutSink
	StderrSink = types.StderrSink
)

const (
	DebugLevel  = types.DebugLevel
	InfoLevel   = types.InfoLevel
	WarnLevel   = types.WarnLevel
	ErrorLevel  = types.ErrorLevel
	DPanicLevel = types.DPanicLevel
	PanicLevel  = types.PanicLevel
	FatalLevel  = types.FatalLevel
)

// Identifier and key of the schema stamped on every JSON log line.
const (
	LogSchemaID    = logschema.SchemaID
	LogSchemaField = logschema.FieldSchema
)

// NewLogger returns a zap-backed logger writing JSON lines to stdout.
func NewLogger(options ...LoggerOption) types.Logger {
	return internallogger.NewLogger(options...)
}

var (
	LoggerWithLevel       = internallogger.LoggerWithLevel
	LoggerWithDevelopment = internallogger.LoggerWithDevelopment
	LoggerWithFields      = internallogger.LoggerWithFields
	LoggerWithSession     = internallogger.LoggerWithSession
	LoggerWithSchema      = internallogger.LoggerWithSchema
)

// FileSinkConfig appends JSON lines to path, creating parent directories as needed.
func FileSinkConfig(path string) SinkConfig {
	return SinkConfig{Type: string(FileSink), Config: map[string]interface{}{"path": path}}
}

package internallogger

import (
	"github.com/hummel-lab/tistim/pkg/logschema"
	"go.uber.org/zap/zapcore"
)

// settings collects option values before the adapter is built.
type settings struct {
	level       zapcore.Level
	development bool
	noCaller    bool
	callerSkip  int
	fields      map[string]interface{}
}

// LoggerOption configures NewLogger.
type LoggerOption func(*settings)

func defaultSettings() *settings {
	return &settings{
		level:      zapcore.InfoLevel,
		callerSkip: 3,
		fields:     map[string]interface{}{logschema.FieldSchema: logschema.SchemaID},
	}
}

// LoggerWithLevel sets the minimum level by name. Unknown names fall back to info.
func LoggerWithLevel(levelStr string) LoggerOption {
	return func(s *settings) { s.level = ConvertLevel(parseLogLevel(levelStr)) }
}

// LoggerWithDevelopment switches the level encoding to upper case.
func LoggerWithDevelopment(dev bool) LoggerOption {
	return func(s *settings) { s.development = dev }
}

// LoggerWithFields attaches fields to every log line. Empty keys are ignored.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return func(s *settings) {
		for key, value := range fields {
			if key != "" {
				s.fields[key] = value
			}
		}
	}
}

// LoggerWithSession tags every line with the subject and session being stimulated.
func LoggerWithSession(subject, session string) LoggerOption {
	return LoggerWithFields(map[string]interface{}{
		logschema.FieldSubject: subject,
		logschema.FieldSession: session,
	})
}

func LoggerWithSchema(schema string) LoggerOption {
	return func(s *settings) { s.fields[logschema.FieldSchema] = schema }
}

func LoggerWithoutCaller() LoggerOption {
	return func(s *settings) { s.noCaller = true }
}

// ZapAdapterWithCallerSkip adds frames on top of the adapter's own call depth.
func ZapAdapterWithCallerSkip(skip int) LoggerOption {
	return func(s *settings) { s.callerSkip += skip }
}

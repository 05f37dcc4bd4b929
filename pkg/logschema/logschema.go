package logschema

// Log schema constants for tistim structured logs.
const (
	SchemaID    = "tistim.log.v1"
	FieldSchema = "log_schema"

	FieldTimestamp = "ts"
	FieldLevel     = "level"
	FieldMessage   = "msg"
	FieldLogger    = "logger"
	FieldCaller    = "caller"
	FieldStack     = "stack"

	FieldComponent = "component"
	FieldEvent     = "event"
	FieldResult    = "result"
	FieldError     = "error"

	FieldSubject    = "subject"
	FieldSession    = "session"
	FieldRunID      = "run_id"
	FieldRepetition = "repetition"
	FieldState      = "state"
	FieldProtocol   = "protocol"
)

// LogRecord is a generic map representation of a log entry.
type LogRecord map[string]interface{}

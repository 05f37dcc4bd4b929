package internallogger

import (
	"strings"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"go.uber.org/zap/zapcore"
)

// levelTable maps config names, tistim levels and zap levels. Anything not listed is info.
var levelTable = []struct {
	name  string
	level types.LogLevel
	zap   zapcore.Level
}{
	{"debug", types.DebugLevel, zapcore.DebugLevel},
	{"info", types.InfoLevel, zapcore.InfoLevel},
	{"warn", types.WarnLevel, zapcore.WarnLevel},
	{"error", types.ErrorLevel, zapcore.ErrorLevel},
	{"dpanic", types.DPanicLevel, zapcore.DPanicLevel},
	{"panic", types.PanicLevel, zapcore.PanicLevel},
	{"fatal", types.FatalLevel, zapcore.FatalLevel},
}

func parseLogLevel(levelStr string) types.LogLevel {
	name := strings.ToLower(strings.TrimSpace(levelStr))
	if name == "warning" {
		name = "warn"
	}
	for _, e := range levelTable {
		if e.name == name {
			return e.level
		}
	}
	return types.InfoLevel
}

// ConvertLevel converts a types.LogLevel to a zap level.
func ConvertLevel(level types.LogLevel) zapcore.Level {
	for _, e := range levelTable {
		if e.level == level {
			return e.zap
		}
	}
	return zapcore.InfoLevel
}

func convertZapLevel(level zapcore.Level) types.LogLevel {
	for _, e := range levelTable {
		if e.zap == level {
			return e.level
		}
	}
	return types.InfoLevel
}

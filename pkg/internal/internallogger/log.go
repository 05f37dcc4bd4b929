package internallogger

import (
	"errors"
	"fmt"
	"os"
	"syscall"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"go.uber.org/zap"
)

func (z *ZapLoggerAdapter) current() *zap.Logger {
	z.mu.Lock()
	defer z.mu.Unlock()
	return z.logger
}

// Log emits a log entry at the requested level with structured fields.
func (z *ZapLoggerAdapter) Log(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	logger := z.current()
	if logger == nil {
		fmt.Fprintln(os.Stderr, "internallogger: logger core is not initialized")
		return
	}
	if ce := logger.Check(ConvertLevel(level), msg); ce != nil {
		ce.Write(pairsToFields(keysAndValues)...)
	}
}

func (z *ZapLoggerAdapter) Debug(msg string, keysAndValues ...interface{}) {
	z.Log(types.DebugLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Info(msg string, keysAndValues ...interface{}) {
	z.Log(types.InfoLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Warn(msg string, keysAndValues ...interface{}) {
	z.Log(types.WarnLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) Error(msg string, keysAndValues ...interface{}) {
	z.Log(types.ErrorLevel, msg, keysAndValues...)
}

// DPanic panics in development mode only.
func (z *ZapLoggerAdapter) DPanic(msg string, keysAndValues ...interface{}) {
	z.Log(types.DPanicLevel, msg, keysAndValues...)
}

// Panic logs and then panics.
func (z *ZapLoggerAdapter) Panic(msg string, keysAndValues ...interface{}) {
	z.Log(types.PanicLevel, msg, keysAndValues...)
}

// Fatal logs and then exits the process.
func (z *ZapLoggerAdapter) Fatal(msg string, keysAndValues ...interface{}) {
	z.Log(types.FatalLevel, msg, keysAndValues...)
}

func (z *ZapLoggerAdapter) GetLevel() types.LogLevel {
	return convertZapLevel(z.atomicLevel.Level())
}

// SetLevel changes the minimum level of every sink at once.
func (z *ZapLoggerAdapter) SetLevel(level types.LogLevel) {
	z.atomicLevel.SetLevel(ConvertLevel(level))
}

// Flush syncs every sink. Outputs that cannot be synced, such as a terminal or a pipe, are
// not an error.
func (z *ZapLoggerAdapter) Flush() error {
	logger := z.current()
	if logger == nil {
		return nil
	}
	if err := logger.Sync(); err != nil && !unsyncable(err) {
		return err
	}
	return nil
}

func unsyncable(err error) bool {
	return errors.Is(err, syscall.EINVAL) || errors.Is(err, syscall.ENOTTY) || errors.Is(err, syscall.EBADF)
}

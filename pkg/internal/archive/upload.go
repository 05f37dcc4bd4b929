package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hummel-lab/tistim/pkg/internal/codec"
	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

// Key returns the object key for name in the current run.
func (a *Archive) Key(name string) string {
	run := "unknown"
	if a.runID != nil {
		run = utils.SafeFileComponent(a.runID())
	}
	return path.Join(a.prefix, utils.SafeFileComponent(a.subject), utils.SafeFileComponent(a.session), run, name)
}

// Flush uploads the buffered events and waveform and clears them. It returns the keys
// written. Nothing is cleared when an upload fails.
func (a *Archive) Flush(ctx context.Context) ([]string, error) {
	if a.uploader == nil || a.bucket == "" {
		return nil, fmt.Errorf("archive: no bucket configured")
	}

	a.mu.Lock()
	rows := append([]EventRow(nil), a.rows...)
	wave := a.waveform
	a.mu.Unlock()

	var keys []string
	if len(rows) > 0 {
		data, err := EncodeRows(rows)
		if err != nil {
			return nil, fmt.Errorf("archive: encode events: %w", err)
		}
		key := a.Key("events.parquet")
		if err := a.put(ctx, key, data, "application/vnd.apache.parquet"); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}
	if wave != nil {
		data, err := codec.MarshalFrame(*wave, a.compression)
		if err != nil {
			return keys, fmt.Errorf("archive: encode waveform: %w", err)
		}
		key := a.Key("waveform.tiwf" + a.compression.Extension())
		if err := a.put(ctx, key, data, "application/octet-stream"); err != nil {
			return keys, err
		}
		keys = append(keys, key)
	}

	a.mu.Lock()
	a.rows = a.rows[len(rows):]
	if a.waveform == wave {
		a.waveform = nil
	}
	a.mu.Unlock()
	return keys, nil
}

func (a *Archive) put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := a.uploader.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
		Metadata: map[string]string{
			"subject": a.subject,
			"session": a.session,
		},
	})
	if err != nil {
		a.NotifyLoggers(types.ErrorLevel, "PutObject failed",
			"component", a.componentMetadata,
			"event", "PutObject",
			"result", "FAILURE",
			"bucket", a.bucket,
			"key", key,
			"error", err,
		)
		return fmt.Errorf("archive: put %s: %w", key, err)
	}
	a.NotifyLoggers(types.InfoLevel, "PutObject",
		"component", a.componentMetadata,
		"event", "PutObject",
		"result", "SUCCESS",
		"bucket", a.bucket,
		"key", key,
		"bytes", len(data),
	)
	return nil
}

func (a *Archive) ConnectLogger(loggers ...types.Logger) {
	a.loggersLock.Lock()
	defer a.loggersLock.Unlock()
	for _, l := range loggers {
		if l != nil {
			a.loggers = append(a.loggers, l)
		}
	}
}

func (a *Archive) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	a.loggersLock.Lock()
	loggers := append([]types.Logger(nil), a.loggers...)
	a.loggersLock.Unlock()
	for _, l := range loggers {
		if l.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			l.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			l.Info(msg, keysAndValues...)
		case types.WarnLevel:
			l.Warn(msg, keysAndValues...)
		default:
			l.Error(msg, keysAndValues...)
		}
	}
}

package internallogger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/hummel-lab/tistim/pkg/internal/internallogger"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

func fileSink(path string) types.SinkConfig {
	return types.SinkConfig{Type: string(types.FileSink), Config: map[string]interface{}{"path": path}}
}

func TestLevels(t *testing.T) {
	cases := []struct {
		opt  string
		want types.LogLevel
	}{
		{"", types.InfoLevel},
		{"debug", types.DebugLevel},
		{"unknown", types.InfoLevel},
	}
	for _, tc := range cases {
		var logger *internallogger.ZapLoggerAdapter
		if tc.opt == "" {
			logger = internallogger.NewLogger()
		} else {
			logger = internallogger.NewLogger(internallogger.LoggerWithLevel(tc.opt))
		}
		if got := logger.GetLevel(); got != tc.want {
			t.Fatalf("level %q: got %v, expected %v", tc.opt, got, tc.want)
		}
	}

	logger := internallogger.NewLogger()
	logger.SetLevel(types.ErrorLevel)
	if got := logger.GetLevel(); got != types.ErrorLevel {
		t.Fatalf("expected ErrorLevel after SetLevel, got %v", got)
	}
}

func TestSinks_AddListRemove(t *testing.T) {
	logger := internallogger.NewLogger(internallogger.LoggerWithLevel("debug"))
	path := filepath.Join(t.TempDir(), "nested", "session.log")

	if err := logger.AddSink("session", fileSink(path)); err != nil {
		t.Fatalf("AddSink(file): %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected log file with parent dirs: %v", err)
	}
	if err := logger.AddSink("console", types.SinkConfig{Type: string(types.StderrSink)}); err != nil {
		t.Fatalf("AddSink(stderr): %v", err)
	}
	// Replacing an identifier closes the previous writer and keeps one entry.
	if err := logger.AddSink("session", fileSink(path)); err != nil {
		t.Fatalf("AddSink(replace): %v", err)
	}

	sinks, _ := logger.ListSinks()
	if strings.Join(sinks, ",") != "console,session" {
		t.Fatalf("unexpected sinks %v", sinks)
	}

	if err := logger.RemoveSink("console"); err != nil {
		t.Fatalf("RemoveSink: %v", err)
	}
	if err := logger.RemoveSink("console"); err == nil {
		t.Fatalf("expected error removing a sink twice")
	}
}

func TestSinks_RejectBadConfig(t *testing.T) {
	logger := internallogger.NewLogger()

	if err := logger.AddSink("file", types.SinkConfig{Type: "file", Config: map[string]interface{}{}}); err == nil {
		t.Fatalf("expected error for missing file path")
	}
	if err := logger.AddSink("kafka", types.SinkConfig{Type: "kafka"}); err == nil {
		t.Fatalf("expected error for unsupported sink type")
	}
}

func TestFileSinkCarriesSessionFields(t *testing.T) {
	logger := internallogger.NewLogger(
		internallogger.LoggerWithSession("sub-01", "ses-02"),
		internallogger.LoggerWithDevelopment(true),
		internallogger.ZapAdapterWithCallerSkip(1),
		internallogger.LoggerWithoutCaller(),
	)
	path := filepath.Join(t.TempDir(), "tistim.log")
	if err := logger.AddSink("file", fileSink(path)); err != nil {
		t.Fatalf("AddSink(file): %v", err)
	}

	logger.Info("repetition started", "state", types.StateStreaming, "kind", types.KindITBS, "repetition", 2)
	logger.Log(types.InfoLevel, "odd keys", "key", "value", "orphan", 123)
	if err := logger.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %s", len(lines), data)
	}
	for _, want := range []string{`"subject":"sub-01"`, `"session":"ses-02"`, `"state":"Stimulation Ongoing"`, `"kind":"iTBS"`, `"log_schema":"tistim.log.v1"`, `"level":"INFO"`} {
		if !strings.Contains(lines[0], want) {
			t.Fatalf("expected %s in %s", want, lines[0])
		}
	}
	if strings.Contains(lines[0], `"caller"`) {
		t.Fatalf("expected caller to be disabled: %s", lines[0])
	}
}

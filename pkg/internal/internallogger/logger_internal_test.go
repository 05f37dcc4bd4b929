package internallogger

import (
	"errors"
	"fmt"
	"os"
	"syscall"
	"testing"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observed swaps the adapter's zap logger for an in-memory core at min.
func observed(t *testing.T, min zapcore.Level) (*ZapLoggerAdapter, *observer.ObservedLogs) {
	t.Helper()
	z := NewLogger()
	core, logs := observer.New(min)
	z.mu.Lock()
	z.logger = zap.New(core)
	z.mu.Unlock()
	return z, logs
}

func TestPairsToFields(t *testing.T) {
	cases := []struct {
		name string
		kv   []interface{}
		keys []string
	}{
		{"orphan dropped", []interface{}{"a", "b", "c", 3, "orphan"}, []string{"a", "c"}},
		{"non-string key dropped", []interface{}{123, "skip", "k", "v"}, []string{"k"}},
		{"empty", nil, nil},
	}
	for _, tc := range cases {
		got := pairsToFields(tc.kv)
		if len(got) != len(tc.keys) {
			t.Fatalf("%s: expected %d fields, got %d", tc.name, len(tc.keys), len(got))
		}
		for i, key := range tc.keys {
			if got[i].Key != key {
				t.Fatalf("%s: field %d is %q, expected %q", tc.name, i, got[i].Key, key)
			}
		}
	}
}

func TestLog_RespectsCoreLevel(t *testing.T) {
	z, logs := observed(t, zapcore.WarnLevel)
	z.Log(types.InfoLevel, "armed")
	z.Log(types.WarnLevel, "update rejected")

	entries := logs.All()
	if len(entries) != 1 || entries[0].Entry.Level != zapcore.WarnLevel {
		t.Fatalf("expected a single warn entry, got %+v", entries)
	}
}

func TestLog_NilLoggerIsSafe(t *testing.T) {
	z := NewLogger()
	z.mu.Lock()
	z.logger = nil
	z.mu.Unlock()

	z.Log(types.InfoLevel, "dropped")
	if err := z.Flush(); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestLevelTableRoundTrip(t *testing.T) {
	for _, e := range levelTable {
		if got := parseLogLevel(e.name); got != e.level {
			t.Fatalf("parseLogLevel(%q) = %v", e.name, got)
		}
		if got := convertZapLevel(ConvertLevel(e.level)); got != e.level {
			t.Fatalf("level %v did not round trip, got %v", e.level, got)
		}
	}
	if parseLogLevel(" WARNING ") != types.WarnLevel {
		t.Fatalf("expected warning alias to map to warn")
	}
	if parseLogLevel("bogus") != types.InfoLevel || ConvertLevel(types.LogLevel(99)) != zapcore.InfoLevel ||
		convertZapLevel(zapcore.Level(99)) != types.InfoLevel {
		t.Fatalf("expected unknown levels to fall back to info")
	}
}

func TestField_DomainEncoders(t *testing.T) {
	z, logs := observed(t, zapcore.DebugLevel)

	params := types.DefaultParameters()
	buf := types.NewBuffer(1000, 2500)
	meta := types.ComponentMetadata{ID: "c1", Type: "CONTROLLER", Name: "main"}
	z.Log(types.InfoLevel, "msg",
		"state", types.StateRampingDown,
		"kind", types.KindCTBS,
		"edge", types.FallingEdge,
		"params", params,
		"buffer", buf,
		"component", meta,
		"error", errors.New("daq offline"),
	)

	fields := logs.All()[0].ContextMap()
	if fields["state"] != "Ramping Down" || fields["kind"] != "cTBS" || fields["edge"] != "falling" {
		t.Fatalf("unexpected enum fields: %v", fields)
	}
	p, ok := fields["params"].(map[string]interface{})
	if !ok || p["total_time"] != params.TotalTime || fmt.Sprint(p["repetitions"]) != fmt.Sprint(params.Repetitions) {
		t.Fatalf("unexpected params field: %#v", fields["params"])
	}
	b, ok := fields["buffer"].(map[string]interface{})
	if !ok || fmt.Sprint(b["samples"]) != "2500" || b["duration_s"] != 2.5 {
		t.Fatalf("unexpected buffer field: %#v", fields["buffer"])
	}
	c, ok := fields["component"].(map[string]interface{})
	if !ok || c["type"] != "CONTROLLER" || c["id"] != "c1" {
		t.Fatalf("unexpected component field: %#v", fields["component"])
	}
	if fields["error"] != "daq offline" {
		t.Fatalf("unexpected error field: %v", fields["error"])
	}
}

func TestFieldsFromMapIsSorted(t *testing.T) {
	got := fieldsFromMap(map[string]interface{}{"subject": "S01", "": "skip", "log_schema": "v1", "session": "ses1"})
	want := []string{"log_schema", "session", "subject"}
	if len(got) != len(want) {
		t.Fatalf("expected %d fields, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i].Key != want[i] {
			t.Fatalf("field %d is %q, expected %q", i, got[i].Key, want[i])
		}
	}
}

func TestUnsyncable(t *testing.T) {
	wrapped := fmt.Errorf("sync: %w", &os.PathError{Op: "sync", Path: "/dev/stdout", Err: syscall.EINVAL})
	if !unsyncable(wrapped) {
		t.Fatalf("expected EINVAL to be ignored")
	}
	if unsyncable(errors.New("disk full")) {
		t.Fatalf("expected other errors to surface")
	}
}

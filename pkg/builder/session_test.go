package builder_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/segmentio/kafka-go"

	"github.com/hummel-lab/tistim/pkg/builder"
)

type fakeProducer struct {
	mu   sync.Mutex
	msgs []kafka.Message
}

func (f *fakeProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeProducer) Close() error { return nil }

type fakeUploader struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeUploader) PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

func testConfig(t *testing.T) builder.Config {
	cfg := builder.DefaultConfig()
	cfg.Device.Speed = 100
	cfg.Device.PollIntervalMs = 1
	cfg.Session.Subject = "S01"
	cfg.Session.Session = "ses1"
	cfg.Session.Protocol = "TI"
	cfg.SessionLog.Dir = t.TempDir()
	cfg.Logging.Level = "error"
	cfg.Protocol.TotalTime = 1
	cfg.Protocol.RampUpTime = 0.2
	cfg.Protocol.RampDownTime = 0.2
	cfg.Protocol.Trigger = false
	return cfg
}

func idle() (float64, error) { return 1, nil }

func TestSession_RunsWithEveryCollaborator(t *testing.T) {
	cfg := testConfig(t)
	cfg.Archive.Bucket = "lab-archive"
	producer := &fakeProducer{}
	uploader := &fakeUploader{}

	s, err := builder.NewSession(context.Background(), cfg,
		builder.SessionWithProducer(producer),
		builder.SessionWithUploader(uploader),
		builder.SessionWithHostProbes(idle, idle),
	)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Kind != builder.KindTI {
		t.Fatalf("expected TI, got %v", s.Kind)
	}
	if err := s.Arm(); err != nil {
		t.Fatalf("Arm: %v", err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Controller.Wait(ctx); err != nil {
		t.Fatalf("Wait: %v", err)
	}
	if err := s.Close(ctx); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if got := s.Meter.GetMetricCount(builder.MetricRepetitionCompletedCount); got != 1 {
		t.Fatalf("expected one completed repetition, got %d", got)
	}

	data, err := os.ReadFile(s.Log.Path())
	if err != nil {
		t.Fatalf("read session log: %v", err)
	}
	if !strings.Contains(string(data), "\nprotocol,TI") || !strings.Contains(string(data), "\nevent,run") {
		t.Fatalf("session log missing run record:\n%s", data)
	}

	producer.mu.Lock()
	published := len(producer.msgs)
	producer.mu.Unlock()
	if published == 0 {
		t.Fatalf("expected session events on the producer")
	}

	uploader.mu.Lock()
	defer uploader.mu.Unlock()
	if len(uploader.keys) != 2 {
		t.Fatalf("expected events and waveform objects, got %v", uploader.keys)
	}
	if !strings.Contains(uploader.keys[0], "/S01/ses1/"+s.Controller.RunID()+"/") {
		t.Fatalf("unexpected key %q", uploader.keys[0])
	}
}

func TestSession_BlindModeResolvesFromTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "assignments.yaml")
	table := "sessions: [ses1]\nsubjects:\n  - id: S01\n    protocols: {ses1: cTBS}\n"
	if err := os.WriteFile(path, []byte(table), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg := testConfig(t)
	cfg.Session.Blind = true
	cfg.Session.AssignmentFile = path
	cfg.SessionLog.Enabled = false

	s, err := builder.NewSession(context.Background(), cfg, builder.SessionWithHostProbes(idle, idle))
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if s.Kind != builder.KindCTBS {
		t.Fatalf("expected cTBS, got %v", s.Kind)
	}
	if s.Log != nil || s.Events != nil || s.Archive != nil {
		t.Fatalf("expected disabled collaborators to stay nil")
	}

	cfg.Session.Subject = "S99"
	if _, err := builder.NewSession(context.Background(), cfg); !errors.Is(err, builder.ErrProtocolLookup) {
		t.Fatalf("expected ErrProtocolLookup for unknown subject, got %v", err)
	}
}

func TestSession_RejectsUnknownArchiveCompression(t *testing.T) {
	cfg := testConfig(t)
	cfg.SessionLog.Enabled = false
	cfg.Archive.Bucket = "lab-archive"
	cfg.Archive.Compression = "rar"

	_, err := builder.NewSession(context.Background(), cfg, builder.SessionWithUploader(&fakeUploader{}))
	if !errors.Is(err, builder.ErrConfig) {
		t.Fatalf("expected ErrConfig, got %v", err)
	}
}

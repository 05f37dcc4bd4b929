package eventbus_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/hummel-lab/tistim/pkg/internal/eventbus"
	"github.com/hummel-lab/tistim/pkg/internal/sensor"
	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

type fakeProducer struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	fail   error
	closed bool
}

func (f *fakeProducer) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeProducer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func TestPublisher_AttachPublishesSensorHooks(t *testing.T) {
	prod := &fakeProducer{}
	p := eventbus.NewPublisher(
		eventbus.WithProducer(prod, "lab.sessions"),
		eventbus.WithSubject("S01", "ses1"),
		eventbus.WithRunID(func() string { return "run-7" }),
		eventbus.WithBatch(2, time.Millisecond),
	)
	s := sensor.NewSensor()
	p.Attach(s)
	p.Start(context.Background())

	meta := types.ComponentMetadata{Type: "CONTROLLER"}
	params := types.DefaultParameters()
	s.InvokeOnRepetitionStart(meta, 1, types.KindITBS, params)
	s.InvokeOnStateChange(meta, types.StateArmed, types.StateStreaming)
	s.InvokeOnUpdateRejected(meta, 1, errors.New("pulse too long"))
	s.InvokeOnComplete(meta, 1)

	if err := p.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	prod.mu.Lock()
	defer prod.mu.Unlock()
	if !prod.closed {
		t.Fatalf("expected producer closed")
	}
	if len(prod.msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(prod.msgs))
	}

	var first eventbus.Record
	if err := json.Unmarshal(prod.msgs[0].Value, &first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if first.Event != "repetition_start" || first.Subject != "S01" || first.Session != "ses1" ||
		first.RunID != "run-7" || first.Protocol != "iTBS" || first.Params == nil || first.Params.TotalTime != 20 {
		t.Fatalf("unexpected record %+v", first)
	}
	if first.ParamsHash == "" || first.ParamsHash != utils.GenerateSha256Hash(params) {
		t.Fatalf("expected parameter fingerprint, got %q", first.ParamsHash)
	}
	if string(prod.msgs[0].Key) != "run-7" {
		t.Fatalf("expected run id key, got %q", prod.msgs[0].Key)
	}
	if v := prod.msgs[0].Value; v[len(v)-1] != '\n' {
		t.Fatalf("expected newline-delimited value")
	}

	var state, rejected eventbus.Record
	_ = json.Unmarshal(prod.msgs[1].Value, &state)
	_ = json.Unmarshal(prod.msgs[2].Value, &rejected)
	if state.State != "Stimulation Ongoing" {
		t.Fatalf("unexpected state record %+v", state)
	}
	if rejected.Error != "pulse too long" {
		t.Fatalf("unexpected rejection record %+v", rejected)
	}

	published, dropped, failed := p.Stats()
	if published != 4 || dropped != 0 || failed != 0 {
		t.Fatalf("unexpected stats %d/%d/%d", published, dropped, failed)
	}
}

func TestPublisher_FailedBatchIsCounted(t *testing.T) {
	prod := &fakeProducer{fail: errors.New("broker down")}
	p := eventbus.NewPublisher(eventbus.WithProducer(prod, ""), eventbus.WithBatch(1, time.Millisecond))
	p.Start(context.Background())
	p.Publish(eventbus.Record{Event: "start"})

	deadline := time.After(2 * time.Second)
	for {
		if _, _, failed := p.Stats(); failed == 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatalf("timeout waiting for failed batch")
		case <-time.After(time.Millisecond):
		}
	}
	_ = p.Stop()
}

func TestPublisher_DropsWhenQueueFull(t *testing.T) {
	p := eventbus.NewPublisher(eventbus.WithProducer(&fakeProducer{}, ""), eventbus.WithQueueSize(1))
	p.Publish(eventbus.Record{Event: "a"})
	p.Publish(eventbus.Record{Event: "b"})
	if _, dropped, _ := p.Stats(); dropped != 1 {
		t.Fatalf("expected one dropped record, got %d", dropped)
	}
}

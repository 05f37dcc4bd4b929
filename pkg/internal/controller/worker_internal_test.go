package controller

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// edgeSink reports whatever trigger state the test sets in fired.
type edgeSink struct {
	mu       sync.Mutex
	fired    bool
	stops    int
	starts   int
	disables int
	writes   []int
}

func (s *edgeSink) Open(ctx context.Context) error                     { return nil }
func (s *edgeSink) Configure(rate float64, samples int) error          { return nil }
func (s *edgeSink) ConfigureTrigger(source string, e types.Edge) error { return nil }
func (s *edgeSink) IsDone() (bool, error)                              { return false, nil }
func (s *edgeSink) Close() error                                       { return nil }
func (s *edgeSink) WaitUntilDone(timeout time.Duration) error          { return nil }

func (s *edgeSink) DisableTrigger() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.disables++
	return nil
}

func (s *edgeSink) Write(buf types.Buffer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, buf.Len())
	return nil
}

func (s *edgeSink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts++
	return nil
}

func (s *edgeSink) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
	return nil
}

func (s *edgeSink) Triggered() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fired, nil
}

type fixedSynth struct{ rampDowns int }

func (f *fixedSynth) Synthesize(kind types.Kind, p types.Parameters, rampup bool) (types.TimeAxis, types.Buffer, error) {
	return types.NewTimeAxis(1000, 7, 0), types.NewBuffer(1000, 7), nil
}

func (f *fixedSynth) RampDown(p types.Parameters) (types.TimeAxis, types.Buffer, error) {
	f.rampDowns++
	return types.NewTimeAxis(1000, 5, 0), types.NewBuffer(1000, 5), nil
}

func (f *fixedSynth) SampleRate() float64 { return 1000 }

type recorder struct {
	states []types.State
	events []types.EventType
}

func (r *recorder) transition(to types.State)    { r.states = append(r.states, to) }
func (r *recorder) report(ev types.SessionEvent) { r.events = append(r.events, ev.Type) }

func (r *recorder) lastState() types.State {
	if len(r.states) == 0 {
		return types.StateIdle
	}
	return r.states[len(r.states)-1]
}

func sameEvents(got []types.EventType, want ...types.EventType) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

// armedWorker returns a worker whose repetition has an armed trigger that the last poll saw
// as not yet fired.
func armedWorker(fired bool) (*worker, *repetition, *edgeSink, *fixedSynth, *recorder) {
	sink := &edgeSink{fired: fired}
	synth := &fixedSynth{}
	rec := &recorder{}
	p := types.DefaultParameters()
	p.Trigger = true
	w := &worker{sink: sink, synth: synth, kind: types.KindITBS, params: p, reporter: rec}
	rep := &repetition{index: 1, triggerArmed: true, open: true}
	return w, rep, sink, synth, rec
}

func TestWorkerStop_EdgeSinceLastPollRampsDown(t *testing.T) {
	w, rep, sink, synth, rec := armedWorker(true)
	if err := w.stop(rep); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if rep.aborted || !rep.stopping || !rep.triggered {
		t.Fatalf("expected a ramp-down stop, got %+v", rep)
	}
	if synth.rampDowns != 1 || sink.disables != 1 || rep.triggerArmed {
		t.Fatalf("expected ramp-down with trigger disarmed, rampDowns=%d disables=%d", synth.rampDowns, sink.disables)
	}
	if !sameEvents(rec.events, types.EventTriggered, types.EventStop) {
		t.Fatalf("unexpected events %v", rec.events)
	}
}

func TestWorkerStop_BeforeEdgeAborts(t *testing.T) {
	w, rep, sink, synth, rec := armedWorker(false)
	if err := w.stop(rep); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if !rep.aborted || synth.rampDowns != 0 || sink.disables != 1 {
		t.Fatalf("expected abort without ramp-down, rep=%+v rampDowns=%d", rep, synth.rampDowns)
	}
	if !sameEvents(rec.events, types.EventStop) {
		t.Fatalf("unexpected events %v", rec.events)
	}
}

func TestWorkerUpdate_EdgeSinceLastPollDisarmsTrigger(t *testing.T) {
	w, rep, sink, _, rec := armedWorker(true)
	if err := w.update(rep, w.params); err != nil {
		t.Fatalf("update: %v", err)
	}
	if sink.disables != 1 || rep.triggerArmed {
		t.Fatalf("expected the restart to run without the trigger, disables=%d", sink.disables)
	}
	if !sameEvents(rec.events, types.EventTriggered, types.EventUpdate) {
		t.Fatalf("unexpected events %v", rec.events)
	}
	if rec.lastState() != types.StateStreaming {
		t.Fatalf("expected Streaming, got %s", rec.lastState())
	}
}

func TestWorkerUpdate_BeforeEdgeKeepsTriggerArmed(t *testing.T) {
	w, rep, sink, _, rec := armedWorker(false)
	if err := w.update(rep, w.params); err != nil {
		t.Fatalf("update: %v", err)
	}
	if sink.disables != 0 || !rep.triggerArmed || sink.starts != 1 {
		t.Fatalf("expected the new buffer to wait on the trigger, disables=%d starts=%d", sink.disables, sink.starts)
	}
	if rec.lastState() != types.StateWaitingForTrigger {
		t.Fatalf("expected Waiting for Trigger, got %s", rec.lastState())
	}
}

func TestCloseCommands_ReportsUnreadUpdateAndRefusesLaterSends(t *testing.T) {
	c := NewController(WithSink(&edgeSink{}), WithPollInterval(time.Millisecond))

	// The worker has returned but done is still open.
	atomic.StoreInt32(&c.running, 1)
	c.done = make(chan struct{})
	c.commands = make(chan types.Command, 2)
	c.accepting = true

	if err := c.RequestUpdate(types.DefaultParameters()); err != nil {
		t.Fatalf("RequestUpdate: %v", err)
	}
	c.closeCommands()

	if err := c.RequestStop(); !errors.Is(err, ErrNotRunning) {
		t.Fatalf("expected ErrNotRunning after the queue closed, got %v", err)
	}
	select {
	case ev := <-c.Events():
		if ev.Type != types.EventUpdateDiscarded {
			t.Fatalf("expected update_discarded, got %s", ev.Type)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for the discarded update")
	}
	if len(c.commands) != 0 {
		t.Fatalf("expected the queue drained, %d left", len(c.commands))
	}
}

func TestSend_WaitsForRoomInFullQueue(t *testing.T) {
	c := NewController(WithSink(&edgeSink{}), WithPollInterval(time.Millisecond))
	atomic.StoreInt32(&c.running, 1)
	c.done = make(chan struct{})
	c.commands = make(chan types.Command, 1)
	c.accepting = true
	c.commands <- types.Command{Type: types.CommandUpdate}

	sent := make(chan error, 1)
	go func() { sent <- c.RequestStop() }()

	select {
	case err := <-sent:
		t.Fatalf("expected send to wait on a full queue, got %v", err)
	case <-time.After(10 * time.Millisecond):
	}
	<-c.commands

	select {
	case err := <-sent:
		if err != nil {
			t.Fatalf("RequestStop: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("timeout waiting for the queued stop")
	}
	if cmd := <-c.commands; cmd.Type != types.CommandStop {
		t.Fatalf("expected the stop queued, got %s", cmd.Type)
	}
}

func TestSetters_PanicWhileRunning(t *testing.T) {
	c := NewController()
	c.SetPollInterval(time.Millisecond)
	c.SetTrigger("/Dev1/PFI1", types.FallingEdge)
	if c.pollInterval != time.Millisecond || c.triggerEdge != types.FallingEdge {
		t.Fatalf("expected setters applied before a session")
	}

	atomic.StoreInt32(&c.running, 1)
	setters := map[string]func(){
		"SetSink":          func() { c.SetSink(&edgeSink{}) },
		"SetSynthesizer":   func() { c.SetSynthesizer(&fixedSynth{}) },
		"SetTrigger":       func() { c.SetTrigger("", types.RisingEdge) },
		"SetPollInterval":  func() { c.SetPollInterval(time.Second) },
		"SetCommandBuffer": func() { c.SetCommandBuffer(4) },
	}
	for name, set := range setters {
		func() {
			defer func() {
				if recover() == nil {
					t.Fatalf("%s: expected panic while running", name)
				}
			}()
			set()
		}()
	}
}

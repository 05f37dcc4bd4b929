package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// reporter is the worker's only path back to the controller.
type reporter interface {
	transition(to types.State)
	report(ev types.SessionEvent)
}

// worker runs one session. It owns its buffer and parameter snapshot exclusively.
type worker struct {
	sink          types.Sink
	synth         types.Synthesizer
	triggerSource string
	triggerEdge   types.Edge
	pollInterval  time.Duration

	kind   types.Kind
	params types.Parameters
	buf    types.Buffer
	// stale marks buf as out of date after an update; the next repetition re-synthesizes it.
	stale bool

	commands <-chan types.Command
	reporter reporter
}

// repetition holds per-hardware-session state.
type repetition struct {
	index        int
	triggerArmed bool
	triggered    bool
	stopping     bool
	// aborted is set when a stop arrives before the trigger fired; nothing was played, so
	// there is nothing to ramp down.
	aborted bool
	open    bool
}

// run plays up to params.Repetitions repetitions. The repetition count is fixed when the
// session starts.
func (w *worker) run(ctx context.Context) error {
	total := w.params.Repetitions
	for i := 1; i <= total; i++ {
		if ctx.Err() != nil {
			return nil
		}
		if w.stale {
			_, buf, err := w.synth.Synthesize(w.kind, w.params, true)
			if err != nil {
				return err
			}
			w.buf = buf
			w.stale = false
		}
		stopped, err := w.play(ctx, i)
		if err != nil {
			return err
		}
		if stopped {
			return nil
		}
	}
	return nil
}

// play runs a single hardware session and reports whether a stop ended it.
func (w *worker) play(ctx context.Context, index int) (bool, error) {
	rep := &repetition{index: index, triggered: !w.params.Trigger}

	err := w.stream(ctx, rep)
	if rep.open {
		if cerr := w.sink.Close(); cerr != nil && err == nil {
			err = hardwareError("close", cerr)
		}
	}
	if err != nil {
		return false, err
	}
	w.reporter.report(types.SessionEvent{Type: types.EventRepetitionComplete, Repetition: index})
	return rep.stopping, nil
}

func (w *worker) stream(ctx context.Context, rep *repetition) error {
	if err := w.sink.Open(ctx); err != nil {
		return hardwareError("open", err)
	}
	rep.open = true

	if err := w.sink.Configure(w.synth.SampleRate(), w.buf.Len()); err != nil {
		return hardwareError("configure", err)
	}
	if w.params.Trigger {
		if err := w.sink.ConfigureTrigger(w.triggerSource, w.triggerEdge); err != nil {
			return hardwareError("configure trigger", err)
		}
		rep.triggerArmed = true
	}
	if err := w.sink.Write(w.buf); err != nil {
		return hardwareError("write", err)
	}
	if err := w.sink.Start(); err != nil {
		return hardwareError("start", err)
	}

	w.reporter.transition(w.resumeState(rep))
	w.reporter.report(types.SessionEvent{
		Type:       types.EventRepetitionStart,
		Kind:       w.kind,
		Repetition: rep.index,
		Params:     w.params,
		Samples:    w.buf.Len(),
	})

	if err := w.poll(ctx, rep); err != nil {
		return err
	}
	if rep.aborted {
		return nil
	}
	if err := w.sink.WaitUntilDone(types.WaitInfinitely); err != nil {
		return hardwareError("wait", err)
	}
	return nil
}

// poll serves commands until the sink reports the buffer has played out.
func (w *worker) poll(ctx context.Context, rep *repetition) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()
	cancelled := ctx.Done()

	for {
		if err := w.checkTrigger(rep); err != nil {
			return err
		}

		done, err := w.sink.IsDone()
		if err != nil {
			return hardwareError("is done", err)
		}
		if done || rep.aborted {
			return nil
		}

		stop, update := w.drain(rep)
		switch {
		case rep.stopping:
		case stop:
			if err := w.stop(rep); err != nil {
				return err
			}
		case update != nil:
			if err := w.update(rep, *update); err != nil {
				return err
			}
		}

		select {
		case <-ticker.C:
		case <-cancelled:
			cancelled = nil
			if !rep.stopping {
				if err := w.stop(rep); err != nil {
					return err
				}
			}
		}
	}
}

func (w *worker) checkTrigger(rep *repetition) error {
	if rep.triggered {
		return nil
	}
	tr, ok := w.sink.(types.TriggerReporter)
	if !ok {
		rep.triggered = true
	} else {
		fired, err := tr.Triggered()
		if err != nil {
			return hardwareError("trigger status", err)
		}
		if !fired {
			return nil
		}
		rep.triggered = true
	}
	w.reporter.report(types.SessionEvent{Type: types.EventTriggered, Repetition: rep.index})
	w.reporter.transition(types.StateStreaming)
	return nil
}

// drain empties the command channel. A stop wins over any update seen in the same drain,
// and later updates replace earlier ones. Everything is discarded during a ramp-down.
func (w *worker) drain(rep *repetition) (bool, *types.Parameters) {
	var (
		stop   bool
		latest *types.Parameters
	)
	for {
		select {
		case cmd := <-w.commands:
			switch cmd.Type {
			case types.CommandStop:
				stop = true
			case types.CommandUpdate:
				p := cmd.Params
				if latest != nil {
					w.discard(rep, *latest)
				}
				latest = &p
			}
		default:
			if latest != nil && (stop || rep.stopping) {
				w.discard(rep, *latest)
				latest = nil
			}
			return stop, latest
		}
	}
}

func (w *worker) discard(rep *repetition, params types.Parameters) {
	w.reporter.report(types.SessionEvent{
		Type:       types.EventUpdateDiscarded,
		Kind:       w.kind,
		Repetition: rep.index,
		Params:     params,
	})
}

// update retargets the output in place. The new buffer is synthesized before the sink is
// paused, so a rejected update leaves the current output untouched.
func (w *worker) update(rep *repetition, params types.Parameters) error {
	w.reporter.transition(types.StateUpdating)

	_, buf, err := w.synth.Synthesize(w.kind, params, false)
	if err != nil {
		w.reporter.transition(w.resumeState(rep))
		w.reporter.report(types.SessionEvent{
			Type:       types.EventUpdateRejected,
			Kind:       w.kind,
			Repetition: rep.index,
			Params:     params,
			Err:        err,
		})
		return nil
	}

	if err := w.replace(rep, buf); err != nil {
		return err
	}
	w.params = params
	w.stale = true

	w.reporter.report(types.SessionEvent{
		Type:       types.EventUpdate,
		Kind:       w.kind,
		Repetition: rep.index,
		Params:     params,
		Samples:    buf.Len(),
	})
	w.reporter.transition(w.resumeState(rep))
	return nil
}

// stop swaps in the ramp-down buffer at the current amplitudes and marks the session to end
// once it has played.
func (w *worker) stop(rep *repetition) error {
	// The edge may have fired since the last poll; aborting then would cut live output.
	if err := w.checkTrigger(rep); err != nil {
		return err
	}
	if !rep.triggered {
		return w.abort(rep)
	}
	_, buf, err := w.synth.RampDown(w.params)
	if err != nil {
		return err
	}
	w.reporter.transition(types.StateRampingDown)
	if err := w.replace(rep, buf); err != nil {
		return err
	}
	rep.stopping = true

	w.reporter.report(types.SessionEvent{
		Type:       types.EventStop,
		Kind:       w.kind,
		Repetition: rep.index,
		Params:     w.params,
		Samples:    buf.Len(),
	})
	return nil
}

// abort ends a repetition that is still waiting for its trigger.
func (w *worker) abort(rep *repetition) error {
	w.reporter.transition(types.StateRampingDown)
	if err := w.sink.Stop(); err != nil {
		return hardwareError("stop", err)
	}
	if rep.triggerArmed {
		if err := w.sink.DisableTrigger(); err != nil {
			return hardwareError("disable trigger", err)
		}
		rep.triggerArmed = false
	}
	rep.stopping = true
	rep.aborted = true

	w.reporter.report(types.SessionEvent{
		Type:       types.EventStop,
		Kind:       w.kind,
		Repetition: rep.index,
		Params:     w.params,
	})
	return nil
}

// replace pauses the sink and restarts it on buf. Once output has begun the trigger is
// disarmed first so the restart cannot wait on or re-fire the start line; before that the
// trigger stays armed and the new buffer still waits for it. The trigger is re-read before
// the sink stops, since a one-shot edge missed here would never come again.
func (w *worker) replace(rep *repetition, buf types.Buffer) error {
	if err := w.checkTrigger(rep); err != nil {
		return err
	}
	if err := w.sink.Stop(); err != nil {
		return hardwareError("stop", err)
	}
	if rep.triggerArmed && rep.triggered {
		if err := w.sink.DisableTrigger(); err != nil {
			return hardwareError("disable trigger", err)
		}
		rep.triggerArmed = false
	}
	if err := w.sink.Configure(w.synth.SampleRate(), buf.Len()); err != nil {
		return hardwareError("configure", err)
	}
	if err := w.sink.Write(buf); err != nil {
		return hardwareError("write", err)
	}
	return hardwareError("start", w.sink.Start())
}

func (w *worker) resumeState(rep *repetition) types.State {
	if rep.triggered {
		return types.StateStreaming
	}
	return types.StateWaitingForTrigger
}

// hardwareError tags a sink failure as ErrHardware. A nil err stays nil.
func hardwareError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, types.ErrHardware) {
		return fmt.Errorf("%s: %w", op, err)
	}
	return fmt.Errorf("%w: %s: %w", types.ErrHardware, op, err)
}

package controller

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

var (
	// ErrRunning is returned when an operation needs an idle or armed controller.
	ErrRunning = errors.New("controller: session already running")
	// ErrNotArmed is returned by Run before a successful Create.
	ErrNotArmed = errors.New("controller: no armed buffer")
	// ErrNotRunning is returned by update and stop requests outside a session.
	ErrNotRunning = errors.New("controller: no session running")
)

// Create synthesizes the buffer for kind with a ramp-up prefix and arms the controller.
// A failed synthesis leaves the previous state untouched.
func (c *Controller) Create(kind types.Kind, params types.Parameters) error {
	if atomic.LoadInt32(&c.running) == 1 {
		return ErrRunning
	}
	if kind == types.KindNone {
		return fmt.Errorf("%w: no protocol selected", types.ErrDomain)
	}

	c.mu.Lock()
	synth := c.synth
	c.mu.Unlock()

	axis, buf, err := synth.Synthesize(kind, params, true)
	if err != nil {
		c.NotifyLoggers(types.ErrorLevel, "Create failed",
			"component", c.GetComponentMetadata(),
			"event", "Create",
			"result", "FAILURE",
			"protocol", kind,
			"error", err,
		)
		return err
	}

	c.mu.Lock()
	c.kind = kind
	c.params = params
	c.axis = axis
	c.buf = buf
	c.mu.Unlock()

	c.transition(types.StateArmed)
	c.NotifyLoggers(types.InfoLevel, "Create",
		"component", c.GetComponentMetadata(),
		"event", "Create",
		"result", "SUCCESS",
		"protocol", kind,
		"samples", buf.Len(),
		"duration", buf.Duration(),
	)
	c.publish(types.SessionEvent{Type: types.EventArmed, Samples: buf.Len()})
	return nil
}

// Run launches the worker for the armed buffer and returns immediately.
// Cancelling ctx is treated as a stop request.
func (c *Controller) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	c.mu.Lock()
	sink := c.sink
	c.mu.Unlock()
	if sink == nil {
		return fmt.Errorf("%w: no sink configured", types.ErrHardware)
	}
	if c.State() != types.StateArmed {
		return ErrNotArmed
	}
	if !atomic.CompareAndSwapInt32(&c.running, 0, 1) {
		return ErrRunning
	}

	c.mu.Lock()
	c.runID = utils.NewRunID()
	w := &worker{
		sink:          sink,
		synth:         c.synth,
		triggerSource: c.triggerSource,
		triggerEdge:   c.triggerEdge,
		pollInterval:  c.pollInterval,
		kind:          c.kind,
		params:        c.params,
		buf:           c.buf,
		reporter:      c,
	}
	commands := make(chan types.Command, c.commandBuffer)
	w.commands = commands
	c.done = make(chan struct{})
	c.runErr = nil
	done := c.done
	c.mu.Unlock()

	c.cmdMu.Lock()
	c.commands = commands
	c.accepting = true
	c.cmdMu.Unlock()

	atomic.StoreInt32(&c.repetition, 0)
	c.notifyStart()

	go func() {
		err := w.run(ctx)
		c.closeCommands()
		c.finish(err)
		close(done)
	}()
	return nil
}

// RequestUpdate asks the worker to retarget the running output to params without a
// ramp-up. Invalid parameters are rejected here; synthesis failures are reported as
// EventUpdateRejected.
func (c *Controller) RequestUpdate(params types.Parameters) error {
	if err := params.Validate(); err != nil {
		return err
	}
	return c.send(types.Command{Type: types.CommandUpdate, Params: params})
}

// RequestStop asks the worker to ramp the output down and end the session after the
// current repetition.
func (c *Controller) RequestStop() error {
	return c.send(types.Command{Type: types.CommandStop})
}

func (c *Controller) send(cmd types.Command) error {
	c.mu.Lock()
	done, retry := c.done, c.pollInterval
	c.mu.Unlock()

	if atomic.LoadInt32(&c.running) == 0 || done == nil {
		return ErrNotRunning
	}
	for {
		queued, err := c.offer(cmd)
		if err != nil {
			return err
		}
		if queued {
			c.NotifyLoggers(types.DebugLevel, "Command queued",
				"component", c.GetComponentMetadata(),
				"event", "Command",
				"result", "SUCCESS",
				"command", cmd.Type.String(),
			)
			return nil
		}
		// Queue full: the worker drains it at its next poll.
		select {
		case <-done:
			return ErrNotRunning
		case <-time.After(retry):
		}
	}
}

// offer queues cmd without blocking. It fails once the worker has closed its queue, so an
// accepted command is always either served or reported by closeCommands.
func (c *Controller) offer(cmd types.Command) (bool, error) {
	c.cmdMu.Lock()
	defer c.cmdMu.Unlock()
	if !c.accepting {
		return false, ErrNotRunning
	}
	select {
	case c.commands <- cmd:
		return true, nil
	default:
		return false, nil
	}
}

// closeCommands stops accepting commands and reports any update the worker exited without
// reading as discarded.
func (c *Controller) closeCommands() {
	c.cmdMu.Lock()
	c.accepting = false
	commands := c.commands
	c.cmdMu.Unlock()

	for {
		select {
		case cmd := <-commands:
			if cmd.Type != types.CommandUpdate {
				c.NotifyLoggers(types.DebugLevel, "Stop after session end",
					"component", c.GetComponentMetadata(),
					"event", "Stop",
					"result", "DISCARDED",
				)
				continue
			}
			c.report(types.SessionEvent{
				Type:       types.EventUpdateDiscarded,
				Repetition: c.Repetition(),
				Params:     cmd.Params,
			})
		default:
			return
		}
	}
}

// Wait blocks until the worker exits and returns its fatal error, if any.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	done := c.done
	c.mu.Unlock()
	if done == nil {
		return nil
	}
	if ctx == nil {
		ctx = context.Background()
	}
	select {
	case <-done:
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.runErr
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Events returns the session event stream. Sends never block the worker.
func (c *Controller) Events() <-chan types.SessionEvent {
	return c.events
}

func (c *Controller) State() types.State {
	return types.State(atomic.LoadInt32(&c.state))
}

func (c *Controller) IsRunning() bool {
	return atomic.LoadInt32(&c.running) == 1
}

// Repetition returns the 1-based repetition in progress, or the last one run.
func (c *Controller) Repetition() int {
	return int(atomic.LoadInt32(&c.repetition))
}

// Params returns the parameters currently in effect, including applied updates.
func (c *Controller) Params() types.Parameters {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.params
}

// Kind returns the armed protocol kind.
func (c *Controller) Kind() types.Kind {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.kind
}

// Buffer returns the armed buffer and its time axis.
func (c *Controller) Buffer() (types.TimeAxis, types.Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.axis, c.buf
}

// RunID identifies the current or last session.
func (c *Controller) RunID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.runID
}

package daq

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

func (d *Device) fault(op string) error {
	if err, ok := d.faults[op]; ok && err != nil {
		return fmt.Errorf("%w: %s %s: %w", types.ErrHardware, d.name, op, err)
	}
	return nil
}

func (d *Device) hwError(op, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s %s: %s", types.ErrHardware, d.name, op, fmt.Sprintf(format, args...))
}

// Open starts a hardware session. Sessions do not nest.
func (d *Device) Open(ctx context.Context) error {
	if ctx != nil {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %s open: %w", types.ErrHardware, d.name, err)
		}
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault("open"); err != nil {
		return err
	}
	if d.open {
		return d.hwError("open", "session already open")
	}
	d.open = true
	d.rate, d.samples, d.written = 0, 0, false
	d.triggerArmed, d.triggered, d.running = false, false, false
	d.stats.Opens++
	d.notify("Open", "SUCCESS")
	return nil
}

// Configure sets finite-sample timing for both channels.
func (d *Device) Configure(rate float64, samples int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault("configure"); err != nil {
		return err
	}
	if !d.open {
		return d.hwError("configure", "session not open")
	}
	if d.running {
		return d.hwError("configure", "task is running")
	}
	if !(rate > 0) || rate > d.maxRate {
		return d.hwError("configure", "rate %v outside (0, %v]", rate, d.maxRate)
	}
	if samples <= 0 {
		return d.hwError("configure", "sample count %d must be > 0", samples)
	}
	d.rate, d.samples, d.written = rate, samples, false
	return nil
}

// ConfigureTrigger arms a digital-edge start trigger.
func (d *Device) ConfigureTrigger(source string, edge types.Edge) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault("configure_trigger"); err != nil {
		return err
	}
	if !d.open {
		return d.hwError("configure_trigger", "session not open")
	}
	if source == "" {
		source = d.TriggerSource()
	}
	d.triggerArmed, d.triggerSource, d.triggerEdge = true, source, edge
	return nil
}

// DisableTrigger removes the start trigger; the next Start begins immediately.
func (d *Device) DisableTrigger() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault("disable_trigger"); err != nil {
		return err
	}
	if !d.open {
		return d.hwError("disable_trigger", "session not open")
	}
	d.triggerArmed = false
	return nil
}

// Write loads buf. Its length must equal the configured sample count and every sample must
// lie within the output range.
func (d *Device) Write(buf types.Buffer) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault("write"); err != nil {
		return err
	}
	if !d.open {
		return d.hwError("write", "session not open")
	}
	if d.running {
		return d.hwError("write", "task is running")
	}
	if d.samples == 0 {
		return d.hwError("write", "timing not configured")
	}
	if len(buf.Ch1) != d.samples || len(buf.Ch2) != d.samples {
		return d.hwError("write", "buffer of %d/%d samples does not match configured %d", len(buf.Ch1), len(buf.Ch2), d.samples)
	}
	for i := 0; i < d.samples; i++ {
		if math.Abs(buf.Ch1[i]) > d.outputRange || math.Abs(buf.Ch2[i]) > d.outputRange {
			return d.hwError("write", "sample %d outside ±%vV", i, d.outputRange)
		}
	}
	d.buf = types.Buffer{
		Rate: buf.Rate,
		Ch1:  append([]float64(nil), buf.Ch1...),
		Ch2:  append([]float64(nil), buf.Ch2...),
	}
	d.written = true
	d.stats.Writes++
	d.stats.SamplesWritten += d.samples
	return nil
}

// Start begins playback, or waits for the trigger when one is armed.
func (d *Device) Start() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault("start"); err != nil {
		return err
	}
	if !d.open {
		return d.hwError("start", "session not open")
	}
	if !d.written {
		return d.hwError("start", "no buffer written")
	}
	if d.running {
		return d.hwError("start", "task already running")
	}
	d.running = true
	d.triggered = !d.triggerArmed
	d.startedAt = d.now()
	d.stats.Starts++
	if d.triggerArmed && d.autoTrigger > 0 {
		d.autoTimer = time.AfterFunc(d.autoTrigger, d.FireTrigger)
	}
	d.signalLocked()
	return nil
}

// FireTrigger simulates an edge on the armed trigger line. It is ignored unless the task is
// running and still waiting for its trigger.
func (d *Device) FireTrigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.running || !d.triggerArmed || d.triggered {
		return
	}
	d.triggered = true
	d.startedAt = d.now()
	d.stats.Triggers++
	d.notify("Trigger", "SUCCESS", "source", d.triggerSource, "edge", d.triggerEdge.String())
	d.signalLocked()
}

// Triggered reports whether playback has begun.
func (d *Device) Triggered() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return false, d.hwError("triggered", "session not open")
	}
	return d.running && d.triggered, nil
}

// IsDone reports whether the finite buffer has finished playing.
func (d *Device) IsDone() (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault("is_done"); err != nil {
		return false, err
	}
	if !d.open {
		return false, d.hwError("is_done", "session not open")
	}
	return d.doneLocked(d.now()), nil
}

// Stop halts playback. A later Start replays the written buffer from its first sample.
func (d *Device) Stop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.fault("stop"); err != nil {
		return err
	}
	if !d.open {
		return d.hwError("stop", "session not open")
	}
	d.stopLocked()
	d.stats.Stops++
	return nil
}

func (d *Device) stopLocked() {
	if d.autoTimer != nil {
		d.autoTimer.Stop()
		d.autoTimer = nil
	}
	if d.running {
		d.running = false
		d.triggered = false
		d.signalLocked()
	}
}

// Close ends the hardware session. Closing a closed device is a no-op.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.open {
		return nil
	}
	d.stopLocked()
	d.open = false
	d.stats.Closes++
	d.notify("Close", "SUCCESS")
	if err := d.fault("close"); err != nil {
		return err
	}
	return nil
}

// WaitUntilDone blocks until the buffer has played out. types.WaitInfinitely waits without
// a deadline; any other negative or zero timeout checks once.
func (d *Device) WaitUntilDone(timeout time.Duration) error {
	var deadline <-chan time.Time
	if timeout != types.WaitInfinitely {
		t := time.NewTimer(timeout)
		defer t.Stop()
		deadline = t.C
	}
	for {
		d.mu.Lock()
		if !d.open {
			d.mu.Unlock()
			return d.hwError("wait_until_done", "session not open")
		}
		now := d.now()
		if d.doneLocked(now) {
			d.mu.Unlock()
			return nil
		}
		remaining := d.remainingLocked(now)
		changed := d.changed
		d.mu.Unlock()

		var tick <-chan time.Time
		var timer *time.Timer
		if remaining >= 0 {
			timer = time.NewTimer(remaining)
			tick = timer.C
		}
		select {
		case <-tick:
		case <-changed:
		case <-deadline:
			if timer != nil {
				timer.Stop()
			}
			return d.hwError("wait_until_done", "timed out after %v", timeout)
		}
		if timer != nil {
			timer.Stop()
		}
	}
}

package daq

import (
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// WithName sets the device identifier, e.g. "Dev1".
func WithName(name string) types.Option[*Device] {
	return func(d *Device) {
		if name != "" {
			d.name = name
		}
	}
}

// WithSpeed plays buffers speed times faster than real time.
func WithSpeed(speed float64) types.Option[*Device] {
	return func(d *Device) {
		if speed > 0 {
			d.speed = speed
		}
	}
}

// WithMaxRate sets the highest accepted sample rate.
func WithMaxRate(rate float64) types.Option[*Device] {
	return func(d *Device) {
		if rate > 0 {
			d.maxRate = rate
		}
	}
}

// WithOutputRange sets the ±V output range.
func WithOutputRange(v float64) types.Option[*Device] {
	return func(d *Device) {
		if v > 0 {
			d.outputRange = v
		}
	}
}

// WithAutoTrigger fires the armed trigger delay after each Start.
func WithAutoTrigger(delay time.Duration) types.Option[*Device] {
	return func(d *Device) {
		d.autoTrigger = delay
	}
}

// WithFault makes op fail with err. Ops are open, configure, configure_trigger,
// disable_trigger, write, start, is_done, stop and close.
func WithFault(op string, err error) types.Option[*Device] {
	return func(d *Device) {
		d.faults[op] = err
	}
}

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) types.Option[*Device] {
	return func(d *Device) {
		if now != nil {
			d.now = now
		}
	}
}

// WithLogger registers loggers for the device.
func WithLogger(l ...types.Logger) types.Option[*Device] {
	return func(d *Device) {
		d.ConnectLogger(l...)
	}
}

package types

import (
	"context"
	"time"
)

// WaitInfinitely makes WaitUntilDone block until the finite buffer has played out.
const WaitInfinitely time.Duration = -1

// Edge selects the digital edge that gates a start trigger.
type Edge int

const (
	RisingEdge Edge = iota
	FallingEdge
)

func (e Edge) String() string {
	if e == FallingEdge {
		return "falling"
	}
	return "rising"
}

// Sink is a fixed-rate, finite-block, two-channel analog-output device.
// One Open/Close pair brackets a hardware session; the controller opens one
// session per repetition. All methods may block.
type Sink interface {
	Open(ctx context.Context) error
	Configure(rate float64, samples int) error
	ConfigureTrigger(source string, edge Edge) error
	DisableTrigger() error
	Write(buf Buffer) error
	Start() error
	IsDone() (bool, error)
	Stop() error
	Close() error
	WaitUntilDone(timeout time.Duration) error
}

// TriggerReporter is implemented by sinks that can tell whether an armed start
// trigger has fired yet.
type TriggerReporter interface {
	Triggered() (bool, error)
}

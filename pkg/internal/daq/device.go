// Package daq provides a simulated two-channel analog-output device. It plays finite
// buffers against the wall clock, honours a digital-edge start trigger that can be fired
// from software, and enforces the output range of the real hardware.
package daq

import (
	"sync"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

const (
	// DefaultDeviceName matches the simulated NI device used in the lab.
	DefaultDeviceName = "SimDev6341"
	// DefaultMaxRate is the AO update rate limit of a 6341 with two channels in use.
	DefaultMaxRate = 840_000.0
	// DefaultRange is the ±V output range.
	DefaultRange = 10.0
)

// Stats counts the operations a device has served.
type Stats struct {
	Opens          int
	Closes         int
	Writes         int
	Starts         int
	Stops          int
	Triggers       int
	SamplesWritten int
}

// Device is a simulated analog-output sink.
type Device struct {
	name              string
	speed             float64
	maxRate           float64
	outputRange       float64
	autoTrigger       time.Duration
	now               func() time.Time
	faults            map[string]error
	loggers           []types.Logger
	loggersLock       sync.Mutex
	componentMetadata types.ComponentMetadata

	mu            sync.Mutex
	open          bool
	rate          float64
	samples       int
	buf           types.Buffer
	written       bool
	triggerArmed  bool
	triggerSource string
	triggerEdge   types.Edge
	running       bool
	triggered     bool
	startedAt     time.Time
	autoTimer     *time.Timer
	changed       chan struct{}
	stats         Stats
}

// NewDevice returns a closed simulated device.
func NewDevice(options ...types.Option[*Device]) *Device {
	d := &Device{
		name:        DefaultDeviceName,
		speed:       1,
		maxRate:     DefaultMaxRate,
		outputRange: DefaultRange,
		now:         time.Now,
		faults:      make(map[string]error),
		changed:     make(chan struct{}),
		componentMetadata: types.ComponentMetadata{
			Type: "DAQ",
			ID:   utils.GenerateUniqueHash(),
		},
	}
	for _, opt := range options {
		opt(d)
	}
	d.componentMetadata.Name = d.name
	return d
}

// Name returns the device identifier.
func (d *Device) Name() string { return d.name }

// TriggerSource returns the default start-trigger line, /<device>/PFI0.
func (d *Device) TriggerSource() string { return "/" + d.name + "/PFI0" }

// Stats returns a snapshot of the operation counters.
func (d *Device) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// LastBuffer returns the most recently written buffer.
func (d *Device) LastBuffer() types.Buffer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.buf
}

// Position returns how many samples of the current buffer have played.
func (d *Device) Position() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.playedLocked(d.now())
}

// signalLocked wakes every WaitUntilDone caller.
func (d *Device) signalLocked() {
	close(d.changed)
	d.changed = make(chan struct{})
}

func (d *Device) playedLocked(now time.Time) int {
	if !d.running || !d.triggered || d.rate <= 0 {
		return 0
	}
	n := int(now.Sub(d.startedAt).Seconds() * d.rate * d.speed)
	if n > d.samples {
		n = d.samples
	}
	return n
}

func (d *Device) doneLocked(now time.Time) bool {
	if !d.running {
		return true
	}
	return d.triggered && d.playedLocked(now) >= d.samples
}

// remainingLocked returns the wall time until the buffer completes, or -1 while the device
// is still waiting for its trigger.
func (d *Device) remainingLocked(now time.Time) time.Duration {
	if !d.triggered {
		return -1
	}
	left := d.samples - d.playedLocked(now)
	if left <= 0 {
		return 0
	}
	secs := float64(left) / (d.rate * d.speed)
	return time.Duration(secs*float64(time.Second)) + time.Microsecond
}

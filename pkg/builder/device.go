package builder

import (
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/daq"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// DeviceStats counts the calls a simulated device has served.
type DeviceStats = daq.Stats

// NewDevice creates the simulated analog-output device.
func NewDevice(options ...types.Option[*daq.Device]) *daq.Device {
	return daq.NewDevice(options...)
}

// DeviceWithName sets the device name; the trigger source becomes /<name>/PFI0.
func DeviceWithName(name string) types.Option[*daq.Device] {
	return daq.WithName(name)
}

// DeviceWithSpeed plays buffers faster than real time.
func DeviceWithSpeed(speed float64) types.Option[*daq.Device] {
	return daq.WithSpeed(speed)
}

// DeviceWithMaxRate caps the accepted sample rate.
func DeviceWithMaxRate(rate float64) types.Option[*daq.Device] {
	return daq.WithMaxRate(rate)
}

// DeviceWithOutputRange sets the symmetric output voltage limit.
func DeviceWithOutputRange(v float64) types.Option[*daq.Device] {
	return daq.WithOutputRange(v)
}

// DeviceWithAutoTrigger fires the armed trigger after delay.
func DeviceWithAutoTrigger(delay time.Duration) types.Option[*daq.Device] {
	return daq.WithAutoTrigger(delay)
}

// DeviceWithLogger adds loggers to the device.
func DeviceWithLogger(l ...types.Logger) types.Option[*daq.Device] {
	return daq.WithLogger(l...)
}

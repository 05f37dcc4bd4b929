package controller

import (
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// WithSink sets the output device.
func WithSink(sink types.Sink) types.Option[*Controller] {
	return func(c *Controller) { c.SetSink(sink) }
}

// WithSynthesizer replaces the default protocol synthesizer.
func WithSynthesizer(s types.Synthesizer) types.Option[*Controller] {
	return func(c *Controller) { c.SetSynthesizer(s) }
}

// WithTrigger sets the digital start trigger line and edge used when the protocol enables
// triggering. An empty source lets the sink choose its default line.
func WithTrigger(source string, edge types.Edge) types.Option[*Controller] {
	return func(c *Controller) { c.SetTrigger(source, edge) }
}

// WithPollInterval sets how often the worker checks the sink and the command channel.
func WithPollInterval(d time.Duration) types.Option[*Controller] {
	return func(c *Controller) { c.SetPollInterval(d) }
}

// WithCommandBuffer sets the command channel capacity.
func WithCommandBuffer(n int) types.Option[*Controller] {
	return func(c *Controller) { c.SetCommandBuffer(n) }
}

// WithEventBuffer sets the event channel capacity. Events are dropped when the channel is
// full. The channel is fixed once the controller is built.
func WithEventBuffer(n int) types.Option[*Controller] {
	return func(c *Controller) {
		if n > 0 {
			c.events = make(chan types.SessionEvent, n)
		}
	}
}

func WithLogger(l ...types.Logger) types.Option[*Controller] {
	return func(c *Controller) {
		c.ConnectLogger(l...)
	}
}

func WithSensor(s ...types.Sensor) types.Option[*Controller] {
	return func(c *Controller) {
		c.ConnectSensor(s...)
	}
}

func WithComponentMetadata(name string, id string) types.Option[*Controller] {
	return func(c *Controller) {
		c.SetComponentMetadata(name, id)
	}
}

package builder

import (
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/controller"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// NewController creates the stream controller.
func NewController(options ...types.Option[*controller.Controller]) *controller.Controller {
	return controller.NewController(options...)
}

// ControllerWithSink sets the output device.
func ControllerWithSink(sink Sink) types.Option[*controller.Controller] {
	return controller.WithSink(sink)
}

// ControllerWithSynthesizer replaces the default synthesizer.
func ControllerWithSynthesizer(s Synthesizer) types.Option[*controller.Controller] {
	return controller.WithSynthesizer(s)
}

// ControllerWithTrigger sets the start-trigger source and edge.
func ControllerWithTrigger(source string, edge Edge) types.Option[*controller.Controller] {
	return controller.WithTrigger(source, edge)
}

// ControllerWithPollInterval sets how often the worker polls the device and its commands.
func ControllerWithPollInterval(d time.Duration) types.Option[*controller.Controller] {
	return controller.WithPollInterval(d)
}

// ControllerWithEventBuffer sets the capacity of the Events channel.
func ControllerWithEventBuffer(n int) types.Option[*controller.Controller] {
	return controller.WithEventBuffer(n)
}

// ControllerWithLogger adds loggers to the controller.
func ControllerWithLogger(l ...types.Logger) types.Option[*controller.Controller] {
	return controller.WithLogger(l...)
}

// ControllerWithSensor connects sensors to the controller.
func ControllerWithSensor(s ...types.Sensor) types.Option[*controller.Controller] {
	return controller.WithSensor(s...)
}

// ControllerWithComponentMetadata overrides the controller name and id.
func ControllerWithComponentMetadata(name string, id string) types.Option[*controller.Controller] {
	return controller.WithComponentMetadata(name, id)
}

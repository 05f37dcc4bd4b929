// Package controller runs a stimulation session against a device sink.
//
// A Controller owns the armed buffer and the session state. Run hands a read-only parameter
// snapshot and a bounded command channel to a single worker goroutine, which opens one
// hardware session per repetition, streams the buffer, and serves update and stop requests
// at each poll boundary. The worker reports back through session events and sensor hooks.
package controller

import (
	"sync"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/protocol"
	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

const (
	// DefaultPollInterval bounds stop latency while streaming.
	DefaultPollInterval = 50 * time.Millisecond
	// DefaultCommandBuffer is the capacity of the update/stop command channel.
	DefaultCommandBuffer = 8
	// DefaultEventBuffer is the capacity of the session event channel.
	DefaultEventBuffer = 256
)

// Controller is the session state machine.
type Controller struct {
	componentMetadata types.ComponentMetadata
	metadataLock      sync.Mutex

	sink          types.Sink
	synth         types.Synthesizer
	triggerSource string
	triggerEdge   types.Edge
	pollInterval  time.Duration
	commandBuffer int

	// Guarded by mu. Only the controller goroutine writes these; the worker reports changes
	// as events and the controller applies them in report.
	mu     sync.Mutex
	kind   types.Kind
	params types.Parameters
	axis   types.TimeAxis
	buf    types.Buffer
	runID  string

	state      int32
	running    int32
	repetition int32

	// cmdMu orders command sends against the worker closing its queue.
	cmdMu     sync.Mutex
	commands  chan types.Command
	accepting bool

	events chan types.SessionEvent
	done   chan struct{}
	runErr error

	loggers     []types.Logger
	loggersLock sync.Mutex
	sensors     []types.Sensor
	sensorLock  sync.Mutex
}

// NewController builds an idle controller. Without WithSynthesizer it synthesizes at the
// default sample rate.
func NewController(options ...types.Option[*Controller]) *Controller {
	c := &Controller{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "CONTROLLER",
		},
		triggerEdge:   types.RisingEdge,
		pollInterval:  DefaultPollInterval,
		commandBuffer: DefaultCommandBuffer,
		events:        make(chan types.SessionEvent, DefaultEventBuffer),
	}

	for _, option := range options {
		if option == nil {
			continue
		}
		option(c)
	}

	if c.synth == nil {
		c.synth = protocol.NewSynthesizer()
	}
	if c.triggerSource == "" {
		if ts, ok := c.sink.(interface{ TriggerSource() string }); ok {
			c.triggerSource = ts.TriggerSource()
		}
	}

	return c
}

var _ types.Controller = (*Controller)(nil)

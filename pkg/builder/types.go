// Package builder is the public facade over the tistim components. It re-exports the domain
// types and wraps the internal constructors so programs outside this module can assemble a
// stimulation session without importing internal packages.
package builder

import "github.com/hummel-lab/tistim/pkg/internal/types"

type (
	Buffer            = types.Buffer
	TimeAxis          = types.TimeAxis
	Parameters        = types.Parameters
	Kind              = types.Kind
	State             = types.State
	Edge              = types.Edge
	Sink              = types.Sink
	TriggerReporter   = types.TriggerReporter
	Synthesizer       = types.Synthesizer
	Controller        = types.Controller
	SessionEvent      = types.SessionEvent
	EventType         = types.EventType
	Logger            = types.Logger
	Sensor            = types.Sensor
	Meter             = types.Meter
	ComponentMetadata = types.ComponentMetadata
)

const (
	KindNone    = types.KindNone
	KindITBS    = types.KindITBS
	KindCTBS    = types.KindCTBS
	KindControl = types.KindControl
	KindTI      = types.KindTI
)

const (
	StateIdle              = types.StateIdle
	StateArmed             = types.StateArmed
	StateWaitingForTrigger = types.StateWaitingForTrigger
	StateStreaming         = types.StateStreaming
	StateUpdating          = types.StateUpdating
	StateRampingDown       = types.StateRampingDown
)

const (
	RisingEdge  = types.RisingEdge
	FallingEdge = types.FallingEdge
)

const (
	EventArmed              = types.EventArmed
	EventRepetitionStart    = types.EventRepetitionStart
	EventTriggered          = types.EventTriggered
	EventUpdate             = types.EventUpdate
	EventUpdateRejected     = types.EventUpdateRejected
	EventUpdateDiscarded    = types.EventUpdateDiscarded
	EventStop               = types.EventStop
	EventRepetitionComplete = types.EventRepetitionComplete
	EventComplete           = types.EventComplete
	EventFault              = types.EventFault
)

// DefaultSampleRate is the analog-output rate the synthesizer and device use unless told otherwise.
const DefaultSampleRate = types.DefaultSampleRate

// Sentinel errors. Match them with errors.Is.
var (
	ErrConfig          = types.ErrConfig
	ErrDomain          = types.ErrDomain
	ErrInvalidArgument = types.ErrInvalidArgument
	ErrHardware        = types.ErrHardware
	ErrProtocolLookup  = types.ErrProtocolLookup
)

// ParseKind resolves a protocol name such as "iTBS" or "TI".
func ParseKind(s string) (Kind, error) {
	return types.ParseKind(s)
}

// DefaultParameters returns the laboratory parameter defaults.
func DefaultParameters() Parameters {
	return types.DefaultParameters()
}

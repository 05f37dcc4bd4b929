package types

import (
	"context"
	"time"
)

// State is the stream controller state.
type State int32

const (
	StateIdle State = iota
	StateArmed
	StateWaitingForTrigger
	StateStreaming
	StateUpdating
	StateRampingDown
)

var stateLabels = map[State]string{
	StateIdle:              "Ready",
	StateArmed:             "Armed",
	StateWaitingForTrigger: "Waiting for Trigger",
	StateStreaming:         "Stimulation Ongoing",
	StateUpdating:          "Updating",
	StateRampingDown:       "Ramping Down",
}

// String returns the operator-facing status label.
func (s State) String() string {
	if l, ok := stateLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// CommandType enumerates the requests the controller thread may send to the worker.
type CommandType int

const (
	CommandUpdate CommandType = iota
	CommandStop
)

func (c CommandType) String() string {
	if c == CommandStop {
		return "stop"
	}
	return "update"
}

// Command is a single request on the worker's command channel. Params is only
// meaningful for CommandUpdate.
type Command struct {
	Type   CommandType
	Params Parameters
}

// EventType names a session event.
type EventType string

const (
	EventArmed              EventType = "armed"
	EventRepetitionStart    EventType = "repetition_start"
	EventTriggered          EventType = "triggered"
	EventUpdate             EventType = "update"
	EventUpdateRejected     EventType = "update_rejected"
	EventUpdateDiscarded    EventType = "update_discarded"
	EventStop               EventType = "stop"
	EventRepetitionComplete EventType = "repetition_complete"
	EventComplete           EventType = "complete"
	EventFault              EventType = "fault"
)

// SessionEvent is what the worker reports back to the controller thread.
type SessionEvent struct {
	RunID      string     `json:"run_id"`
	Time       time.Time  `json:"time"`
	Type       EventType  `json:"event"`
	State      State      `json:"-"`
	Kind       Kind       `json:"-"`
	Repetition int        `json:"repetition"`
	Params     Parameters `json:"params"`
	Samples    int        `json:"samples"`
	Err        error      `json:"-"`
}

// Controller is the session state machine driving a Sink.
type Controller interface {
	// Create synthesizes the armed buffer for kind with a ramp-up prefix.
	Create(kind Kind, params Parameters) error
	// Run starts the worker; it returns once the worker is launched.
	Run(ctx context.Context) error
	// RequestUpdate asks the worker to retarget the output to params in place.
	RequestUpdate(params Parameters) error
	// RequestStop asks the worker to ramp the output down and end the session.
	RequestStop() error
	// Wait blocks until the worker exits and returns its fatal error, if any.
	Wait(ctx context.Context) error
	Events() <-chan SessionEvent
	State() State
	IsRunning() bool
	Repetition() int

	ConnectLogger(...Logger)
	ConnectSensor(...Sensor)
	NotifyLoggers(level LogLevel, msg string, keysAndValues ...interface{})
	GetComponentMetadata() ComponentMetadata
	SetComponentMetadata(name string, id string)
}

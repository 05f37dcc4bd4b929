package types

// ComponentMetadata identifies a component in logs, sensor callbacks and session events.
type ComponentMetadata struct {
	ID   string // Unique identifier for the component.
	Type string // Component class, e.g. "CONTROLLER" or "SYNTHESIZER".
	Name string // Human-readable name for the component.
}

// Option configures a component of type T at construction time.
type Option[T any] func(T)

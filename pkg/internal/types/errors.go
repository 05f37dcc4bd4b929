package types

import (
	"errors"
	"fmt"
)

var (
	// ErrDomain reports parameters that cannot produce a waveform: a non-positive segment,
	// a pulse longer than its burst cycle, or an unknown direction or protocol kind.
	ErrDomain = errors.New("domain error")

	// ErrInvalidArgument is a domain error raised for a malformed primitive argument.
	ErrInvalidArgument = fmt.Errorf("%w: invalid argument", ErrDomain)

	// ErrConfig reports malformed or missing user input, or resolved parameters that
	// violate the parameter invariants.
	ErrConfig = errors.New("config error")

	// ErrHardware reports a sink open/configure/write/start failure. It is fatal to the run.
	ErrHardware = errors.New("hardware error")

	// ErrProtocolLookup reports an unknown or missing protocol assignment.
	ErrProtocolLookup = errors.New("protocol lookup error")
)

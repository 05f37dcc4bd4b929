// Package codec serializes waveform buffers and session records. Waveforms travel as a
// fixed binary frame whose sample payload may be compressed; records travel as
// newline-delimited JSON.
package codec

import (
	"io"
)

// Decoder reads one T from a stream.
type Decoder[T any] interface {
	Decode(io.Reader) (T, error)
}

// Encoder writes one T to a stream.
type Encoder[T any] interface {
	Encode(io.Writer, T) error
}

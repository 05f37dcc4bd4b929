package archive

import (
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/codec"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// WithUploader sets the object store client and target bucket.
func WithUploader(u Uploader, bucket string) types.Option[*Archive] {
	return func(a *Archive) {
		a.uploader = u
		a.bucket = bucket
	}
}

// WithPrefix sets the key prefix. Keys are <prefix>/<subject>/<session>/<run id>/<object>.
func WithPrefix(prefix string) types.Option[*Archive] {
	return func(a *Archive) {
		a.prefix = prefix
	}
}

// WithCompression selects the waveform blob compression.
func WithCompression(c codec.Compression) types.Option[*Archive] {
	return func(a *Archive) {
		a.compression = c
	}
}

func WithSubject(subject, session string) types.Option[*Archive] {
	return func(a *Archive) {
		a.subject = subject
		a.session = session
	}
}

func WithRunID(runID func() string) types.Option[*Archive] {
	return func(a *Archive) {
		a.runID = runID
	}
}

func WithClock(now func() time.Time) types.Option[*Archive] {
	return func(a *Archive) {
		if now != nil {
			a.now = now
		}
	}
}

func WithLogger(l ...types.Logger) types.Option[*Archive] {
	return func(a *Archive) {
		a.ConnectLogger(l...)
	}
}

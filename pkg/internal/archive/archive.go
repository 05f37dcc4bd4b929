// Package archive collects a session's events and synthesized waveform and uploads them to
// object storage when the session ends: the events as a parquet table and the waveform as
// a compressed binary frame.
package archive

import (
	"context"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/hummel-lab/tistim/pkg/internal/codec"
	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

// Uploader is the subset of *s3.Client the archive uses.
type Uploader interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// EventRow is one row of the archived event table.
type EventRow struct {
	TimeUnixNano   int64   `parquet:"time_unix_nano"`
	RunID          string  `parquet:"run_id"`
	Subject        string  `parquet:"subject"`
	Session        string  `parquet:"session"`
	Event          string  `parquet:"event"`
	State          string  `parquet:"state"`
	Protocol       string  `parquet:"protocol"`
	Repetition     int32   `parquet:"repetition"`
	Samples        int64   `parquet:"samples"`
	TotalTime      float64 `parquet:"total_time"`
	StimTime       float64 `parquet:"train_stim_time"`
	BreakTime      float64 `parquet:"train_break_time"`
	CarrierFreq    float64 `parquet:"carrier_freq"`
	PulseFreq      float64 `parquet:"pulse_freq"`
	BurstFreq      float64 `parquet:"burst_freq"`
	AmplitudeSum   float64 `parquet:"ampl_sum"`
	AmplitudeRatio float64 `parquet:"ampl_ratio"`
	Amplitude1     float64 `parquet:"ampl1"`
	Amplitude2     float64 `parquet:"ampl2"`
	Error          string  `parquet:"error"`
}

// Archive buffers one run's records in memory until Flush.
type Archive struct {
	componentMetadata types.ComponentMetadata
	uploader          Uploader
	bucket            string
	prefix            string
	compression       codec.Compression
	subject           string
	session           string
	runID             func() string
	now               func() time.Time

	mu       sync.Mutex
	rows     []EventRow
	waveform *codec.Frame

	loggers     []types.Logger
	loggersLock sync.Mutex
}

// New builds an archive. Without WithUploader, Flush fails.
func New(options ...types.Option[*Archive]) *Archive {
	a := &Archive{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "ARCHIVE",
		},
		prefix:      "tistim",
		compression: codec.CompressZstd,
		now:         time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}
	return a
}

// Rows returns a copy of the buffered event rows.
func (a *Archive) Rows() []EventRow {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]EventRow(nil), a.rows...)
}

// SetWaveform stores the buffer to upload alongside the events.
func (a *Archive) SetWaveform(f codec.Frame) {
	a.mu.Lock()
	a.waveform = &f
	a.mu.Unlock()
}

func (a *Archive) record(event string, rep int, kind types.Kind, params *types.Parameters, samples int, state string, err error) {
	row := EventRow{
		TimeUnixNano: a.now().UnixNano(),
		Subject:      a.subject,
		Session:      a.session,
		Event:        event,
		State:        state,
		Repetition:   int32(rep),
		Samples:      int64(samples),
	}
	if a.runID != nil {
		row.RunID = a.runID()
	}
	if kind != types.KindNone {
		row.Protocol = kind.String()
	}
	if params != nil {
		row.TotalTime = params.TotalTime
		row.StimTime = params.StimTime
		row.BreakTime = params.BreakTime
		row.CarrierFreq = params.CarrierFreq
		row.PulseFreq = params.PulseFreq
		row.BurstFreq = params.BurstFreq
		row.AmplitudeSum = params.AmplitudeSum
		row.AmplitudeRatio = params.AmplitudeRatio
		row.Amplitude1 = params.A1()
		row.Amplitude2 = params.A2()
	}
	if err != nil {
		row.Error = err.Error()
	}

	a.mu.Lock()
	a.rows = append(a.rows, row)
	a.mu.Unlock()
}

// Attach records every session hook fired on s.
func (a *Archive) Attach(s types.Sensor) {
	s.RegisterOnRepetitionStart(func(c types.ComponentMetadata, rep int, kind types.Kind, p types.Parameters) {
		a.record(string(types.EventRepetitionStart), rep, kind, &p, 0, "", nil)
	})
	s.RegisterOnStateChange(func(c types.ComponentMetadata, from, to types.State) {
		a.record("state_change", 0, types.KindNone, nil, 0, to.String(), nil)
	})
	s.RegisterOnTriggered(func(c types.ComponentMetadata, rep int) {
		a.record(string(types.EventTriggered), rep, types.KindNone, nil, 0, "", nil)
	})
	s.RegisterOnUpdate(func(c types.ComponentMetadata, rep int, kind types.Kind, p types.Parameters) {
		a.record(string(types.EventUpdate), rep, kind, &p, 0, "", nil)
	})
	s.RegisterOnUpdateRejected(func(c types.ComponentMetadata, rep int, err error) {
		a.record(string(types.EventUpdateRejected), rep, types.KindNone, nil, 0, "", err)
	})
	s.RegisterOnStop(func(c types.ComponentMetadata, rep int, kind types.Kind, p types.Parameters) {
		a.record(string(types.EventStop), rep, kind, &p, 0, "", nil)
	})
	s.RegisterOnSamplesWritten(func(c types.ComponentMetadata, samples int) {
		a.record("samples_written", 0, types.KindNone, nil, samples, "", nil)
	})
	s.RegisterOnRepetitionComplete(func(c types.ComponentMetadata, rep int) {
		a.record(string(types.EventRepetitionComplete), rep, types.KindNone, nil, 0, "", nil)
	})
	s.RegisterOnError(func(c types.ComponentMetadata, err error) {
		a.record(string(types.EventFault), 0, types.KindNone, nil, 0, "", err)
	})
	s.RegisterOnComplete(func(c types.ComponentMetadata, reps int) {
		a.record(string(types.EventComplete), reps, types.KindNone, nil, 0, "", nil)
	})
}

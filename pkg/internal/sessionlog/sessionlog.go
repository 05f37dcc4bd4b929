// Package sessionlog appends the resolved stimulation parameters of every run, update and
// stop to a per-subject CSV file of key,value lines. Files are only ever appended to.
package sessionlog

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"github.com/hummel-lab/tistim/pkg/internal/utils"
)

// DefaultDir is the directory used when none is configured.
const DefaultDir = "parameter_history"

const (
	EventRun    = "run"
	EventUpdate = "update"
	EventStop   = "stop"
)

// Log writes records for one subject and session.
type Log struct {
	componentMetadata types.ComponentMetadata
	dir               string
	subject           string
	session           string
	now               func() time.Time

	mu          sync.Mutex
	loggers     []types.Logger
	loggersLock sync.Mutex
}

// New returns a Log writing to <dir>/<subject>_<session>.csv. Nothing touches the disk until
// the first Append.
func New(dir, subject, session string, options ...types.Option[*Log]) *Log {
	if dir == "" {
		dir = DefaultDir
	}
	l := &Log{
		componentMetadata: types.ComponentMetadata{
			ID:   utils.GenerateUniqueHash(),
			Type: "SESSION_LOG",
		},
		dir:     dir,
		subject: subject,
		session: session,
		now:     time.Now,
	}
	for _, opt := range options {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// WithClock replaces the record timestamp source.
func WithClock(now func() time.Time) types.Option[*Log] {
	return func(l *Log) {
		if now != nil {
			l.now = now
		}
	}
}

func WithLogger(loggers ...types.Logger) types.Option[*Log] {
	return func(l *Log) {
		l.ConnectLogger(loggers...)
	}
}

// Path returns the file records are appended to.
func (l *Log) Path() string {
	name := utils.SafeFileComponent(l.subject) + "_" + utils.SafeFileComponent(l.session) + ".csv"
	return filepath.Join(l.dir, name)
}

// Append writes one record. The directory and file are created on demand.
func (l *Log) Append(event string, kind types.Kind, p types.Parameters, runID string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if err := utils.EnsureDir(l.dir); err != nil {
		return fmt.Errorf("session log: %w", err)
	}
	f, err := os.OpenFile(l.Path(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("session log: open %s: %w", l.Path(), err)
	}

	w := bufio.NewWriter(f)
	writeRecord(w, l.now(), l.subject, l.session, event, kind, p, runID)
	if err := w.Flush(); err != nil {
		_ = f.Close()
		return fmt.Errorf("session log: write %s: %w", l.Path(), err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("session log: close %s: %w", l.Path(), err)
	}

	l.NotifyLoggers(types.DebugLevel, "Session log appended",
		"component", l.componentMetadata,
		"event", "Append",
		"result", "SUCCESS",
		"subject", l.subject,
		"session", l.session,
		"path", l.Path(),
	)
	return nil
}

func writeRecord(w *bufio.Writer, ts time.Time, subject, session, event string, kind types.Kind, p types.Parameters, runID string) {
	line := func(k, v string) {
		fmt.Fprintf(w, "\n%s,%s", k, v)
	}
	line("time", ts.Format(time.ANSIC))
	line(subject, session)
	line("total_time", num(p.TotalTime))
	line("train_stim_time", num(p.StimTime))
	line("train_break_time", num(p.BreakTime))
	line("pulse_freq", num(p.PulseFreq))
	line("burst_freq", num(p.BurstFreq))
	line("carrier_freq", num(p.CarrierFreq))
	line("ampl_sum", num(p.AmplitudeSum))
	line("ampl_ratio", num(p.AmplitudeRatio))
	line("ampl1", num(p.A1()))
	line("ampl2", num(p.A2()))
	line("ramp_up_time", num(p.RampUpTime))
	line("ramp_down_time", num(p.RampDownTime))
	line("repetitions", strconv.Itoa(p.Repetitions))
	line("trigger", strconv.FormatBool(p.Trigger))
	line("protocol", kind.String())
	line("event", event)
	if runID != "" {
		line("run_id", runID)
	}
	w.WriteString("\n")
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Attach records a run at the first repetition, every applied update and every stop
// reported by s. runID is read at each record. Write failures are logged, never raised.
func (l *Log) Attach(s types.Sensor, runID func() string) {
	record := func(event string, kind types.Kind, p types.Parameters) {
		id := ""
		if runID != nil {
			id = runID()
		}
		if err := l.Append(event, kind, p, id); err != nil {
			l.NotifyLoggers(types.ErrorLevel, "Session log append failed",
				"component", l.componentMetadata,
				"event", "Append",
				"result", "FAILURE",
				"error", err,
			)
		}
	}
	s.RegisterOnRepetitionStart(func(c types.ComponentMetadata, rep int, kind types.Kind, p types.Parameters) {
		if rep == 1 {
			record(EventRun, kind, p)
		}
	})
	s.RegisterOnUpdate(func(c types.ComponentMetadata, rep int, kind types.Kind, p types.Parameters) {
		record(EventUpdate, kind, p)
	})
	s.RegisterOnStop(func(c types.ComponentMetadata, rep int, kind types.Kind, p types.Parameters) {
		record(EventStop, kind, p)
	})
}

func (l *Log) ConnectLogger(loggers ...types.Logger) {
	l.loggersLock.Lock()
	defer l.loggersLock.Unlock()
	for _, lg := range loggers {
		if lg != nil {
			l.loggers = append(l.loggers, lg)
		}
	}
}

func (l *Log) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	l.loggersLock.Lock()
	loggers := append([]types.Logger(nil), l.loggers...)
	l.loggersLock.Unlock()
	for _, lg := range loggers {
		if lg.GetLevel() > level {
			continue
		}
		switch level {
		case types.DebugLevel:
			lg.Debug(msg, keysAndValues...)
		case types.InfoLevel:
			lg.Info(msg, keysAndValues...)
		case types.WarnLevel:
			lg.Warn(msg, keysAndValues...)
		default:
			lg.Error(msg, keysAndValues...)
		}
	}
}

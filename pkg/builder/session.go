package builder

import (
	"context"
	"errors"
	"fmt"

	"github.com/hummel-lab/tistim/pkg/internal/archive"
	"github.com/hummel-lab/tistim/pkg/internal/assignment"
	"github.com/hummel-lab/tistim/pkg/internal/codec"
	"github.com/hummel-lab/tistim/pkg/internal/controller"
	"github.com/hummel-lab/tistim/pkg/internal/daq"
	"github.com/hummel-lab/tistim/pkg/internal/eventbus"
	"github.com/hummel-lab/tistim/pkg/internal/meter"
	"github.com/hummel-lab/tistim/pkg/internal/protocol"
	"github.com/hummel-lab/tistim/pkg/internal/sessionlog"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// Session is a fully wired stimulation session assembled from a Config. Log, Events and
// Archive are nil when their config section leaves them disabled.
type Session struct {
	Config     Config
	Kind       Kind
	Params     Parameters
	Logger     types.Logger
	Device     *daq.Device
	Synth      *protocol.Synthesizer
	Meter      *meter.Meter
	Sensor     types.Sensor
	Controller *controller.Controller
	Log        *sessionlog.Log
	Events     *eventbus.Publisher
	Archive    *archive.Archive

	sink     types.Sink
	logger   types.Logger
	producer eventbus.Producer
	uploader archive.Uploader
	hostLoad [2]func() (float64, error)
	devOpts  []types.Option[*daq.Device]
}

// SessionWithSink streams to sink instead of the simulated device.
func SessionWithSink(sink Sink) types.Option[*Session] {
	return func(s *Session) { s.sink = sink }
}

// SessionWithDeviceOptions applies extra options to the simulated device.
func SessionWithDeviceOptions(options ...types.Option[*daq.Device]) types.Option[*Session] {
	return func(s *Session) { s.devOpts = append(s.devOpts, options...) }
}

// SessionWithLogger replaces the logger built from the logging section.
func SessionWithLogger(l types.Logger) types.Option[*Session] {
	return func(s *Session) { s.logger = l }
}

// SessionWithProducer enables the event stream through p regardless of the kafka section.
func SessionWithProducer(p Producer) types.Option[*Session] {
	return func(s *Session) { s.producer = p }
}

// SessionWithUploader uploads the archive through u instead of an S3 client built from the
// archive section. archive.bucket still enables the archive.
func SessionWithUploader(u Uploader) types.Option[*Session] {
	return func(s *Session) { s.uploader = u }
}

// SessionWithHostProbes replaces the meter's CPU and memory probes.
func SessionWithHostProbes(cpu, mem func() (float64, error)) types.Option[*Session] {
	return func(s *Session) { s.hostLoad = [2]func() (float64, error){cpu, mem} }
}

// NewSession resolves the protocol and wires the device, synthesizer, controller and the
// enabled collaborators. Nothing is streamed until Arm and Start are called.
func NewSession(ctx context.Context, cfg Config, options ...types.Option[*Session]) (*Session, error) {
	s := &Session{Config: cfg, Params: cfg.Protocol}
	for _, opt := range options {
		opt(s)
	}

	kind, err := resolveKind(cfg)
	if err != nil {
		return nil, err
	}
	s.Kind = kind

	if s.Logger, err = s.buildLogger(); err != nil {
		return nil, err
	}

	devOpts := []types.Option[*daq.Device]{
		daq.WithName(cfg.Device.Name),
		daq.WithSpeed(cfg.Device.Speed),
		daq.WithLogger(s.Logger),
	}
	s.Device = daq.NewDevice(append(devOpts, s.devOpts...)...)
	sink := s.sink
	if sink == nil {
		sink = s.Device
	}

	s.Synth = protocol.NewSynthesizer(
		protocol.WithSampleRate(cfg.Device.SampleRate),
		protocol.WithLogger(s.Logger),
	)

	meterOpts := []types.Option[*meter.Meter]{meter.WithLogger(s.Logger)}
	if s.hostLoad[0] != nil && s.hostLoad[1] != nil {
		meterOpts = append(meterOpts, meter.WithHostProbes(s.hostLoad[0], s.hostLoad[1]))
	}
	s.Meter = meter.NewMeter(meterOpts...)

	s.Sensor = NewSensor(SensorWithLogger(s.Logger), SensorWithMeter(s.Meter))

	ctrlOpts := []types.Option[*controller.Controller]{
		controller.WithSink(sink),
		controller.WithSynthesizer(s.Synth),
		controller.WithPollInterval(cfg.PollInterval()),
		controller.WithLogger(s.Logger),
		controller.WithSensor(s.Sensor),
	}
	if cfg.Device.TriggerSource != "" {
		ctrlOpts = append(ctrlOpts, controller.WithTrigger(cfg.Device.TriggerSource, types.RisingEdge))
	}
	s.Controller = controller.NewController(ctrlOpts...)

	subject, session := cfg.Session.Subject, cfg.Session.Session

	if cfg.SessionLog.Enabled {
		s.Log = sessionlog.New(cfg.SessionLog.Dir, subject, session, sessionlog.WithLogger(s.Logger))
		s.Log.Attach(s.Sensor, s.Controller.RunID)
	}

	if s.producer != nil || len(cfg.Kafka.Brokers) > 0 {
		busOpts := []types.Option[*eventbus.Publisher]{
			eventbus.WithSubject(subject, session),
			eventbus.WithRunID(s.Controller.RunID),
			eventbus.WithLogger(s.Logger),
		}
		if s.producer != nil {
			busOpts = append(busOpts, eventbus.WithProducer(s.producer, cfg.Kafka.Topic))
		} else {
			busOpts = append(busOpts, eventbus.WithBrokers(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		}
		s.Events = eventbus.NewPublisher(busOpts...)
		s.Events.Attach(s.Sensor)
	}

	if cfg.Archive.Bucket != "" {
		uploader := s.uploader
		if uploader == nil {
			client, err := archive.NewS3Client(ctx, archive.ClientConfig{
				Region:   cfg.Archive.Region,
				Endpoint: cfg.Archive.Endpoint,
				RoleARN:  cfg.Archive.RoleARN,
			})
			if err != nil {
				return nil, err
			}
			uploader = client
		}
		compression, err := codec.ParseCompression(cfg.Archive.Compression)
		if err != nil {
			return nil, fmt.Errorf("%w: archive.compression: %w", types.ErrConfig, err)
		}
		s.Archive = archive.New(
			archive.WithUploader(uploader, cfg.Archive.Bucket),
			archive.WithPrefix(cfg.Archive.Prefix),
			archive.WithCompression(compression),
			archive.WithSubject(subject, session),
			archive.WithRunID(s.Controller.RunID),
			archive.WithLogger(s.Logger),
		)
		s.Archive.Attach(s.Sensor)
	}

	return s, nil
}

func resolveKind(cfg Config) (Kind, error) {
	if !cfg.Session.Blind {
		return types.ParseKind(cfg.Session.Protocol)
	}
	table, err := assignment.Load(cfg.Session.AssignmentFile)
	if err != nil {
		return types.KindNone, err
	}
	return table.Lookup(cfg.Session.Subject, cfg.Session.Session)
}

func (s *Session) buildLogger() (types.Logger, error) {
	if s.logger != nil {
		return s.logger, nil
	}
	l := NewLogger(
		LoggerWithLevel(s.Config.Logging.Level),
		LoggerWithDevelopment(s.Config.Logging.Development),
		LoggerWithSession(s.Config.Session.Subject, s.Config.Session.Session),
	)
	if s.Config.Logging.File != "" {
		if err := l.AddSink("file", FileSinkConfig(s.Config.Logging.File)); err != nil {
			return nil, fmt.Errorf("%w: logging.file: %w", types.ErrConfig, err)
		}
	}
	return l, nil
}

// Arm synthesizes the configured protocol with its ramp-up prefix. The archive, when
// enabled, keeps the armed waveform for upload.
func (s *Session) Arm() error {
	if err := s.Controller.Create(s.Kind, s.Params); err != nil {
		return err
	}
	if s.Archive != nil {
		axis, buf := s.Controller.Buffer()
		s.Archive.SetWaveform(codec.Frame{Kind: s.Kind, MainOnset: axis.MainOnset, Buffer: buf})
	}
	return nil
}

// Start launches the event publisher and the controller worker.
func (s *Session) Start(ctx context.Context) error {
	if s.Events != nil {
		s.Events.Start(ctx)
	}
	return s.Controller.Run(ctx)
}

// Close flushes the event stream, uploads the archive and flushes the logger. It should be
// called once the controller has finished.
func (s *Session) Close(ctx context.Context) error {
	var errs []error
	if s.Events != nil {
		if err := s.Events.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if s.Archive != nil {
		if _, err := s.Archive.Flush(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.Logger.Flush(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// Package config loads the controller configuration from a YAML file with TISTIM_*
// environment overrides, and validates operator-entered parameter text.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "TISTIM_"

// Config is the full configuration surface.
type Config struct {
	Device     DeviceConfig     `yaml:"device"`
	Session    SessionConfig    `yaml:"session"`
	Protocol   types.Parameters `yaml:"protocol"`
	Logging    LoggingConfig    `yaml:"logging"`
	SessionLog SessionLogConfig `yaml:"session_log"`
	Kafka      KafkaConfig      `yaml:"kafka"`
	Archive    ArchiveConfig    `yaml:"archive"`
}

// DeviceConfig selects and tunes the output device.
type DeviceConfig struct {
	Name           string  `yaml:"name"`
	SampleRate     float64 `yaml:"sample_rate"`
	TriggerSource  string  `yaml:"trigger_source"`
	PollIntervalMs int     `yaml:"poll_interval_ms"`
	// Speed plays simulated buffers faster than real time. 1 is real time.
	Speed float64 `yaml:"speed"`
}

// SessionConfig identifies the subject and session, and selects the protocol either by name
// or through a blinded assignment table.
type SessionConfig struct {
	Subject        string `yaml:"subject"`
	Session        string `yaml:"session"`
	Protocol       string `yaml:"protocol"`
	Blind          bool   `yaml:"blind"`
	AssignmentFile string `yaml:"assignment_file"`
}

type LoggingConfig struct {
	Level       string `yaml:"level"`
	File        string `yaml:"file"`
	Development bool   `yaml:"development"`
}

type SessionLogConfig struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`
}

// KafkaConfig enables the session event stream when Brokers is non-empty.
type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// ArchiveConfig enables the S3 session archive when Bucket is set.
type ArchiveConfig struct {
	Bucket      string `yaml:"bucket"`
	Region      string `yaml:"region"`
	Prefix      string `yaml:"prefix"`
	Endpoint    string `yaml:"endpoint"`
	RoleARN     string `yaml:"role_arn"`
	Compression string `yaml:"compression"`
}

// Default returns the laboratory defaults.
func Default() Config {
	return Config{
		Device: DeviceConfig{
			Name:           "SimDev6341",
			SampleRate:     types.DefaultSampleRate,
			PollIntervalMs: 50,
			Speed:          1,
		},
		Session: SessionConfig{
			Protocol: types.KindITBS.String(),
		},
		Protocol: types.DefaultParameters(),
		Logging: LoggingConfig{
			Level: "info",
		},
		SessionLog: SessionLogConfig{
			Enabled: true,
			Dir:     "parameter_history",
		},
		Kafka: KafkaConfig{
			Topic: "tistim.sessions",
		},
		Archive: ArchiveConfig{
			Region:      "us-east-1",
			Prefix:      "tistim",
			Compression: "zstd",
		},
	}
}

// Load reads path over the defaults, applies environment overrides and validates the
// result. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("%w: read %s: %w", types.ErrConfig, path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("%w: parse %s: %w", types.ErrConfig, path, err)
		}
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// ApplyEnv overrides fields from TISTIM_* variables. Unparseable values keep the current value.
func (c *Config) ApplyEnv() {
	e := func(k string) string { return EnvPrefix + k }

	c.Device.Name = EnvOr(e("DEVICE"), c.Device.Name)
	c.Device.SampleRate = EnvFloatOr(e("SAMPLE_RATE"), c.Device.SampleRate)
	c.Device.TriggerSource = EnvOr(e("TRIGGER_SOURCE"), c.Device.TriggerSource)
	c.Device.PollIntervalMs = EnvIntOr(e("POLL_INTERVAL_MS"), c.Device.PollIntervalMs)
	c.Device.Speed = EnvFloatOr(e("DEVICE_SPEED"), c.Device.Speed)

	c.Session.Subject = EnvOr(e("SUBJECT"), c.Session.Subject)
	c.Session.Session = EnvOr(e("SESSION"), c.Session.Session)
	c.Session.Protocol = EnvOr(e("PROTOCOL"), c.Session.Protocol)
	c.Session.Blind = EnvBoolOr(e("BLIND"), c.Session.Blind)
	c.Session.AssignmentFile = EnvOr(e("ASSIGNMENT_FILE"), c.Session.AssignmentFile)

	p := &c.Protocol
	p.TotalTime = EnvFloatOr(e("TOTAL_TIME"), p.TotalTime)
	p.StimTime = EnvFloatOr(e("TRAIN_STIM_TIME"), p.StimTime)
	p.BreakTime = EnvFloatOr(e("TRAIN_BREAK_TIME"), p.BreakTime)
	p.CarrierFreq = EnvFloatOr(e("CARRIER_FREQ"), p.CarrierFreq)
	p.PulseFreq = EnvFloatOr(e("PULSE_FREQ"), p.PulseFreq)
	p.BurstFreq = EnvFloatOr(e("BURST_FREQ"), p.BurstFreq)
	p.AmplitudeSum = EnvFloatOr(e("AMPL_SUM"), p.AmplitudeSum)
	p.AmplitudeRatio = EnvFloatOr(e("AMPL_RATIO"), p.AmplitudeRatio)
	p.RampUpTime = EnvFloatOr(e("RAMP_UP_TIME"), p.RampUpTime)
	p.RampDownTime = EnvFloatOr(e("RAMP_DOWN_TIME"), p.RampDownTime)
	p.Repetitions = EnvIntOr(e("REPETITIONS"), p.Repetitions)
	p.Trigger = EnvBoolOr(e("TRIGGER"), p.Trigger)

	c.Logging.Level = EnvOr(e("LOG_LEVEL"), c.Logging.Level)
	c.Logging.File = EnvOr(e("LOG_FILE"), c.Logging.File)
	c.Logging.Development = EnvBoolOr(e("LOG_DEVELOPMENT"), c.Logging.Development)

	c.SessionLog.Enabled = EnvBoolOr(e("SESSION_LOG"), c.SessionLog.Enabled)
	c.SessionLog.Dir = EnvOr(e("SESSION_LOG_DIR"), c.SessionLog.Dir)

	c.Kafka.Brokers = EnvListOr(e("KAFKA_BROKERS"), c.Kafka.Brokers)
	c.Kafka.Topic = EnvOr(e("KAFKA_TOPIC"), c.Kafka.Topic)

	c.Archive.Bucket = EnvOr(e("ARCHIVE_BUCKET"), c.Archive.Bucket)
	c.Archive.Region = EnvOr(e("ARCHIVE_REGION"), c.Archive.Region)
	c.Archive.Prefix = EnvOr(e("ARCHIVE_PREFIX"), c.Archive.Prefix)
	c.Archive.Endpoint = EnvOr(e("ARCHIVE_ENDPOINT"), c.Archive.Endpoint)
	c.Archive.RoleARN = EnvOr(e("ARCHIVE_ROLE_ARN"), c.Archive.RoleARN)
	c.Archive.Compression = EnvOr(e("ARCHIVE_COMPRESSION"), c.Archive.Compression)
}

// Validate checks the device settings and the protocol parameter invariants.
func (c Config) Validate() error {
	var errs []error
	if c.Device.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("%w: device.sample_rate must be > 0", types.ErrConfig))
	}
	if c.Device.PollIntervalMs <= 0 {
		errs = append(errs, fmt.Errorf("%w: device.poll_interval_ms must be > 0", types.ErrConfig))
	}
	if c.Device.Speed <= 0 {
		errs = append(errs, fmt.Errorf("%w: device.speed must be > 0", types.ErrConfig))
	}
	if c.Session.Blind && c.Session.AssignmentFile == "" {
		errs = append(errs, fmt.Errorf("%w: session.assignment_file is required in blind mode", types.ErrConfig))
	}
	if !c.Session.Blind {
		if _, err := types.ParseKind(c.Session.Protocol); err != nil {
			errs = append(errs, fmt.Errorf("%w: session.protocol: %w", types.ErrConfig, err))
		}
	}
	if err := c.Protocol.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// PollInterval returns the worker poll interval.
func (c Config) PollInterval() time.Duration {
	return time.Duration(c.Device.PollIntervalMs) * time.Millisecond
}

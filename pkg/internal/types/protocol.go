package types

import (
	"fmt"
	"math"
	"strings"
)

// Kind is the closed set of stimulation protocols.
type Kind int

const (
	KindNone Kind = iota
	KindITBS
	KindCTBS
	KindControl
	KindTI
)

var kindNames = map[Kind]string{
	KindNone:    "None",
	KindITBS:    "iTBS",
	KindCTBS:    "cTBS",
	KindControl: "TBS_control",
	KindTI:      "TI",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a protocol name once at the boundary. Matching is case-insensitive
// and accepts "control" as an alias of "TBS_control".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "itbs":
		return KindITBS, nil
	case "ctbs":
		return KindCTBS, nil
	case "tbs_control", "control":
		return KindControl, nil
	case "ti":
		return KindTI, nil
	default:
		return KindNone, fmt.Errorf("%w: unrecognised protocol %q", ErrProtocolLookup, s)
	}
}

// Parameters is the resolved protocol parameter bundle. It is passed by value and never
// mutated once resolved; per-channel amplitudes are always derived from the sum and ratio.
type Parameters struct {
	TotalTime      float64 `yaml:"total_time" json:"total_time"`
	StimTime       float64 `yaml:"train_stim_time" json:"train_stim_time"`
	BreakTime      float64 `yaml:"train_break_time" json:"train_break_time"`
	CarrierFreq    float64 `yaml:"carrier_freq" json:"carrier_freq"`
	PulseFreq      float64 `yaml:"pulse_freq" json:"pulse_freq"`
	BurstFreq      float64 `yaml:"burst_freq" json:"burst_freq"`
	AmplitudeSum   float64 `yaml:"ampl_sum" json:"ampl_sum"`
	AmplitudeRatio float64 `yaml:"ampl_ratio" json:"ampl_ratio"`
	RampUpTime     float64 `yaml:"ramp_up_time" json:"ramp_up_time"`
	RampDownTime   float64 `yaml:"ramp_down_time" json:"ramp_down_time"`
	Repetitions    int     `yaml:"repetitions" json:"repetitions"`
	Trigger        bool    `yaml:"trigger" json:"trigger"`
}

// DefaultParameters returns the laboratory defaults.
func DefaultParameters() Parameters {
	return Parameters{
		TotalTime:      20,
		StimTime:       2,
		BreakTime:      8,
		CarrierFreq:    2000,
		PulseFreq:      100,
		BurstFreq:      5,
		AmplitudeSum:   4,
		AmplitudeRatio: 1,
		RampUpTime:     5,
		RampDownTime:   5,
		Repetitions:    1,
		Trigger:        true,
	}
}

// A1 returns the channel 1 amplitude S/(1+r).
func (p Parameters) A1() float64 {
	return p.AmplitudeSum / (1 + p.AmplitudeRatio)
}

// A2 returns the channel 2 amplitude r*S/(1+r).
func (p Parameters) A2() float64 {
	return p.AmplitudeRatio * p.AmplitudeSum / (1 + p.AmplitudeRatio)
}

// Validate enforces the parameter invariants. Violations are reported as ErrConfig.
func (p Parameters) Validate() error {
	positive := []struct {
		name string
		v    float64
	}{
		{"total_time", p.TotalTime},
		{"train_stim_time", p.StimTime},
		{"train_break_time", p.BreakTime},
		{"carrier_freq", p.CarrierFreq},
		{"pulse_freq", p.PulseFreq},
		{"burst_freq", p.BurstFreq},
		{"ramp_up_time", p.RampUpTime},
		{"ramp_down_time", p.RampDownTime},
	}
	for _, f := range positive {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v <= 0 {
			return fmt.Errorf("%w: %s must be a finite value > 0, got %v", ErrConfig, f.name, f.v)
		}
	}
	if math.IsNaN(p.AmplitudeSum) || math.IsInf(p.AmplitudeSum, 0) || p.AmplitudeSum < 0 {
		return fmt.Errorf("%w: ampl_sum must be a finite value >= 0, got %v", ErrConfig, p.AmplitudeSum)
	}
	if math.IsNaN(p.AmplitudeRatio) || math.IsInf(p.AmplitudeRatio, 0) || p.AmplitudeRatio < 0 {
		return fmt.Errorf("%w: ampl_ratio must be a finite value >= 0, got %v", ErrConfig, p.AmplitudeRatio)
	}
	if p.Repetitions < 1 {
		return fmt.Errorf("%w: repetitions must be >= 1, got %d", ErrConfig, p.Repetitions)
	}
	return nil
}

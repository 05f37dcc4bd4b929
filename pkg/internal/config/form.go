package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hummel-lab/tistim/pkg/internal/types"
)

// ParseParameters applies operator-entered text fields to defaults. Keys use the YAML
// parameter names. Unknown keys and text that does not parse are rejected before anything
// reaches the synthesizer, and the result must satisfy the parameter invariants.
func ParseParameters(form map[string]string, defaults types.Parameters) (types.Parameters, error) {
	p := defaults
	floats := map[string]*float64{
		"total_time":       &p.TotalTime,
		"train_stim_time":  &p.StimTime,
		"train_break_time": &p.BreakTime,
		"carrier_freq":     &p.CarrierFreq,
		"pulse_freq":       &p.PulseFreq,
		"burst_freq":       &p.BurstFreq,
		"ampl_sum":         &p.AmplitudeSum,
		"ampl_ratio":       &p.AmplitudeRatio,
		"ramp_up_time":     &p.RampUpTime,
		"ramp_down_time":   &p.RampDownTime,
	}

	for key, raw := range form {
		text := strings.TrimSpace(raw)
		switch key {
		case "repetitions":
			n, err := strconv.Atoi(text)
			if err != nil {
				return types.Parameters{}, fmt.Errorf("%w: repetitions: %q is not an integer", types.ErrConfig, raw)
			}
			p.Repetitions = n
		case "trigger":
			b, err := strconv.ParseBool(text)
			if err != nil {
				return types.Parameters{}, fmt.Errorf("%w: trigger: %q is not a boolean", types.ErrConfig, raw)
			}
			p.Trigger = b
		default:
			dst, ok := floats[key]
			if !ok {
				return types.Parameters{}, fmt.Errorf("%w: unknown parameter %q", types.ErrConfig, key)
			}
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return types.Parameters{}, fmt.Errorf("%w: %s: %q is not a number", types.ErrConfig, key, raw)
			}
			*dst = v
		}
	}

	if err := p.Validate(); err != nil {
		return types.Parameters{}, err
	}
	return p, nil
}

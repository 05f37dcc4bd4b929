package internallogger

import (
	"fmt"
	"sort"

	"github.com/hummel-lab/tistim/pkg/internal/types"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// pairsToFields converts alternating key/value pairs. Pairs with a non-string key and a
// trailing orphan value are dropped.
func pairsToFields(keysAndValues []interface{}) []zap.Field {
	fields := make([]zap.Field, 0, len(keysAndValues)/2)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		fields = append(fields, field(key, keysAndValues[i+1]))
	}
	return fields
}

// field encodes domain values compactly. Buffers are summarised and never dumped sample by
// sample.
func field(key string, value interface{}) zap.Field {
	switch v := value.(type) {
	case types.ComponentMetadata:
		return zap.Object(key, componentObject(v))
	case *types.ComponentMetadata:
		if v == nil {
			return zap.Any(key, nil)
		}
		return zap.Object(key, componentObject(*v))
	case types.State, types.Kind, types.Edge:
		return zap.Stringer(key, v.(fmt.Stringer))
	case types.Parameters:
		return zap.Object(key, paramsObject(v))
	case types.Buffer:
		return zap.Object(key, bufferObject(v))
	case error:
		return zap.NamedError(key, v)
	}
	return zap.Any(key, value)
}

func componentObject(meta types.ComponentMetadata) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddString("id", meta.ID)
		enc.AddString("type", meta.Type)
		enc.AddString("name", meta.Name)
		return nil
	}
}

func paramsObject(p types.Parameters) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddFloat64("total_time", p.TotalTime)
		enc.AddFloat64("train_stim_time", p.StimTime)
		enc.AddFloat64("train_break_time", p.BreakTime)
		enc.AddFloat64("carrier_freq", p.CarrierFreq)
		enc.AddFloat64("pulse_freq", p.PulseFreq)
		enc.AddFloat64("burst_freq", p.BurstFreq)
		enc.AddFloat64("ampl1", p.A1())
		enc.AddFloat64("ampl2", p.A2())
		enc.AddFloat64("ramp_up_time", p.RampUpTime)
		enc.AddFloat64("ramp_down_time", p.RampDownTime)
		enc.AddInt("repetitions", p.Repetitions)
		enc.AddBool("trigger", p.Trigger)
		return nil
	}
}

func bufferObject(b types.Buffer) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddInt("samples", b.Len())
		enc.AddFloat64("rate", b.Rate)
		enc.AddFloat64("duration_s", b.Duration())
		return nil
	}
}

// fieldsFromMap builds the base fields in key order so every line starts the same way.
func fieldsFromMap(fields map[string]interface{}) []zap.Field {
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		out = append(out, field(key, fields[key]))
	}
	return out
}

package controller_test

import (
	"github.com/hummel-lab/tistim/pkg/internal/sensor"
	"github.com/hummel-lab/tistim/pkg/internal/types"
)

func stateSensor(out chan<- types.State) types.Sensor {
	return sensor.NewSensor(sensor.WithOnStateChangeFunc(func(c types.ComponentMetadata, from, to types.State) {
		select {
		case out <- to:
		default:
		}
	}))
}

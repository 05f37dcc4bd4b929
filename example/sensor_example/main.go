package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hummel-lab/tistim/pkg/builder"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	logger := builder.NewLogger(builder.LoggerWithLevel("warn"))
	meter := builder.NewMeter(builder.MeterWithLogger(logger))

	// Print the session as the worker reports it.
	sensor := builder.NewSensor(
		builder.SensorWithMeter(meter),
		builder.SensorWithOnStateChangeFunc(func(c builder.ComponentMetadata, from, to builder.State) {
			fmt.Printf("%s -> %s\n", from, to)
		}),
		builder.SensorWithOnTriggeredFunc(func(c builder.ComponentMetadata, rep int) {
			fmt.Printf("repetition %d triggered\n", rep)
		}),
		builder.SensorWithOnUpdateFunc(func(c builder.ComponentMetadata, rep int, kind builder.Kind, p builder.Parameters) {
			fmt.Printf("repetition %d updated: ch1 %.2f V, ch2 %.2f V\n", rep, p.A1(), p.A2())
		}),
		builder.SensorWithOnCompleteFunc(func(c builder.ComponentMetadata, reps int) {
			fmt.Printf("session complete after %d repetition(s)\n", reps)
		}),
	)

	// A simulated device running 20x real time with its PFI line firing shortly after start.
	device := builder.NewDevice(
		builder.DeviceWithSpeed(20),
		builder.DeviceWithAutoTrigger(50*time.Millisecond),
		builder.DeviceWithLogger(logger),
	)

	controller := builder.NewController(
		builder.ControllerWithSink(device),
		builder.ControllerWithPollInterval(5*time.Millisecond),
		builder.ControllerWithLogger(logger),
		builder.ControllerWithSensor(sensor),
	)

	params := builder.DefaultParameters()
	params.Repetitions = 2
	if err := controller.Create(builder.KindITBS, params); err != nil {
		fmt.Fprintf(os.Stderr, "create: %v\n", err)
		os.Exit(1)
	}
	if err := controller.Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "run: %v\n", err)
		os.Exit(1)
	}

	// Retarget the amplitudes once the first repetition is streaming.
	time.Sleep(500 * time.Millisecond)
	params.AmplitudeSum = 3
	params.AmplitudeRatio = 2
	if err := controller.RequestUpdate(params); err != nil {
		fmt.Fprintf(os.Stderr, "update: %v\n", err)
	}

	if err := controller.Wait(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "session failed: %v\n", err)
		os.Exit(1)
	}
	meter.PrintSummary(os.Stdout)
}

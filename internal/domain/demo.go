package domain

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"htf.dev/pkg/htf/pkg/measurements"
	"htf.dev/pkg/htf/pkg/phase"
	"htf.dev/pkg/htf/pkg/plugs"
)

// PowerSupply is a simulated bench supply used by the demo station.
type PowerSupply struct {
	Volts   float64
	enabled bool
}

// Setup implements plugs.Setupper.
func (p *PowerSupply) Setup(context.Context) error {
	p.Volts = 3.3
	return nil
}

// TearDown implements plugs.TearDowner.
func (p *PowerSupply) TearDown() error {
	p.enabled = false
	return nil
}

// Enable switches the output on.
func (p *PowerSupply) Enable() { p.enabled = true }

// Read returns the output voltage with a little noise.
func (p *PowerSupply) Read() float64 {
	if !p.enabled {
		return 0
	}

	return p.Volts + (rand.Float64()-0.5)*0.05 //nolint:gosec // Simulated noise.
}

var powerPlug = phase.NewPlug("power", plugs.TypeOf[*PowerSupply]())

func powerOn(data *phase.Data, args phase.Args) (phase.Result, error) {
	supply, ok := phase.Arg[*PowerSupply](args, "power")
	if !ok {
		return phase.Stop, fmt.Errorf("power plug missing")
	}

	supply.Enable()
	data.Logger.Info("Power enabled", "volts", supply.Volts)

	return phase.Continue, nil
}

func measureRail(data *phase.Data, args phase.Args) (phase.Result, error) {
	supply, _ := phase.Arg[*PowerSupply](args, "power")
	rail, _ := phase.Arg[string](args, "rail")

	data.Measure("rail_"+rail+"_voltage", supply.Read())

	return phase.Continue, nil
}

func settle(data *phase.Data) error {
	select {
	case <-time.After(50 * time.Millisecond):
		return nil
	case <-data.Ctx.Done():
		return data.Ctx.Err()
	}
}

func powerOff(args phase.Args) {
	if supply, ok := phase.Arg[*PowerSupply](args, "power"); ok {
		_ = supply.TearDown()
	}
}

// DemoPhases returns the phases of the bundled station test: power the
// board, wait for it to settle, then measure two rails.
func DemoPhases() []any {
	rail := phase.New(measureRail, phase.Params("test", "power", "rail")).
		WithPlugs(powerPlug).
		WithMeasurements(measurements.New("rail_{rail}_voltage").WithUnits("V").Doc("Voltage on the {rail} rail."))

	return []any{
		phase.New(powerOn, phase.Params("test", "power")).WithPlugs(powerPlug).WithDoc("Switches the bench supply on."),
		phase.Options{Timeout: time.Second}.MustApply(settle),
		rail.WithArgs(phase.Args{"rail": "3v3"}),
		rail.WithArgs(phase.Args{"rail": "1v8"}),
	}
}

// DemoTeardown switches the supply off after the run.
func DemoTeardown() *phase.Info {
	return phase.New(func(_ *phase.Data, args phase.Args) (phase.Result, error) {
		powerOff(args)
		return phase.Continue, nil
	}, phase.Params("power")).WithPlugs(powerPlug).WithName("power_off")
}

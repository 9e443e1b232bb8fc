// Package instrument wires the soil meter together: it owns the scheduler, the
// debouncer and the menu machine, takes button edges from interrupt context and
// runs the cooperative main loop.
package instrument

import (
	"context"
	"runtime"
	"time"

	"github.com/itohio/gosoil/pkg/adc"
	"github.com/itohio/gosoil/pkg/debounce"
	"github.com/itohio/gosoil/pkg/display"
	"github.com/itohio/gosoil/pkg/menu"
	"github.com/itohio/gosoil/pkg/sample"
	"github.com/itohio/gosoil/pkg/timer"
)

// Options configures an Instrument.
type Options struct {
	Menu         menu.Config
	Calibrations [sample.NumChannels]sample.Calibration
	Debounce     time.Duration // minimum spacing of accepted button edges
	Poll         time.Duration // how often bounded waits look at their flag
	LoopIdle     time.Duration // pause between loop passes; 0 only yields
}

// DefaultOptions returns the settings used on the device.
func DefaultOptions() Options {
	return Options{
		Menu:         menu.DefaultConfig(),
		Calibrations: sample.DefaultCalibrations(),
		Debounce:     debounce.DefaultWindow,
		Poll:         timer.DefaultPollInterval,
	}
}

// Instrument is the whole meter minus its hardware.
type Instrument struct {
	clock    timer.Clock
	sched    *timer.Scheduler
	debounce *debounce.Debouncer
	machine  *menu.Machine
	loopIdle time.Duration
}

// New builds an instrument reading src and drawing on lcd.
func New(opts Options, clock timer.Clock, src adc.Reader, lcd display.Display) *Instrument {
	sched := timer.NewScheduler(clock, opts.Poll)
	filter := sample.NewFilter(opts.Calibrations)
	return &Instrument{
		clock:    clock,
		sched:    sched,
		debounce: debounce.New(opts.Debounce),
		machine:  menu.New(opts.Menu, sched, filter, src, lcd),
		loopIdle: opts.LoopIdle,
	}
}

// SetObserver installs obs on the machine. Call it before Run.
func (in *Instrument) SetObserver(obs menu.Observer) {
	in.machine.SetObserver(obs)
}

// Machine returns the menu machine.
func (in *Instrument) Machine() *menu.Machine {
	return in.machine
}

// Clock returns the time source of the instrument.
func (in *Instrument) Clock() timer.Clock {
	return in.clock
}

// State returns the current screen.
func (in *Instrument) State() menu.State {
	return in.machine.State()
}

// OnEdge handles a falling edge of the button seen at now. It only touches atomics
// and is safe to call from an interrupt handler.
//
// Edges during a measurement are dropped before debouncing. Otherwise a debounced
// edge moves Idle to Measuring or Result to Idle, unless the previous transition is
// still waiting for its entry work.
func (in *Instrument) OnEdge(now time.Duration) menu.Edge {
	e := in.edge(now)
	in.machine.Observer().Edge(e)
	return e
}

func (in *Instrument) edge(now time.Duration) menu.Edge {
	shared := in.machine.Shared()
	if shared.State() == menu.Measuring {
		return menu.EdgeDropped
	}
	if !in.debounce.OnEdge(now) {
		return menu.EdgeBounced
	}
	if _, ok := shared.Press(); !ok {
		return menu.EdgeDropped
	}
	return menu.EdgeAccepted
}

// Press is OnEdge at the current time of the instrument clock.
func (in *Instrument) Press() menu.Edge {
	return in.OnEdge(in.clock.Now())
}

// Step runs one pass of the main loop.
func (in *Instrument) Step() {
	in.machine.Step()
}

// Run steps the machine until ctx is done. A running measurement is finished before
// Run notices the cancellation.
func (in *Instrument) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		in.machine.Step()

		if in.loopIdle > 0 {
			in.clock.Sleep(in.loopIdle)
		} else {
			runtime.Gosched()
		}
	}
}

// Package menu implements the screens of the soil meter and the state machine that
// moves between them.
//
// The machine is driven by repeated calls to Step from a single loop. Button presses
// reach it only through the Shared state word, so the interrupt handler never touches
// the display or the filter.
package menu

import (
	"github.com/itohio/gosoil/pkg/adc"
	"github.com/itohio/gosoil/pkg/display"
	"github.com/itohio/gosoil/pkg/sample"
	"github.com/itohio/gosoil/pkg/timer"
)

// Machine runs the Idle, Measuring and Result screens.
type Machine struct {
	cfg    Config
	shared *Shared
	sched  *timer.Scheduler
	clock  timer.Clock
	filter *sample.Filter
	src    adc.Reader
	lcd    display.Display
	obs    Observer

	idle      idleScreen
	measuring measuringScreen
	result    resultScreen
}

// New creates a machine on Idle with its entry work pending.
func New(cfg Config, sched *timer.Scheduler, filter *sample.Filter, src adc.Reader, lcd display.Display) *Machine {
	return &Machine{
		cfg:    cfg,
		shared: NewShared(Idle),
		sched:  sched,
		clock:  sched.Clock(),
		filter: filter,
		src:    src,
		lcd:    lcd,
		obs:    Nop{},
	}
}

// SetObserver replaces the observer. A nil observer disables reporting.
func (m *Machine) SetObserver(obs Observer) {
	if obs == nil {
		obs = Nop{}
	}
	m.obs = obs
}

// Observer returns the current observer.
func (m *Machine) Observer() Observer {
	return m.obs
}

// Shared returns the state word button handlers transition through.
func (m *Machine) Shared() *Shared {
	return m.shared
}

// State returns the current state.
func (m *Machine) State() State {
	return m.shared.State()
}

// Filter returns the filter the machine reads from.
func (m *Machine) Filter() *sample.Filter {
	return m.filter
}

// Step runs one pass of the current screen. Only Measuring blocks, for the length of
// its animation and bursts.
func (m *Machine) Step() {
	s, changed := m.shared.Load()
	switch s {
	case Idle:
		m.idle.step(m, changed)
	case Measuring:
		m.measuring.step(m, changed)
	case Result:
		m.result.step(m, changed)
	}
}

// enter finishes the entry work of s.
func (m *Machine) enter(s State) {
	m.shared.Ack(s)
	m.obs.Entered(s)
}

// text writes a bounds-checked string; rejected text is silently dropped.
func (m *Machine) text(row, col int, s string) {
	display.Text(m.lcd, row, col, s)
}

// sampleBoth pushes one raw read of every channel into the live slots.
func (m *Machine) sampleBoth() {
	for _, ch := range sample.Channels {
		m.filter.Push(ch, m.src.Read(ch))
	}
}

// finalizeBoth rotates the live slots of every channel into history.
func (m *Machine) finalizeBoth(count int, burst bool) {
	for _, ch := range sample.Channels {
		m.filter.Finalize(ch, count)
	}
	m.obs.Finalized(burst)
}

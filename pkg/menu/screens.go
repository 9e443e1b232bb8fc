package menu

import (
	"fmt"
	"time"

	"github.com/itohio/gosoil/pkg/display"
	"github.com/itohio/gosoil/pkg/sample"
	"github.com/itohio/gosoil/pkg/timer"
)

const (
	startText = "START!"
	startRow  = 2
	startCol  = 7
)

// blinkPhase is one step of a blink loop: what to show and how long to keep it.
type blinkPhase struct {
	row, col int
	text     string
	hold     func(Timing) time.Duration
}

func idleHold(t Timing) time.Duration   { return t.IdleBlink }
func resultShow(t Timing) time.Duration { return t.ResultShow }
func resultHide(t Timing) time.Duration { return t.ResultHide }

// idlePhases alternate the start prompt. Phase 0 is the banner and is not part of the loop.
var idlePhases = []blinkPhase{
	{row: startRow, col: startCol, text: startText, hold: idleHold},
	{row: startRow, col: startCol, text: display.Blank(len(startText)), hold: idleHold},
}

var resultPhases = []blinkPhase{
	{row: 3, col: 9, text: "Soil Meter.", hold: resultShow},
	{row: 3, col: 9, text: display.Blank(len("Soil Meter.")), hold: resultHide},
	{row: 3, col: 5, text: "BlackJack Prj.", hold: resultShow},
	{row: 3, col: 5, text: display.Blank(len("BlackJack Prj.")), hold: resultHide},
}

// blinker walks a blink loop, drawing each phase once and advancing when the
// Blink timer fires.
type blinker struct {
	phases []blinkPhase
	phase  int
	drawn  bool
}

func (b *blinker) start(m *Machine, phases []blinkPhase) {
	b.phases, b.phase, b.drawn = phases, 0, false
	m.sched.ScheduleOnce(phases[0].hold(m.cfg.Timing), timer.Blink)
}

func (b *blinker) step(m *Machine) {
	if m.sched.Consume(timer.Blink) {
		b.phase = (b.phase + 1) % len(b.phases)
		b.drawn = false
		m.sched.ScheduleOnce(b.phases[b.phase].hold(m.cfg.Timing), timer.Blink)
	}
	if !b.drawn {
		p := b.phases[b.phase]
		m.text(p.row, p.col, p.text)
		b.drawn = true
	}
}

type idleScreen struct {
	banner bool
	blink  blinker
}

func (s *idleScreen) step(m *Machine, changed bool) {
	if changed {
		m.lcd.Clear()
		m.filter.Reset()
		m.sched.Cancel(timer.Background)
		m.sched.Cancel(timer.Blink)
		s.banner = false
		s.blink = blinker{}
		m.enter(Idle)
	}

	if !s.banner {
		display.Fill(m.lcd, 0, 0, display.Cols, display.Block)
		m.text(1, 0, "Press Button to")
		display.Fill(m.lcd, 2, startCol-1, 1, display.Arrow)
		display.Fill(m.lcd, 3, 0, display.Cols, display.Block)
		s.banner = true
		s.blink.start(m, idlePhases)
	}
	s.blink.step(m)
}

type measuringScreen struct{}

func (s *measuringScreen) step(m *Machine, changed bool) {
	if changed {
		m.sched.Cancel(timer.Blink)
		s.animate(m)
		m.lcd.Clear()
		m.enter(Measuring)
	}

	display.Fill(m.lcd, 0, 0, display.Cols, display.Block)
	display.Fill(m.lcd, 3, 0, display.Cols, display.Block)
	m.text(2, 3, "Measuring")

	bursts := m.cfg.Sampling.Bursts
	erased := 0
	for i := range bursts {
		s.burst(m)

		if i > 0 && i%3 == 0 {
			m.text(2, 12, display.Blank(3))
		}
		m.text(2, 12+i%3, ".")

		upTo := display.Cols * (i + 1) / bursts
		m.text(0, erased, display.Blank(upTo-erased))
		m.text(3, erased, display.Blank(upTo-erased))
		erased = upTo
	}
	m.clock.Sleep(m.cfg.Timing.Hold)

	m.shared.Force(Result)
}

// animate blinks the start prompt with shrinking delays.
func (s *measuringScreen) animate(m *Machine) {
	blank := display.Blank(len(startText))
	for _, d := range m.cfg.Timing.Animation {
		m.text(startRow, startCol, startText)
		m.clock.Sleep(d)
		m.text(startRow, startCol, blank)
		m.clock.Sleep(d)
	}
}

// burst takes BurstSamples reads spaced by SampleInterval and finalizes them as one slot.
func (s *measuringScreen) burst(m *Machine) {
	cfg := m.cfg.Sampling
	for range cfg.BurstSamples {
		if !m.sched.Delay(cfg.SampleInterval, timer.Sample, cfg.SampleWaitLimit) {
			m.obs.WaitExpired(timer.Sample)
		}
		m.sampleBoth()
	}
	m.finalizeBoth(cfg.BurstSamples, true)
}

type resultScreen struct {
	ticks int
	blink blinker
}

func (s *resultScreen) step(m *Machine, changed bool) {
	if changed {
		m.lcd.Clear()
		m.text(0, 0, "EC: ")
		m.text(1, 0, "Temp: ")
		m.filter.ForceRedraw()
		s.ticks = 0
		s.blink = blinker{}
		s.blink.start(m, resultPhases)
		m.sched.SchedulePeriodic(m.cfg.Sampling.BackgroundInterval, timer.Background)
		m.enter(Result)
	}

	s.blink.step(m)

	if m.sched.Consume(timer.Background) {
		m.sampleBoth()
		s.ticks++
		if s.ticks >= m.cfg.Sampling.BurstSamples {
			m.finalizeBoth(s.ticks, false)
			s.ticks = 0
		}
	}

	for _, ch := range sample.Channels {
		if v, ok := m.filter.Report(ch); ok {
			s.render(m, ch, v)
		}
	}
}

func (s *resultScreen) render(m *Machine, ch sample.Channel, v float64) {
	switch ch {
	case sample.Conductivity:
		m.text(0, 5, fmt.Sprintf("%.2f mS/cm", v))
	case sample.Temperature:
		value := fmt.Sprintf("%.2f ", v)
		const col = 6
		if len(value)+3 > display.Cols-col {
			return
		}
		m.text(1, col, value)
		m.lcd.PutChar(display.Degree)
		m.lcd.Print("C ")
	default:
		return
	}
	m.obs.Rendered(ch, v)
}

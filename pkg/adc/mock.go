package adc

import (
	"math"
	"sync"

	"github.com/itohio/gosoil/pkg/sample"
)

// MockConfig describes the simulated probe.
type MockConfig struct {
	Conductivity float64 `yaml:"conductivity"` // mS/cm the probe sits in
	Temperature  float64 `yaml:"temperature"`  // °C of the soil
	Noise        float64 `yaml:"noise"`        // peak noise in raw counts
}

// DefaultMockConfig returns a probe in moist loam at room temperature.
func DefaultMockConfig() MockConfig {
	return MockConfig{
		Conductivity: 1.8,
		Temperature:  21.5,
		Noise:        12,
	}
}

// Mock simulates a soil probe wired to the ADC. The noise is deterministic, so a
// simulation run is repeatable.
type Mock struct {
	mu    sync.Mutex
	cfg   MockConfig
	cal   [sample.NumChannels]sample.Calibration
	reads uint64
}

// NewMock creates a simulated probe whose raw counts map back to cfg through cal.
func NewMock(cfg MockConfig, cal [sample.NumChannels]sample.Calibration) *Mock {
	return &Mock{cfg: cfg, cal: cal}
}

// Set changes the simulated soil conditions.
func (m *Mock) Set(conductivity, temperature float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cfg.Conductivity = conductivity
	m.cfg.Temperature = temperature
}

// Config returns the current simulated conditions.
func (m *Mock) Config() MockConfig {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cfg
}

// Reads returns how many samples were taken so far.
func (m *Mock) Reads() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.reads
}

// Read returns the raw count for ch with a little noise on top.
func (m *Mock) Read(ch sample.Channel) uint16 {
	if !ch.Valid() {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reads++

	var target float64
	switch ch {
	case sample.Conductivity:
		target = m.cfg.Conductivity
	case sample.Temperature:
		target = m.cfg.Temperature
	}
	raw := float64(m.cal[ch].RawFor(target))

	// Two incommensurate tones read like ADC noise on a display.
	x := float64(m.reads)
	raw += (math.Sin(x*0.7)+math.Cos(x*1.3)) * m.cfg.Noise * 0.5

	if raw < 0 {
		return 0
	}
	return Saturate(uint64(math.Round(raw)))
}

// Sequence replays scripted raw counts per channel, cycling when exhausted.
// It counts reads per channel and is meant for tests and demos.
type Sequence struct {
	mu     sync.Mutex
	values [sample.NumChannels][]uint16
	pos    [sample.NumChannels]int
	reads  [sample.NumChannels]int
}

// NewSequence creates a scripted source. A channel without values reads 0.
func NewSequence(conductivity, temperature []uint16) *Sequence {
	return &Sequence{values: [sample.NumChannels][]uint16{
		sample.Conductivity: conductivity,
		sample.Temperature:  temperature,
	}}
}

// Constant creates a source that always returns the same counts.
func Constant(conductivity, temperature uint16) *Sequence {
	return NewSequence([]uint16{conductivity}, []uint16{temperature})
}

// Read returns the next scripted value of ch.
func (s *Sequence) Read(ch sample.Channel) uint16 {
	if !ch.Valid() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[ch]++
	vals := s.values[ch]
	if len(vals) == 0 {
		return 0
	}
	v := vals[s.pos[ch]%len(vals)]
	s.pos[ch]++
	return Saturate(uint64(v))
}

// Reads returns the number of reads taken from ch.
func (s *Sequence) Reads(ch sample.Channel) int {
	if !ch.Valid() {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.reads[ch]
}

// Set replaces the script of ch and restarts it.
func (s *Sequence) Set(ch sample.Channel, values ...uint16) {
	if !ch.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[ch] = values
	s.pos[ch] = 0
}

// Package rtu reads raw samples from a probe that exposes them as Modbus RTU input
// registers.
package rtu

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/goburrow/modbus"

	"github.com/itohio/gosoil/pkg/adc"
	"github.com/itohio/gosoil/pkg/sample"
)

// Config configures a probe that exposes its raw counts as Modbus RTU input registers.
type Config struct {
	Port      string        `yaml:"port"`
	BaudRate  int           `yaml:"baud_rate"`
	SlaveID   uint8         `yaml:"slave_id"`
	Timeout   time.Duration `yaml:"timeout"`
	Registers [2]uint16     `yaml:"registers"` // input register of conductivity, temperature
}

var _ adc.Reader = (*Probe)(nil)

// registerReader is the part of modbus.Client used by the probe.
type registerReader interface {
	ReadInputRegisters(address, quantity uint16) ([]byte, error)
}

// Probe reads raw counts from a Modbus RTU probe, one register per channel.
// A failed transaction is logged and the previous value of the channel is returned.
type Probe struct {
	cfg     Config
	handler *modbus.RTUClientHandler
	client  registerReader

	mu       sync.Mutex
	last     [sample.NumChannels]uint16
	failures uint64
}

// New opens the RTU link described by cfg.
func New(cfg Config) (*Probe, error) {
	if cfg.Port == "" {
		return nil, errors.New("modbus probe: port required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = 9600
	}
	if cfg.SlaveID == 0 {
		cfg.SlaveID = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 500 * time.Millisecond
	}

	h := modbus.NewRTUClientHandler(cfg.Port)
	h.BaudRate = cfg.BaudRate
	h.DataBits = 8
	h.Parity = "N"
	h.StopBits = 1
	h.SlaveId = cfg.SlaveID
	h.Timeout = cfg.Timeout

	if err := h.Connect(); err != nil {
		return nil, fmt.Errorf("modbus probe: failed to open %s: %w", cfg.Port, err)
	}

	m := newProbe(cfg, modbus.NewClient(h))
	m.handler = h
	return m, nil
}

func newProbe(cfg Config, client registerReader) *Probe {
	return &Probe{cfg: cfg, client: client}
}

// Close closes the RTU link.
func (m *Probe) Close() error {
	if m.handler == nil {
		return nil
	}
	return m.handler.Close()
}

// Read fetches the register of ch.
func (m *Probe) Read(ch sample.Channel) uint16 {
	if !ch.Valid() {
		return 0
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	results, err := m.client.ReadInputRegisters(m.cfg.Registers[ch], 1)
	if err == nil && len(results) < 2 {
		err = fmt.Errorf("short response: %d bytes", len(results))
	}
	if err != nil {
		m.failures++
		log.Printf("Modbus probe read of %s failed: %v", ch, err)
		return m.last[ch]
	}

	v := adc.Saturate(uint64(binary.BigEndian.Uint16(results)))
	m.last[ch] = v
	return v
}

// Failures returns the number of failed register reads.
func (m *Probe) Failures() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.failures
}

package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/itohio/gosoil/pkg/adc"
	"github.com/itohio/gosoil/pkg/adc/rtu"
	"github.com/itohio/gosoil/pkg/adc/uart"
	"github.com/itohio/gosoil/pkg/config"
	"github.com/itohio/gosoil/pkg/metrics"
)

// source is an opened sample source.
type source struct {
	adc.Reader
	mock   *adc.Mock // nil unless the source is simulated
	closer io.Closer
}

// Close releases the underlying port, if any.
func (s *source) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// openSource opens the source selected by cfg. A serial bridge connects in the
// background and reads zero until the port shows up.
func openSource(ctx context.Context, cfg *config.Config) (*source, error) {
	switch cfg.Source.Kind {
	case config.SourceMock:
		m := adc.NewMock(cfg.Mock, cfg.Calibrations())
		log.Printf("Using simulated probe")
		return &source{Reader: m, mock: m}, nil

	case config.SourceSerial:
		b := uart.New(cfg.Source.Serial)
		go func() {
			if err := b.Connect(ctx); err != nil {
				log.Printf("ADC bridge: %v", err)
				return
			}
			log.Printf("Connected to ADC bridge on %s", cfg.Source.Serial.Port)
		}()
		return &source{Reader: b, closer: b}, nil

	case config.SourceModbus:
		p, err := rtu.New(cfg.Source.Modbus)
		if err != nil {
			return nil, err
		}
		log.Printf("Connected to Modbus probe on %s", cfg.Source.Modbus.Port)
		return &source{Reader: p, closer: p}, nil

	default:
		return nil, fmt.Errorf("unknown source %q", cfg.Source.Kind)
	}
}

// exportSource adds the health counters of s to obs.
func exportSource(obs *metrics.Observer, s *source) {
	switch r := s.Reader.(type) {
	case *uart.Bridge:
		obs.CounterFunc("bridge_lines_total", "Sample lines received from the ADC bridge.", r.Lines)
	case *rtu.Probe:
		obs.CounterFunc("modbus_failures_total", "Failed Modbus register reads.", r.Failures)
	case *adc.Mock:
		obs.CounterFunc("mock_reads_total", "Reads of the simulated probe.", r.Reads)
	}
}

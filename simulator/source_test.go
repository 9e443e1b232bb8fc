package main

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gosoil/pkg/config"
	"github.com/itohio/gosoil/pkg/metrics"
	"github.com/itohio/gosoil/pkg/sample"
)

func TestOpenSource_Mock(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Kind = config.SourceMock
	cfg.Mock.Noise = 0

	src, err := openSource(context.Background(), cfg)
	require.NoError(t, err)
	defer src.Close()

	require.NotNil(t, src.mock)
	want := cfg.Calibrations()[sample.Conductivity].RawFor(cfg.Mock.Conductivity)
	assert.Equal(t, want, src.Read(sample.Conductivity))
	assert.NoError(t, src.Close())
}

func TestOpenSource_Unknown(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Kind = "carrier-pigeon"

	_, err := openSource(context.Background(), cfg)
	assert.ErrorContains(t, err, "carrier-pigeon")
}

func TestOpenSource_ModbusWithoutPort(t *testing.T) {
	cfg := config.Default()
	cfg.Source.Kind = config.SourceModbus
	cfg.Source.Modbus.Port = ""

	_, err := openSource(context.Background(), cfg)
	assert.Error(t, err)
}

func TestExportSource_Mock(t *testing.T) {
	cfg := config.Default()
	src, err := openSource(context.Background(), cfg)
	require.NoError(t, err)

	reg := prometheus.NewRegistry()
	exportSource(metrics.New(reg), src)
	src.Read(sample.Conductivity)

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, mf := range families {
		if mf.GetName() == "soil_meter_mock_reads_total" {
			found = true
			assert.Equal(t, 1.0, mf.GetMetric()[0].GetCounter().GetValue())
		}
	}
	assert.True(t, found)
}

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gosoil/pkg/sample"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	tmpfile, err := os.CreateTemp(t.TempDir(), "test_config_*.yaml")
	require.NoError(t, err)

	_, err = tmpfile.WriteString(content)
	require.NoError(t, err)
	require.NoError(t, tmpfile.Close())
	return tmpfile.Name()
}

func TestDefault(t *testing.T) {
	cfg := Default()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, SourceMock, cfg.Source.Kind)
	assert.Equal(t, 0.0056, cfg.Channels.Conductivity.Scale)
	assert.Equal(t, -13.0, cfg.Channels.Temperature.Offset)
	assert.Equal(t, 1, cfg.Channels.Temperature.ADC)
	assert.Equal(t, 200*time.Millisecond, cfg.Button.Debounce)
	assert.Equal(t, 5, cfg.Sampling.BurstSamples)
	assert.Equal(t, 3, cfg.Sampling.Bursts)
	assert.Equal(t, 1000*time.Millisecond, cfg.Menu.IdleBlink)
	assert.Equal(t, sample.DefaultCalibrations(), cfg.Calibrations())
}

func TestLoad_FileNotExists(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_ValidYAML(t *testing.T) {
	name := writeConfig(t, `
channels:
  conductivity:
    adc: 2
    scale: 0.006
    offset: 0.1
    min: 0
    max: 10
    threshold: 0.05
sampling:
  burst_samples: 8
  bursts: 4
  sample_interval: 50ms
  sample_wait_limit: 200ms
  background_interval: 1s
menu:
  idle_blink: 750ms
  animation: [100ms, 50ms]
button:
  debounce: 150ms
source:
  kind: serial
  serial:
    port: /dev/ttyUSB3
    baud_rate: 57600
mock:
  conductivity: 2.5
  temperature: 18
loop:
  idle: 2ms
`)

	cfg, err := Load(name)
	require.NoError(t, err)

	assert.Equal(t, 2, cfg.Channels.Conductivity.ADC)
	assert.Equal(t, 0.006, cfg.Channels.Conductivity.Scale)
	assert.Equal(t, 10.0, cfg.Channels.Conductivity.Max)
	assert.Equal(t, Default().Channels.Temperature, cfg.Channels.Temperature)
	assert.Equal(t, 8, cfg.Sampling.BurstSamples)
	assert.Equal(t, 4, cfg.Sampling.Bursts)
	assert.Equal(t, 50*time.Millisecond, cfg.Sampling.SampleInterval)
	assert.Equal(t, time.Second, cfg.Sampling.BackgroundInterval)
	assert.Equal(t, 750*time.Millisecond, cfg.Menu.IdleBlink)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 50 * time.Millisecond}, cfg.Menu.Animation)
	assert.Equal(t, 2000*time.Millisecond, cfg.Menu.ResultShow, "missing field keeps its default")
	assert.Equal(t, 150*time.Millisecond, cfg.Button.Debounce)
	assert.Equal(t, SourceSerial, cfg.Source.Kind)
	assert.Equal(t, "/dev/ttyUSB3", cfg.Source.Serial.Port)
	assert.Equal(t, 57600, cfg.Source.Serial.BaudRate)
	assert.Equal(t, 5*time.Second, cfg.Source.Serial.MaxBackoff)
	assert.Equal(t, 2.5, cfg.Mock.Conductivity)
	assert.Equal(t, 2*time.Millisecond, cfg.Loop.Idle)
}

func TestLoad_InvalidYAML(t *testing.T) {
	name := writeConfig(t, "invalid: yaml: content: [")

	cfg, err := Load(name)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoad_PartialYAML(t *testing.T) {
	name := writeConfig(t, `
source:
  kind: modbus
  modbus:
    port: /dev/ttyUSB1
`)

	cfg, err := Load(name)
	require.NoError(t, err)

	assert.Equal(t, SourceModbus, cfg.Source.Kind)
	assert.Equal(t, uint8(1), cfg.Source.Modbus.SlaveID)
	assert.Equal(t, 9600, cfg.Source.Modbus.BaudRate)
	assert.Equal(t, Default().Sampling, cfg.Sampling)
	assert.Equal(t, Default().Menu, cfg.Menu)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	name := writeConfig(t, `
source:
  kind: carrier-pigeon
`)

	cfg, err := Load(name)
	assert.ErrorContains(t, err, "carrier-pigeon")
	assert.Nil(t, cfg)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
	}{
		{name: "zero scale", modify: func(c *Config) { c.Channels.Temperature.Scale = 0 }},
		{name: "empty range", modify: func(c *Config) { c.Channels.Conductivity.Max = c.Channels.Conductivity.Min }},
		{name: "negative threshold", modify: func(c *Config) { c.Channels.Conductivity.Threshold = -1 }},
		{name: "negative adc", modify: func(c *Config) { c.Channels.Conductivity.ADC = -1 }},
		{name: "no bursts", modify: func(c *Config) { c.Sampling.Bursts = 0 }},
		{name: "negative debounce", modify: func(c *Config) { c.Button.Debounce = -time.Millisecond }},
		{name: "negative loop idle", modify: func(c *Config) { c.Loop.Idle = -time.Millisecond }},
		{name: "serial without port", modify: func(c *Config) {
			c.Source.Kind = SourceSerial
			c.Source.Serial.Port = ""
		}},
		{name: "modbus without port", modify: func(c *Config) {
			c.Source.Kind = SourceModbus
			c.Source.Modbus.Port = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSave(t *testing.T) {
	name := filepath.Join(t.TempDir(), "config.yaml")
	cfg := Default()
	cfg.Source.Kind = SourceSerial
	cfg.Channels.Conductivity.Threshold = 0.2
	cfg.Menu.Animation = []time.Duration{time.Second}

	require.NoError(t, cfg.Save(name))

	loaded, err := Load(name)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestConfig_Options(t *testing.T) {
	cfg := Default()
	cfg.Button.Debounce = 300 * time.Millisecond
	cfg.Sampling.Bursts = 6
	cfg.Channels.Temperature.Offset = -12

	opts := cfg.Options()

	assert.Equal(t, 300*time.Millisecond, opts.Debounce)
	assert.Equal(t, 6, opts.Menu.Sampling.Bursts)
	assert.Equal(t, cfg.Menu, opts.Menu.Timing)
	assert.Equal(t, -12.0, opts.Calibrations[sample.Temperature].Offset)
	assert.Equal(t, cfg.Loop.Idle, opts.LoopIdle)
}

package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/itohio/gosoil/pkg/adc"
	"github.com/itohio/gosoil/pkg/adc/rtu"
	"github.com/itohio/gosoil/pkg/adc/uart"
	"github.com/itohio/gosoil/pkg/debounce"
	"github.com/itohio/gosoil/pkg/instrument"
	"github.com/itohio/gosoil/pkg/menu"
	"github.com/itohio/gosoil/pkg/sample"
	"github.com/itohio/gosoil/pkg/timer"
)

// Source kinds.
const (
	SourceMock   = "mock"
	SourceSerial = "serial"
	SourceModbus = "modbus"
)

// Config represents the application configuration.
type Config struct {
	Channels  ChannelsConfig  `yaml:"channels"`
	Sampling  menu.Sampling   `yaml:"sampling"`
	Menu      menu.Timing     `yaml:"menu"`
	Button    ButtonConfig    `yaml:"button"`
	Source    SourceConfig    `yaml:"source"`
	Mock      adc.MockConfig  `yaml:"mock"`
	Loop      LoopConfig      `yaml:"loop"`
	Simulator SimulatorConfig `yaml:"simulator"`
}

// ChannelsConfig contains the calibration of both probe channels.
type ChannelsConfig struct {
	Conductivity ChannelConfig `yaml:"conductivity"`
	Temperature  ChannelConfig `yaml:"temperature"`
}

// ChannelConfig contains the ADC input and calibration of one probe channel.
type ChannelConfig struct {
	ADC       int     `yaml:"adc"` // ADC input on the board
	Scale     float64 `yaml:"scale"`
	Offset    float64 `yaml:"offset"`
	Min       float64 `yaml:"min"`
	Max       float64 `yaml:"max"`
	Threshold float64 `yaml:"threshold"` // redraw only when the value moves further than this
}

// ButtonConfig contains push button parameters.
type ButtonConfig struct {
	Debounce time.Duration `yaml:"debounce"`
}

// SourceConfig selects where raw samples come from.
type SourceConfig struct {
	Kind   string      `yaml:"kind"` // mock, serial or modbus
	Serial uart.Config `yaml:"serial"`
	Modbus rtu.Config  `yaml:"modbus"`
}

// LoopConfig contains main loop parameters.
type LoopConfig struct {
	Idle time.Duration `yaml:"idle"` // pause between passes, 0 only yields
	Poll time.Duration `yaml:"poll"` // polling period of bounded waits
}

// SimulatorConfig contains desktop simulator parameters.
type SimulatorConfig struct {
	TextSize    float32 `yaml:"text_size"`
	MetricsAddr string  `yaml:"metrics_addr"` // empty disables the metrics endpoint
}

// Default returns a default configuration with sensible values.
func Default() *Config {
	cal := sample.DefaultCalibrations()
	return &Config{
		Channels: ChannelsConfig{
			Conductivity: channelConfig(0, cal[sample.Conductivity]),
			Temperature:  channelConfig(1, cal[sample.Temperature]),
		},
		Sampling: menu.DefaultSampling(),
		Menu:     menu.DefaultTiming(),
		Button: ButtonConfig{
			Debounce: debounce.DefaultWindow,
		},
		Source: SourceConfig{
			Kind: SourceMock,
			Serial: uart.Config{
				Port:       "/dev/ttyACM0",
				BaudRate:   uart.DefaultBaudRate,
				MaxBackoff: 5 * time.Second,
			},
			Modbus: rtu.Config{
				Port:      "/dev/ttyUSB0",
				BaudRate:  9600,
				SlaveID:   1,
				Timeout:   500 * time.Millisecond,
				Registers: [2]uint16{0, 1},
			},
		},
		Mock: adc.DefaultMockConfig(),
		Loop: LoopConfig{
			Idle: time.Millisecond,
			Poll: timer.DefaultPollInterval,
		},
		Simulator: SimulatorConfig{
			TextSize: 28,
		},
	}
}

func channelConfig(input int, c sample.Calibration) ChannelConfig {
	return ChannelConfig{
		ADC:       input,
		Scale:     c.Scale,
		Offset:    c.Offset,
		Min:       c.Min,
		Max:       c.Max,
		Threshold: c.Threshold,
	}
}

// Calibration returns the calibration of the channel.
func (c ChannelConfig) Calibration() sample.Calibration {
	return sample.Calibration{
		Scale:     c.Scale,
		Offset:    c.Offset,
		Min:       c.Min,
		Max:       c.Max,
		Threshold: c.Threshold,
	}
}

// Calibrations returns the calibration of both channels indexed by sample.Channel.
func (c *Config) Calibrations() [sample.NumChannels]sample.Calibration {
	var cal [sample.NumChannels]sample.Calibration
	cal[sample.Conductivity] = c.Channels.Conductivity.Calibration()
	cal[sample.Temperature] = c.Channels.Temperature.Calibration()
	return cal
}

// Options returns the instrument options described by the configuration.
func (c *Config) Options() instrument.Options {
	return instrument.Options{
		Menu:         menu.Config{Timing: c.Menu, Sampling: c.Sampling},
		Calibrations: c.Calibrations(),
		Debounce:     c.Button.Debounce,
		Poll:         c.Loop.Poll,
		LoopIdle:     c.Loop.Idle,
	}
}

// Load loads configuration from a YAML file. If the file doesn't exist or
// fields are missing, it uses default values.
func Load(filename string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.ensureDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", filename, err)
	}
	return cfg, nil
}

// Save saves the configuration to a YAML file.
func (c *Config) Save(filename string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ensureDefaults ensures that all required fields have default values if missing.
func (c *Config) ensureDefaults() {
	def := Default()

	if c.Channels.Conductivity.Scale == 0 {
		c.Channels.Conductivity = def.Channels.Conductivity
	}
	if c.Channels.Temperature.Scale == 0 {
		c.Channels.Temperature = def.Channels.Temperature
	}

	if c.Sampling.BurstSamples == 0 {
		c.Sampling.BurstSamples = def.Sampling.BurstSamples
	}
	if c.Sampling.Bursts == 0 {
		c.Sampling.Bursts = def.Sampling.Bursts
	}
	if c.Sampling.SampleInterval == 0 {
		c.Sampling.SampleInterval = def.Sampling.SampleInterval
	}
	if c.Sampling.SampleWaitLimit == 0 {
		c.Sampling.SampleWaitLimit = def.Sampling.SampleWaitLimit
	}
	if c.Sampling.BackgroundInterval == 0 {
		c.Sampling.BackgroundInterval = def.Sampling.BackgroundInterval
	}

	if c.Menu.IdleBlink == 0 {
		c.Menu.IdleBlink = def.Menu.IdleBlink
	}
	if c.Menu.ResultShow == 0 {
		c.Menu.ResultShow = def.Menu.ResultShow
	}
	if c.Menu.ResultHide == 0 {
		c.Menu.ResultHide = def.Menu.ResultHide
	}
	if c.Menu.Animation == nil {
		c.Menu.Animation = def.Menu.Animation
	}

	if c.Button.Debounce == 0 {
		c.Button.Debounce = def.Button.Debounce
	}

	if c.Source.Kind == "" {
		c.Source.Kind = def.Source.Kind
	}
	if c.Source.Serial.BaudRate == 0 {
		c.Source.Serial.BaudRate = def.Source.Serial.BaudRate
	}
	if c.Source.Serial.MaxBackoff == 0 {
		c.Source.Serial.MaxBackoff = def.Source.Serial.MaxBackoff
	}
	if c.Source.Modbus.BaudRate == 0 {
		c.Source.Modbus.BaudRate = def.Source.Modbus.BaudRate
	}
	if c.Source.Modbus.SlaveID == 0 {
		c.Source.Modbus.SlaveID = def.Source.Modbus.SlaveID
	}
	if c.Source.Modbus.Timeout == 0 {
		c.Source.Modbus.Timeout = def.Source.Modbus.Timeout
	}

	if c.Loop.Poll == 0 {
		c.Loop.Poll = def.Loop.Poll
	}

	if c.Simulator.TextSize == 0 {
		c.Simulator.TextSize = def.Simulator.TextSize
	}
}

// Validate reports the first setting the instrument cannot run with.
func (c *Config) Validate() error {
	channels := []struct {
		name string
		cfg  ChannelConfig
	}{
		{"conductivity", c.Channels.Conductivity},
		{"temperature", c.Channels.Temperature},
	}
	for _, ch := range channels {
		if ch.cfg.Scale == 0 {
			return fmt.Errorf("channels.%s: scale must not be zero", ch.name)
		}
		if ch.cfg.Min >= ch.cfg.Max {
			return fmt.Errorf("channels.%s: min %g must be below max %g", ch.name, ch.cfg.Min, ch.cfg.Max)
		}
		if ch.cfg.Threshold < 0 {
			return fmt.Errorf("channels.%s: threshold must not be negative", ch.name)
		}
		if ch.cfg.ADC < 0 {
			return fmt.Errorf("channels.%s: adc input must not be negative", ch.name)
		}
	}

	if err := (menu.Config{Timing: c.Menu, Sampling: c.Sampling}).Validate(); err != nil {
		return fmt.Errorf("menu: %w", err)
	}

	if c.Button.Debounce < 0 {
		return errors.New("button.debounce must not be negative")
	}
	if c.Loop.Idle < 0 || c.Loop.Poll < 0 {
		return errors.New("loop: durations must not be negative")
	}

	switch c.Source.Kind {
	case SourceMock:
	case SourceSerial:
		if c.Source.Serial.Port == "" {
			return errors.New("source.serial.port required")
		}
	case SourceModbus:
		if c.Source.Modbus.Port == "" {
			return errors.New("source.modbus.port required")
		}
	default:
		return fmt.Errorf("source.kind: unknown source %q", c.Source.Kind)
	}
	return nil
}

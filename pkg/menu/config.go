package menu

import (
	"errors"
	"fmt"
	"time"
)

// Timing holds the hold times of every screen.
type Timing struct {
	IdleBlink  time.Duration   `yaml:"idle_blink"`  // "START!" shown and hidden for this long
	ResultShow time.Duration   `yaml:"result_show"` // status string on
	ResultHide time.Duration   `yaml:"result_hide"` // status string off
	Animation  []time.Duration `yaml:"animation"`   // on/off half-periods of the start animation
	Hold       time.Duration   `yaml:"hold"`        // full progress bar kept before the result
}

// Sampling controls how raw samples feed the filter.
type Sampling struct {
	BurstSamples       int           `yaml:"burst_samples"`       // raw reads averaged into one slot
	Bursts             int           `yaml:"bursts"`              // slots filled per measurement
	SampleInterval     time.Duration `yaml:"sample_interval"`     // delay before each burst read
	SampleWaitLimit    time.Duration `yaml:"sample_wait_limit"`   // bound on a single burst wait
	BackgroundInterval time.Duration `yaml:"background_interval"` // period of the result screen sampler
}

// Config configures the Machine.
type Config struct {
	Timing   Timing   `yaml:"timing"`
	Sampling Sampling `yaml:"sampling"`
}

// DefaultTiming returns the hold times used by the handheld meter.
func DefaultTiming() Timing {
	return Timing{
		IdleBlink:  1000 * time.Millisecond,
		ResultShow: 2000 * time.Millisecond,
		ResultHide: 500 * time.Millisecond,
		Animation: []time.Duration{
			250 * time.Millisecond,
			200 * time.Millisecond,
			150 * time.Millisecond,
			100 * time.Millisecond,
			50 * time.Millisecond,
		},
		Hold: 500 * time.Millisecond,
	}
}

// DefaultSampling returns 3 bursts of 5 reads spaced by 100ms, and a 500ms background sampler.
func DefaultSampling() Sampling {
	return Sampling{
		BurstSamples:       5,
		Bursts:             3,
		SampleInterval:     100 * time.Millisecond,
		SampleWaitLimit:    250 * time.Millisecond,
		BackgroundInterval: 500 * time.Millisecond,
	}
}

// DefaultConfig returns the default Machine configuration.
func DefaultConfig() Config {
	return Config{Timing: DefaultTiming(), Sampling: DefaultSampling()}
}

// Validate reports the first setting the Machine cannot run with.
func (c Config) Validate() error {
	t, s := c.Timing, c.Sampling
	switch {
	case t.IdleBlink <= 0:
		return errors.New("idle blink must be positive")
	case t.ResultShow <= 0 || t.ResultHide <= 0:
		return errors.New("result show and hide holds must be positive")
	case t.Hold < 0:
		return errors.New("hold must not be negative")
	case s.BurstSamples < 1:
		return fmt.Errorf("burst samples must be at least 1, got %d", s.BurstSamples)
	case s.Bursts < 1:
		return fmt.Errorf("bursts must be at least 1, got %d", s.Bursts)
	case s.SampleInterval <= 0:
		return errors.New("sample interval must be positive")
	case s.SampleWaitLimit < s.SampleInterval:
		return fmt.Errorf("sample wait limit %v is shorter than the sample interval %v", s.SampleWaitLimit, s.SampleInterval)
	case s.BackgroundInterval <= 0:
		return errors.New("background interval must be positive")
	}
	for i, d := range t.Animation {
		if d < 0 {
			return fmt.Errorf("animation step %d is negative", i)
		}
	}
	return nil
}

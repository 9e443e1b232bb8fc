package sample

import "fmt"

// Channel identifies one of the two analog inputs of the soil probe.
type Channel int

const (
	Conductivity Channel = iota // electrical conductivity, mS/cm
	Temperature                 // probe temperature, °C
)

// NumChannels is the number of probe channels sampled by the instrument.
const NumChannels = 2

// MaxRaw is the largest value produced by a 12-bit ADC conversion.
const MaxRaw = 4095

// Channels lists all probe channels in sampling order.
var Channels = [NumChannels]Channel{Conductivity, Temperature}

// Valid reports whether c names a probe channel.
func (c Channel) Valid() bool {
	return c >= Conductivity && c < NumChannels
}

func (c Channel) String() string {
	switch c {
	case Conductivity:
		return "conductivity"
	case Temperature:
		return "temperature"
	default:
		return fmt.Sprintf("channel(%d)", int(c))
	}
}

// Unit returns the physical unit of values read from the channel.
func (c Channel) Unit() string {
	switch c {
	case Conductivity:
		return "mS/cm"
	case Temperature:
		return "°C"
	default:
		return ""
	}
}

// Calibration converts a mean raw count into a physical value.
type Calibration struct {
	Scale     float64 // units per raw count
	Offset    float64 // units added after scaling
	Min       float64 // lowest reportable value
	Max       float64 // highest reportable value
	Threshold float64 // smallest change that is worth redrawing
}

// Apply converts mean into a physical value and clamps it to [Min, Max].
func (c Calibration) Apply(mean float64) float64 {
	return c.Clamp(c.Scale*mean + c.Offset)
}

// Clamp limits v to the valid range of the channel.
func (c Calibration) Clamp(v float64) float64 {
	if v > c.Max {
		return c.Max
	}
	if v < c.Min {
		return c.Min
	}
	return v
}

// Probe datasheet: ec = 7*v and temp = 50*v - 13 with a 3.3V reference on a 12-bit ADC,
// rounded to the steps the instrument has always used.
const (
	ConductivityScale = 0.0056
	TemperatureScale  = 0.04
	TemperatureOffset = -13
)

// DefaultCalibrations returns the factory calibration of both probe channels.
func DefaultCalibrations() [NumChannels]Calibration {
	return [NumChannels]Calibration{
		Conductivity: {
			Scale:     ConductivityScale,
			Offset:    0,
			Min:       0,
			Max:       7,
			Threshold: 0.1,
		},
		Temperature: {
			Scale:     TemperatureScale,
			Offset:    TemperatureOffset,
			Min:       -10,
			Max:       50,
			Threshold: 0.01,
		},
	}
}

// RawFor returns the raw count that maps to value under c, ignoring clamping.
// It is used by simulated probes to produce plausible readings.
func (c Calibration) RawFor(value float64) uint16 {
	if c.Scale == 0 {
		return 0
	}
	raw := (value - c.Offset) / c.Scale
	if raw < 0 {
		return 0
	}
	if raw > MaxRaw {
		return MaxRaw
	}
	return uint16(raw + 0.5)
}

package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestChannel_String(t *testing.T) {
	assert.Equal(t, "conductivity", Conductivity.String())
	assert.Equal(t, "temperature", Temperature.String())
	assert.Equal(t, "channel(7)", Channel(7).String())
	assert.Equal(t, "mS/cm", Conductivity.Unit())
	assert.Equal(t, "°C", Temperature.Unit())
}

func TestChannel_Valid(t *testing.T) {
	assert.True(t, Conductivity.Valid())
	assert.True(t, Temperature.Valid())
	assert.False(t, Channel(-1).Valid())
	assert.False(t, Channel(NumChannels).Valid())
}

func TestCalibration_Apply(t *testing.T) {
	cal := DefaultCalibrations()

	tests := []struct {
		name string
		ch   Channel
		mean float64
		want float64
	}{
		{name: "conductivity in range", ch: Conductivity, mean: 100, want: 0.56},
		{name: "conductivity zero", ch: Conductivity, mean: 0, want: 0},
		{name: "conductivity clamped high", ch: Conductivity, mean: 4095, want: 7},
		{name: "temperature in range", ch: Temperature, mean: 300, want: -1},
		{name: "temperature clamped low", ch: Temperature, mean: 0, want: -10},
		{name: "temperature clamped high", ch: Temperature, mean: 4095, want: 50},
		{name: "temperature room", ch: Temperature, mean: 825, want: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, cal[tt.ch].Apply(tt.mean), 1e-9)
		})
	}
}

func TestCalibration_RawFor(t *testing.T) {
	cal := DefaultCalibrations()

	assert.Equal(t, uint16(100), cal[Conductivity].RawFor(0.56))
	assert.Equal(t, uint16(300), cal[Temperature].RawFor(-1))
	assert.Equal(t, uint16(0), cal[Temperature].RawFor(-20))
	assert.Equal(t, uint16(MaxRaw), cal[Conductivity].RawFor(100))
	assert.Equal(t, uint16(0), Calibration{}.RawFor(1))
}

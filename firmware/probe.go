//go:build tinygo

package main

import (
	"machine"

	"github.com/itohio/gosoil/pkg/adc"
	"github.com/itohio/gosoil/pkg/sample"
)

// probe reads both probe channels from the on-chip ADC.
type probe struct {
	inputs [sample.NumChannels]machine.ADC
}

var _ adc.Reader = (*probe)(nil)

func newProbe() *probe {
	machine.InitADC()

	p := &probe{}
	p.inputs[sample.Conductivity] = machine.ADC{Pin: PIN_CONDUCTIVITY}
	p.inputs[sample.Temperature] = machine.ADC{Pin: PIN_TEMPERATURE}

	cfg := machine.ADCConfig{
		Reference:  ADC_REFERENCE_MV,
		Resolution: ADC_RESOLUTION,
	}
	for i := range p.inputs {
		p.inputs[i].Configure(cfg)
	}
	return p
}

// Read returns a 12-bit count. machine.ADC.Get scales every resolution to 16 bits.
func (p *probe) Read(ch sample.Channel) uint16 {
	if !ch.Valid() {
		return 0
	}
	return p.inputs[ch].Get() >> 4
}

//go:build tinygo

//go:generate tinygo flash -target=pico

package main

import (
	"machine"
	"time"

	"github.com/itohio/gosoil/pkg/instrument"
	"github.com/itohio/gosoil/pkg/timer"
)

func main() {
	screen, err := newLCD()
	if err != nil {
		for {
			println("lcd:", err.Error())
			time.Sleep(time.Second)
		}
	}

	clock := timer.System()
	meter := instrument.New(instrument.DefaultOptions(), clock, newProbe(), screen)

	PIN_BUTTON.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	err = PIN_BUTTON.SetInterrupt(machine.PinFalling, func(machine.Pin) {
		meter.OnEdge(clock.Now())
	})
	if err != nil {
		println("button:", err.Error())
	}

	for {
		meter.Step()
		time.Sleep(LOOP_IDLE)
	}
}

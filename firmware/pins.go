//go:build tinygo

package main

import (
	"machine"
	"time"
)

const (
	// ADC configuration
	ADC_REFERENCE_MV = 3300 // Reference voltage in millivolts (3.3V)
	ADC_RESOLUTION   = 12   // Probe calibration assumes 12-bit counts (0-4095)

	// Probe pins
	PIN_CONDUCTIVITY = machine.ADC0 // GP26
	PIN_TEMPERATURE  = machine.ADC1 // GP27

	// Push button, active low with the internal pull-up
	PIN_BUTTON = machine.GP15

	// HD44780 20x4 LCD in 4-bit mode, R/W tied to ground
	PIN_LCD_RS = machine.GP16
	PIN_LCD_E  = machine.GP17
	PIN_LCD_D4 = machine.GP18
	PIN_LCD_D5 = machine.GP19
	PIN_LCD_D6 = machine.GP20
	PIN_LCD_D7 = machine.GP21

	// Main loop pause between passes
	LOOP_IDLE = time.Millisecond
)

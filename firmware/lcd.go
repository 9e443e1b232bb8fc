//go:build tinygo

package main

import (
	"machine"

	"tinygo.org/x/drivers/hd44780"

	"github.com/itohio/gosoil/pkg/display"
)

// lcd drives the character LCD through the hd44780 driver.
type lcd struct {
	dev hd44780.Device
}

var _ display.Display = (*lcd)(nil)

func newLCD() (*lcd, error) {
	dev, err := hd44780.NewGPIO4Bit(
		[]machine.Pin{PIN_LCD_D4, PIN_LCD_D5, PIN_LCD_D6, PIN_LCD_D7},
		PIN_LCD_E, PIN_LCD_RS, machine.NoPin,
	)
	if err != nil {
		return nil, err
	}
	if err := dev.Configure(hd44780.Config{Width: display.Cols, Height: display.Rows}); err != nil {
		return nil, err
	}
	return &lcd{dev: dev}, nil
}

func (l *lcd) Clear() {
	l.dev.ClearDisplay()
}

func (l *lcd) SetCursor(row, col int) {
	l.dev.SetCursor(uint8(col), uint8(row))
}

func (l *lcd) Print(text string) {
	l.dev.Write([]byte(text))
	l.dev.Display()
}

func (l *lcd) PutChar(code byte) {
	l.dev.Write([]byte{code})
	l.dev.Display()
}

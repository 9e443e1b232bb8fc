// Package display defines the character display used by the instrument and a few
// helpers for writing to it safely.
package display

import "strings"

// Geometry of the 20x4 character LCD fitted to the instrument.
const (
	Rows = 4
	Cols = 20
)

// Glyphs from the HD44780 A00 character ROM.
const (
	Block  byte = 0xFF
	Arrow  byte = 0x7E
	Degree byte = 0xDF
)

// Display is a character display addressed by row and column.
type Display interface {
	Clear()
	SetCursor(row, col int)
	Print(text string)
	PutChar(code byte)
}

// Text prints text at (row, col) unless it would run past the last column or the
// position is off the screen. It reports whether anything was written.
func Text(d Display, row, col int, text string) bool {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return false
	}
	if len(text) > Cols-col {
		return false
	}
	d.SetCursor(row, col)
	d.Print(text)
	return true
}

// Fill writes n copies of code starting at (row, col), truncated at the last column.
func Fill(d Display, row, col, n int, code byte) {
	if row < 0 || row >= Rows || col < 0 || col >= Cols {
		return
	}
	if n > Cols-col {
		n = Cols - col
	}
	if n <= 0 {
		return
	}
	d.SetCursor(row, col)
	for range n {
		d.PutChar(code)
	}
}

// Blank returns n spaces, the usual way to erase a field.
func Blank(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat(" ", n)
}

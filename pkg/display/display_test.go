package display

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestText(t *testing.T) {
	tests := []struct {
		name string
		row  int
		col  int
		text string
		ok   bool
	}{
		{name: "fits", row: 1, col: 0, text: "Press Button to", ok: true},
		{name: "fills to last column", row: 0, col: 5, text: "0123456789abcdef", ok: false},
		{name: "exactly remaining columns", row: 0, col: 5, text: "0123456789abcde", ok: true},
		{name: "too long", row: 2, col: 15, text: "123456", ok: false},
		{name: "row out of range", row: 4, col: 0, text: "x", ok: false},
		{name: "negative column", row: 0, col: -1, text: "x", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuffer()
			ok := Text(b, tt.row, tt.col, tt.text)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.text, b.Line(tt.row)[tt.col:tt.col+len(tt.text)])
			} else {
				assert.Empty(t, b.Ops(), "rejected text must not reach the display")
			}
		})
	}
}

func TestFill(t *testing.T) {
	b := NewBuffer()

	Fill(b, 0, 0, Cols, Block)
	Fill(b, 3, 18, 5, Block)

	assert.Equal(t, strings.Repeat("█", Cols), b.Line(0))
	assert.Equal(t, strings.Repeat(" ", 18)+"██", b.Line(3))
}

func TestBlank(t *testing.T) {
	assert.Equal(t, "      ", Blank(6))
	assert.Equal(t, "", Blank(0))
	assert.Equal(t, "", Blank(-3))
}

func TestBuffer_PrintAndPutChar(t *testing.T) {
	b := NewBuffer()

	b.SetCursor(1, 6)
	b.Print("-1.00 ")
	b.PutChar(Degree)
	b.Print("C ")

	assert.Equal(t, "      -1.00 °C      ", b.Line(1))
	ops := b.Ops()
	require.Len(t, ops, 4)
	assert.Equal(t, Op{Kind: "cursor", Row: 1, Col: 6}, ops[0])
	assert.Equal(t, Op{Kind: "char", Row: 1, Col: 12, Code: Degree}, ops[2])
	assert.Equal(t, []string{"-1.00 ", "C "}, b.Prints())
}

func TestBuffer_PrintClipsAtLastColumn(t *testing.T) {
	b := NewBuffer()

	b.SetCursor(0, 18)
	b.Print("abcd")

	assert.Equal(t, "ab", b.Line(0)[18:])
	assert.Equal(t, strings.Repeat(" ", Cols), b.Line(1))
}

func TestBuffer_ClearAndVersion(t *testing.T) {
	b := NewBuffer()
	assert.Equal(t, uint64(0), b.Version())

	b.SetCursor(0, 0)
	b.Print("x")
	assert.Equal(t, uint64(1), b.Version())

	b.SetCursor(0, 0)
	b.Print("x")
	assert.Equal(t, uint64(1), b.Version(), "identical content is not a change")

	b.Clear()
	assert.Equal(t, uint64(2), b.Version())
	assert.Equal(t, strings.Repeat(" ", Cols), b.Line(0))
}

func TestBuffer_OnChange(t *testing.T) {
	b := NewBuffer()
	var frames []Frame
	b.OnChange(func(f Frame) { frames = append(frames, f) })

	b.SetCursor(2, 7)
	b.Print("START!")
	b.SetCursor(2, 7)
	b.Print("START!")

	require.Len(t, frames, 1)
	assert.Equal(t, "       START!       ", frames[0].Line(2))
}

func TestBuffer_ResetOps(t *testing.T) {
	b := NewBuffer()
	b.Clear()
	b.ResetOps()
	assert.Empty(t, b.Ops())
}

func TestRune(t *testing.T) {
	assert.Equal(t, '█', Rune(Block))
	assert.Equal(t, '→', Rune(Arrow))
	assert.Equal(t, '°', Rune(Degree))
	assert.Equal(t, 'A', Rune('A'))
	assert.Equal(t, '?', Rune(0x01))
}

func TestFrame_String(t *testing.T) {
	b := NewBuffer()
	Text(b, 0, 0, "EC: ")

	lines := strings.Split(b.Frame().String(), "\n")
	assert.Len(t, lines, Rows)
	assert.Equal(t, "EC: ", lines[0][:4])
}

func TestBuffer_RecordOff(t *testing.T) {
	b := NewBuffer()
	b.Record(false)

	Text(b, 0, 0, "EC: ")

	assert.Empty(t, b.Ops())
	assert.Equal(t, "EC: ", b.Line(0)[:4])
}

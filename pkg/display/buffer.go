package display

import (
	"strings"
	"sync"
)

// Frame is the content of the whole screen, one byte per cell.
type Frame [Rows][Cols]byte

// Op is a single call made on a Buffer, recorded for inspection.
type Op struct {
	Kind string // "clear", "cursor", "print" or "char"
	Row  int
	Col  int
	Text string
	Code byte
}

// Buffer is an in-memory Display. It keeps the frame, the cursor and a log of calls.
// It is safe for concurrent use, so a renderer may read frames while the instrument
// writes.
type Buffer struct {
	mu       sync.Mutex
	frame    Frame
	row, col int
	ops      []Op
	version  uint64
	onChange func(Frame)
	quiet    bool
}

var _ Display = (*Buffer)(nil)

// NewBuffer creates a blank buffer.
func NewBuffer() *Buffer {
	b := &Buffer{}
	b.blank()
	return b
}

// Record turns the call log on or off. It is on for a new buffer; long running
// renderers turn it off so the log does not grow without bound.
func (b *Buffer) Record(on bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.quiet = !on
	if !on {
		b.ops = nil
	}
}

func (b *Buffer) record(op Op) {
	if !b.quiet {
		b.ops = append(b.ops, op)
	}
}

// OnChange registers f to be called with the new frame whenever a call modifies it.
// f runs on the writer's goroutine and must return quickly.
func (b *Buffer) OnChange(f func(Frame)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.onChange = f
}

func (b *Buffer) blank() {
	for r := range b.frame {
		for c := range b.frame[r] {
			b.frame[r][c] = ' '
		}
	}
}

// Clear blanks the screen and homes the cursor.
func (b *Buffer) Clear() {
	b.mu.Lock()
	b.record(Op{Kind: "clear"})
	old := b.frame
	b.blank()
	b.row, b.col = 0, 0
	b.commit(old)
}

// SetCursor moves the cursor; out of range positions are kept and make later writes no-ops.
func (b *Buffer) SetCursor(row, col int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.record(Op{Kind: "cursor", Row: row, Col: col})
	b.row, b.col = row, col
}

// Print writes text at the cursor. Characters past the last column are dropped.
func (b *Buffer) Print(text string) {
	b.mu.Lock()
	b.record(Op{Kind: "print", Row: b.row, Col: b.col, Text: text})
	old := b.frame
	for i := 0; i < len(text); i++ {
		b.put(text[i])
	}
	b.commit(old)
}

// PutChar writes a single character code at the cursor.
func (b *Buffer) PutChar(code byte) {
	b.mu.Lock()
	b.record(Op{Kind: "char", Row: b.row, Col: b.col, Code: code})
	old := b.frame
	b.put(code)
	b.commit(old)
}

func (b *Buffer) put(code byte) {
	if b.row >= 0 && b.row < Rows && b.col >= 0 && b.col < Cols {
		b.frame[b.row][b.col] = code
	}
	b.col++
}

// commit bumps the version and notifies if the frame changed, then unlocks b.mu.
func (b *Buffer) commit(old Frame) {
	if old == b.frame {
		b.mu.Unlock()
		return
	}
	b.version++
	frame := b.frame
	cb := b.onChange
	b.mu.Unlock()
	if cb != nil {
		cb(frame)
	}
}

// Frame returns a copy of the current screen.
func (b *Buffer) Frame() Frame {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.frame
}

// Version increases every time the visible content changes.
func (b *Buffer) Version() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.version
}

// Line returns row as text with the LCD glyphs mapped to Unicode.
func (b *Buffer) Line(row int) string {
	if row < 0 || row >= Rows {
		return ""
	}
	f := b.Frame()
	return f.Line(row)
}

// Ops returns the calls recorded since the last ResetOps.
func (b *Buffer) Ops() []Op {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Op, len(b.ops))
	copy(out, b.ops)
	return out
}

// Prints returns the text of every Print call recorded since the last ResetOps.
func (b *Buffer) Prints() []string {
	var out []string
	for _, op := range b.Ops() {
		if op.Kind == "print" {
			out = append(out, op.Text)
		}
	}
	return out
}

// ResetOps forgets the recorded calls.
func (b *Buffer) ResetOps() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.ops = b.ops[:0]
}

// Line returns row of the frame with the LCD glyphs mapped to Unicode.
func (f Frame) Line(row int) string {
	var sb strings.Builder
	for _, c := range f[row] {
		sb.WriteRune(Rune(c))
	}
	return sb.String()
}

// String renders the frame as Rows lines separated by newlines.
func (f Frame) String() string {
	lines := make([]string, Rows)
	for r := range lines {
		lines[r] = f.Line(r)
	}
	return strings.Join(lines, "\n")
}

// Rune maps an LCD character code to the closest Unicode rune.
func Rune(code byte) rune {
	switch code {
	case Block:
		return '█'
	case Arrow:
		return '→'
	case Degree:
		return '°'
	}
	if code < 0x20 || code > 0x7D {
		return '?'
	}
	return rune(code)
}

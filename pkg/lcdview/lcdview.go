// Package lcdview is a Fyne widget that looks like the 20x4 character LCD of the meter.
package lcdview

import (
	"image/color"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/itohio/gosoil/pkg/display"
)

var (
	backlight = color.RGBA{R: 24, G: 64, B: 160, A: 255}
	glyphOn   = color.RGBA{R: 235, G: 240, B: 255, A: 255}
)

// Panel is a custom Fyne widget that shows a display.Frame.
type Panel struct {
	widget.BaseWidget

	textSize float32

	// Data (protected by mu)
	mu    sync.RWMutex
	frame display.Frame
}

// New creates a blank panel. textSize is the glyph height in points.
func New(textSize float32) *Panel {
	if textSize <= 0 {
		textSize = 28
	}
	p := &Panel{textSize: textSize}
	for r := range p.frame {
		for c := range p.frame[r] {
			p.frame[r][c] = ' '
		}
	}
	p.ExtendBaseWidget(p)
	return p
}

// SetFrame replaces the shown content. Call it on the Fyne thread, e.g. from fyne.Do.
func (p *Panel) SetFrame(f display.Frame) {
	p.mu.Lock()
	p.frame = f
	p.mu.Unlock()

	// Refresh outside the lock, the renderer reads the frame.
	p.Refresh()
}

// Frame returns the shown content.
func (p *Panel) Frame() display.Frame {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.frame
}

// CreateRenderer creates the widget renderer.
func (p *Panel) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(backlight)
	r := &panelRenderer{
		panel:   p,
		bg:      bg,
		objects: []fyne.CanvasObject{bg},
	}
	for row := range r.cells {
		for col := range r.cells[row] {
			t := canvas.NewText(" ", glyphOn)
			t.TextSize = p.textSize
			t.TextStyle = fyne.TextStyle{Monospace: true}
			t.Alignment = fyne.TextAlignCenter
			r.cells[row][col] = t
			r.objects = append(r.objects, t)
		}
	}
	r.Refresh()
	return r
}

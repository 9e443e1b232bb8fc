package lcdview

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"

	"github.com/itohio/gosoil/pkg/display"
)

const margin = 12

// panelRenderer renders the panel as a grid of single character texts.
type panelRenderer struct {
	panel *Panel

	bg      *canvas.Rectangle
	cells   [display.Rows][display.Cols]*canvas.Text
	objects []fyne.CanvasObject
}

// cellSize returns the size of one character cell.
func (r *panelRenderer) cellSize() fyne.Size {
	m := fyne.MeasureText("W", r.panel.textSize, fyne.TextStyle{Monospace: true})
	return fyne.NewSize(m.Width*1.15, m.Height*1.1)
}

// MinSize returns the minimum size of the widget.
func (r *panelRenderer) MinSize() fyne.Size {
	c := r.cellSize()
	return fyne.NewSize(c.Width*display.Cols+2*margin, c.Height*display.Rows+2*margin)
}

// Layout places the cells centered in size.
func (r *panelRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)

	c := r.cellSize()
	x0 := (size.Width - c.Width*display.Cols) / 2
	y0 := (size.Height - c.Height*display.Rows) / 2
	for row := range r.cells {
		for col, t := range r.cells[row] {
			t.Move(fyne.NewPos(x0+float32(col)*c.Width, y0+float32(row)*c.Height))
			t.Resize(c)
		}
	}
}

// Refresh copies the current frame into the cells.
func (r *panelRenderer) Refresh() {
	frame := r.panel.Frame()
	for row := range r.cells {
		for col, t := range r.cells[row] {
			s := string(display.Rune(frame[row][col]))
			if t.Text != s {
				t.Text = s
				t.Refresh()
			}
		}
	}
	r.bg.Refresh()
}

// Objects returns all canvas objects for rendering.
func (r *panelRenderer) Objects() []fyne.CanvasObject {
	return r.objects
}

// Destroy cleans up resources.
func (r *panelRenderer) Destroy() {}

package menu

import (
	"log"

	"github.com/itohio/gosoil/pkg/sample"
	"github.com/itohio/gosoil/pkg/timer"
)

// Edge is what happened to a button edge.
type Edge int

const (
	EdgeAccepted Edge = iota // caused a transition
	EdgeBounced              // rejected by the debouncer
	EdgeDropped              // arrived while measuring or while entry work was pending
)

func (e Edge) String() string {
	switch e {
	case EdgeAccepted:
		return "accepted"
	case EdgeBounced:
		return "bounced"
	case EdgeDropped:
		return "dropped"
	default:
		return "unknown"
	}
}

// Observer is told about what the instrument does. Edge may be called from
// interrupt context and must not block.
type Observer interface {
	Entered(s State)
	Finalized(burst bool)
	Rendered(ch sample.Channel, value float64)
	Edge(e Edge)
	WaitExpired(tag timer.Tag)
}

// Nop ignores everything.
type Nop struct{}

func (Nop) Entered(State) {}
func (Nop) Finalized(bool) {}
func (Nop) Rendered(sample.Channel, float64) {}
func (Nop) Edge(Edge) {}
func (Nop) WaitExpired(timer.Tag) {}

// Logger logs state entries and expired waits.
type Logger struct{ Nop }

func (Logger) Entered(s State) {
	log.Printf("Entered %s", s)
}

func (Logger) Rendered(ch sample.Channel, value float64) {
	log.Printf("%s: %.2f %s", ch, value, ch.Unit())
}

func (Logger) WaitExpired(tag timer.Tag) {
	log.Printf("Timed out waiting for %s timer", tag)
}

// Observers fans every call out to all of its members.
type Observers []Observer

func (o Observers) Entered(s State) {
	for _, x := range o {
		x.Entered(s)
	}
}

func (o Observers) Finalized(burst bool) {
	for _, x := range o {
		x.Finalized(burst)
	}
}

func (o Observers) Rendered(ch sample.Channel, value float64) {
	for _, x := range o {
		x.Rendered(ch, value)
	}
}

func (o Observers) Edge(e Edge) {
	for _, x := range o {
		x.Edge(e)
	}
}

func (o Observers) WaitExpired(tag timer.Tag) {
	for _, x := range o {
		x.WaitExpired(tag)
	}
}

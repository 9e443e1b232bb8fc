package menu

import "sync/atomic"

// State is the screen the instrument is on.
type State uint32

const (
	Idle State = iota
	Measuring
	Result
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Measuring:
		return "measuring"
	case Result:
		return "result"
	default:
		return "unknown"
	}
}

// changedBit marks a state that was entered but whose entry work has not run yet.
const (
	stateMask  = 0xff
	changedBit = 1 << 8
)

func pack(s State, changed bool) uint32 {
	w := uint32(s) & stateMask
	if changed {
		w |= changedBit
	}
	return w
}

func unpack(w uint32) (State, bool) {
	return State(w & stateMask), w&changedBit != 0
}

// Shared is the state word touched by both the button interrupt and the main loop.
// State and the state-changed flag live in one atomic word so a transition is a
// single compare-and-swap and neither side can observe one without the other.
type Shared struct {
	word atomic.Uint32
}

// NewShared starts in s with the entry work pending.
func NewShared(s State) *Shared {
	sh := &Shared{}
	sh.word.Store(pack(s, true))
	return sh
}

// Load returns the current state and whether its entry work is still pending.
func (sh *Shared) Load() (State, bool) {
	return unpack(sh.word.Load())
}

// State returns the current state.
func (sh *Shared) State() State {
	s, _ := sh.Load()
	return s
}

// Transition moves from -> to only if the current state is from with no entry work
// pending. It never blocks and is safe from interrupt context.
func (sh *Shared) Transition(from, to State) bool {
	return sh.word.CompareAndSwap(pack(from, false), pack(to, true))
}

// Force enters s unconditionally.
func (sh *Shared) Force(s State) {
	sh.word.Store(pack(s, true))
}

// Ack marks the entry work of s as done. It fails if the state moved meanwhile.
func (sh *Shared) Ack(s State) bool {
	return sh.word.CompareAndSwap(pack(s, true), pack(s, false))
}

// Press applies an accepted button press: Idle starts a measurement and Result goes
// back to Idle. A press in any other state, or while entry work is pending, is dropped.
func (sh *Shared) Press() (State, bool) {
	w := sh.word.Load()
	s, changed := unpack(w)
	if changed {
		return s, false
	}
	var next State
	switch s {
	case Idle:
		next = Measuring
	case Result:
		next = Idle
	default:
		return s, false
	}
	if !sh.word.CompareAndSwap(w, pack(next, true)) {
		return s, false
	}
	return next, true
}

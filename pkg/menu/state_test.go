package menu

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShared_StartsWithEntryPending(t *testing.T) {
	sh := NewShared(Idle)

	s, changed := sh.Load()
	assert.Equal(t, Idle, s)
	assert.True(t, changed)
}

func TestShared_Press(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		changed bool
		want    State
		ok      bool
	}{
		{name: "idle starts measuring", from: Idle, want: Measuring, ok: true},
		{name: "result returns to idle", from: Result, want: Idle, ok: true},
		{name: "measuring ignores presses", from: Measuring, want: Measuring},
		{name: "pending idle entry", from: Idle, changed: true, want: Idle},
		{name: "pending result entry", from: Result, changed: true, want: Result},
		{name: "unknown state", from: State(9), want: State(9)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sh := &Shared{}
			sh.word.Store(pack(tt.from, tt.changed))

			got, ok := sh.Press()

			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
			s, changed := sh.Load()
			assert.Equal(t, tt.want, s)
			if tt.ok {
				assert.True(t, changed, "accepted press marks the new state as entered")
			}
		})
	}
}

func TestShared_AckAndForce(t *testing.T) {
	sh := NewShared(Measuring)

	assert.False(t, sh.Ack(Idle), "ack of another state fails")
	require.True(t, sh.Ack(Measuring))
	assert.False(t, sh.Ack(Measuring), "second ack has nothing to clear")

	sh.Force(Result)
	s, changed := sh.Load()
	assert.Equal(t, Result, s)
	assert.True(t, changed)
}

func TestShared_Transition(t *testing.T) {
	sh := NewShared(Idle)

	assert.False(t, sh.Transition(Idle, Measuring), "entry work still pending")
	sh.Ack(Idle)
	assert.False(t, sh.Transition(Result, Idle))
	assert.True(t, sh.Transition(Idle, Measuring))
	assert.Equal(t, Measuring, sh.State())
}

func TestShared_ConcurrentPressesTransitionOnce(t *testing.T) {
	sh := NewShared(Idle)
	sh.Ack(Idle)

	var wins atomic.Int32
	var wg sync.WaitGroup
	for range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := sh.Press(); ok {
				wins.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), wins.Load())
	assert.Equal(t, Measuring, sh.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", Idle.String())
	assert.Equal(t, "measuring", Measuring.String())
	assert.Equal(t, "result", Result.String())
	assert.Equal(t, "unknown", State(3).String())
}

package main

import (
	"bytes"
	"context"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itohio/gosoil/pkg/adc"
	"github.com/itohio/gosoil/pkg/display"
	"github.com/itohio/gosoil/pkg/instrument"
	"github.com/itohio/gosoil/pkg/timer"
)

// syncBuffer is a bytes.Buffer that may be written and read from different goroutines.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newHeadlessMeter() (*instrument.Instrument, *display.Buffer) {
	screen := display.NewBuffer()
	screen.Record(false)
	meter := instrument.New(instrument.DefaultOptions(), timer.NewFake(time.Second), adc.Constant(100, 300), screen)
	return meter, screen
}

func TestRunHeadless_PrintsFramesAndPresses(t *testing.T) {
	meter, screen := newHeadlessMeter()
	in, pipe := io.Pipe()
	out := &syncBuffer{}

	done := make(chan error, 1)
	go func() { done <- runHeadless(context.Background(), meter, screen, in, out) }()

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "|Press Button to     |")
	}, time.Second, time.Millisecond)

	_, err := pipe.Write([]byte("\n"))
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return strings.Contains(out.String(), "button: accepted")
	}, time.Second, time.Millisecond)

	require.NoError(t, pipe.Close())

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("runHeadless did not return after EOF")
	}

	assert.Contains(t, out.String(), "+"+strings.Repeat("-", display.Cols)+"+")
}

func TestRunHeadless_StopsOnCancel(t *testing.T) {
	meter, screen := newHeadlessMeter()
	in, pipe := io.Pipe()
	defer pipe.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- runHeadless(ctx, meter, screen, in, io.Discard) }()

	require.Eventually(t, func() bool {
		return screen.Line(1) == "Press Button to     "
	}, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("runHeadless did not return after cancel")
	}
}

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/itohio/gosoil/pkg/display"
	"github.com/itohio/gosoil/pkg/instrument"
)

// runHeadless runs the meter in the terminal. Every line read from in is a button
// press and every change of the screen is printed to out. It returns when ctx is done
// or in is exhausted.
func runHeadless(ctx context.Context, meter *instrument.Instrument, screen *display.Buffer, in io.Reader, out io.Writer) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var mu sync.Mutex
	screen.OnChange(func(f display.Frame) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, "+%s+\n", strings.Repeat("-", display.Cols))
		for row := range display.Rows {
			fmt.Fprintf(out, "|%s|\n", f.Line(row))
		}
		fmt.Fprintf(out, "+%s+\n", strings.Repeat("-", display.Cols))
	})
	defer screen.OnChange(nil)

	done := make(chan error, 1)
	go func() { done <- meter.Run(ctx) }()

	lines := make(chan struct{})
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- struct{}{}:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case _, ok := <-lines:
			if !ok {
				cancel()
				<-done
				return nil
			}
			e := meter.Press()
			mu.Lock()
			fmt.Fprintf(out, "button: %s\n", e)
			mu.Unlock()
		case err := <-done:
			return err
		}
	}
}

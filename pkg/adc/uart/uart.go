// Package uart reads raw samples from an ADC bridge that streams them over a serial port.
package uart

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.bug.st/serial"

	"github.com/itohio/gosoil/pkg/adc"
	"github.com/itohio/gosoil/pkg/sample"
)

// DefaultBaudRate is the UART speed of the ADC bridge.
const DefaultBaudRate = 115200

// Config configures the USB-UART ADC bridge.
type Config struct {
	Port       string        `yaml:"port"`
	BaudRate   int           `yaml:"baud_rate"`
	MaxBackoff time.Duration `yaml:"max_backoff"` // upper bound between reconnect attempts
}

var _ adc.Reader = (*Bridge)(nil)

// Port represents a serial port.
type Port struct {
	Name        string
	Description string
}

// Ports returns a list of available serial ports.
func Ports() ([]Port, error) {
	ports, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("failed to list serial ports: %w", err)
	}

	result := make([]Port, 0, len(ports))
	for _, name := range ports {
		result = append(result, Port{Name: name, Description: name})
	}
	return result, nil
}

// Bridge reads samples streamed by an external ADC bridge. The bridge prints one line
// per conversion: "<conductivity>,<temperature>" in raw 12-bit counts.
//
// Read never blocks on the port: it returns the most recent value seen on the line.
// The connection is kept alive in the background and re-opened with exponential
// backoff if the bridge is unplugged.
type Bridge struct {
	cfg  Config
	open func() (io.ReadCloser, error)

	latest [sample.NumChannels]atomic.Uint32
	lines  atomic.Uint64

	mu     sync.Mutex
	conn   io.ReadCloser
	cancel context.CancelFunc
	done   chan struct{}
}

// New creates a bridge reader. Call Connect to start reading.
func New(cfg Config) *Bridge {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 5 * time.Second
	}
	s := &Bridge{cfg: cfg}
	s.open = func() (io.ReadCloser, error) {
		return serial.Open(cfg.Port, &serial.Mode{BaudRate: cfg.BaudRate})
	}
	return s
}

// Connect opens the port, retrying until it succeeds or ctx ends, and starts the
// background reader.
func (s *Bridge) Connect(ctx context.Context) error {
	s.mu.Lock()
	if s.cancel != nil {
		s.mu.Unlock()
		return errors.New("already connected")
	}
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	conn, err := s.dial(ctx)
	if err != nil {
		cancel()
		s.mu.Lock()
		s.cancel = nil
		close(s.done)
		s.mu.Unlock()
		return fmt.Errorf("failed to open ADC bridge %s: %w", s.cfg.Port, err)
	}

	go s.run(ctx, conn)
	return nil
}

// Close stops the background reader and closes the port.
func (s *Bridge) Close() error {
	s.mu.Lock()
	cancel, done, conn := s.cancel, s.done, s.conn
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	var err error
	if conn != nil {
		err = conn.Close()
	}
	<-done
	return err
}

// Read returns the latest raw count of ch received from the bridge.
func (s *Bridge) Read(ch sample.Channel) uint16 {
	if !ch.Valid() {
		return 0
	}
	return uint16(s.latest[ch].Load())
}

// Lines returns the number of valid sample lines received.
func (s *Bridge) Lines() uint64 {
	return s.lines.Load()
}

// dial opens the port with exponential backoff until ctx ends.
func (s *Bridge) dial(ctx context.Context) (io.ReadCloser, error) {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = min(100*time.Millisecond, s.cfg.MaxBackoff)
	bo.MaxInterval = s.cfg.MaxBackoff
	bo.MaxElapsedTime = 0

	var conn io.ReadCloser
	err := backoff.Retry(func() error {
		c, err := s.open()
		if err != nil {
			log.Printf("ADC bridge %s unavailable: %v", s.cfg.Port, err)
			return err
		}
		conn = c
		return nil
	}, backoff.WithContext(bo, ctx))
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.conn = conn
	s.mu.Unlock()
	return conn, nil
}

// run reads from conn and reconnects whenever the port goes away.
func (s *Bridge) run(ctx context.Context, conn io.ReadCloser) {
	defer close(s.done)
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Panic in ADC bridge reader: %v", r)
		}
	}()

	for {
		s.readLines(ctx, conn)
		conn.Close()

		if ctx.Err() != nil {
			return
		}
		log.Printf("ADC bridge %s disconnected, reconnecting", s.cfg.Port)

		var err error
		conn, err = s.dial(ctx)
		if err != nil {
			return
		}
	}
}

// readLines consumes sample lines until EOF, a read error or cancellation.
func (s *Bridge) readLines(ctx context.Context, conn io.Reader) {
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		ec, temp, err := parseLine(line)
		if err != nil {
			log.Printf("Failed to parse line '%s': %v", line, err)
			continue
		}
		s.latest[sample.Conductivity].Store(uint32(ec))
		s.latest[sample.Temperature].Store(uint32(temp))
		s.lines.Add(1)
	}
	if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) && ctx.Err() == nil {
		log.Printf("Error reading from ADC bridge: %v", err)
	}
}

// parseLine parses one bridge line.
// Format: conductivity,temperature
// Example: 412,860
func parseLine(line string) (ec, temp uint16, err error) {
	parts := strings.Split(line, ",")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid line format: expected 2 comma-separated values, got %d", len(parts))
	}

	ec, err = parseRaw(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid conductivity: %w", err)
	}
	temp, err = parseRaw(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid temperature: %w", err)
	}
	return ec, temp, nil
}

func parseRaw(field string) (uint16, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(field), 10, 16)
	if err != nil {
		return 0, err
	}
	if v > sample.MaxRaw {
		return 0, fmt.Errorf("out of range: %d (max %d)", v, sample.MaxRaw)
	}
	return uint16(v), nil
}

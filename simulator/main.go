// Command simulator runs the soil meter on a desktop, either in a window or in the
// terminal, with a simulated probe, a serial ADC bridge or a Modbus probe.
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/itohio/gosoil/pkg/config"
	"github.com/itohio/gosoil/pkg/display"
	"github.com/itohio/gosoil/pkg/instrument"
	"github.com/itohio/gosoil/pkg/menu"
	"github.com/itohio/gosoil/pkg/metrics"
	"github.com/itohio/gosoil/pkg/timer"
)

func main() {
	var (
		configFlag   = flag.String("config", "config.yaml", "Configuration file path")
		portFlag     = flag.String("p", "", "Serial port override (e.g., COM3 or /dev/ttyACM0)")
		sourceFlag   = flag.String("source", "", "Sample source override: mock, serial or modbus")
		mockFlag     = flag.Bool("mock", false, "Use the simulated probe (same as -source mock)")
		headlessFlag = flag.Bool("headless", false, "Run in the terminal; press Enter for the button")
		metricsFlag  = flag.String("metrics", "", "Serve Prometheus metrics on this address (e.g., :9100)")
	)
	flag.Parse()

	cfg, err := config.Load(*configFlag)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if *sourceFlag != "" {
		cfg.Source.Kind = *sourceFlag
	}
	if *mockFlag {
		cfg.Source.Kind = config.SourceMock
	}
	if *portFlag != "" {
		cfg.Source.Serial.Port = *portFlag
		cfg.Source.Modbus.Port = *portFlag
	}
	if *metricsFlag != "" {
		cfg.Simulator.MetricsAddr = *metricsFlag
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := openSource(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to open sample source: %v", err)
	}
	defer src.Close()

	screen := display.NewBuffer()
	screen.Record(false)

	meter := instrument.New(cfg.Options(), timer.System(), src, screen)
	observers := menu.Observers{menu.Logger{}}

	if cfg.Simulator.MetricsAddr != "" {
		reg := prometheus.NewRegistry()
		obs := metrics.New(reg)
		exportSource(obs, src)
		observers = append(observers, obs)
		srv := serveMetrics(cfg.Simulator.MetricsAddr, reg)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}
	meter.SetObserver(observers)

	if *headlessFlag {
		if err := runHeadless(ctx, meter, screen, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("Meter stopped: %v", err)
		}
		return
	}

	runGUI(ctx, &appState{
		cfg:        cfg,
		configPath: *configFlag,
		meter:      meter,
		src:        src,
	}, screen)
}

// serveMetrics starts the metrics endpoint in the background.
func serveMetrics(addr string, reg *prometheus.Registry) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		log.Printf("Serving metrics on %s/metrics", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("Metrics server failed: %v", err)
		}
	}()
	return srv
}

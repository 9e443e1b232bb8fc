// Package metrics exports what the soil meter does as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/itohio/gosoil/pkg/menu"
	"github.com/itohio/gosoil/pkg/sample"
	"github.com/itohio/gosoil/pkg/timer"
)

const namespace = "soil_meter"

var states = []menu.State{menu.Idle, menu.Measuring, menu.Result}

// Observer is a menu.Observer backed by Prometheus collectors.
type Observer struct {
	factory promauto.Factory

	state    *prometheus.GaugeVec
	entries  *prometheus.CounterVec
	slots    *prometheus.CounterVec
	reading  *prometheus.GaugeVec
	renders  *prometheus.CounterVec
	edges    *prometheus.CounterVec
	timeouts *prometheus.CounterVec
}

var _ menu.Observer = (*Observer)(nil)

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Observer {
	f := promauto.With(reg)
	o := &Observer{
		factory: f,
		state: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "Current screen of the meter (1 = active).",
		}, []string{"state"}),
		entries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "state_entries_total",
			Help:      "Total number of screen entries.",
		}, []string{"state"}),
		slots: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "slots_finalized_total",
			Help:      "Total number of averaged slots added to the moving average.",
		}, []string{"sampler"}),
		reading: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "reading",
			Help:      "Last filtered reading drawn on the display.",
		}, []string{"channel", "unit"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Total number of reading redraws.",
		}, []string{"channel"}),
		edges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "button_edges_total",
			Help:      "Total number of button edges by outcome.",
		}, []string{"outcome"}),
		timeouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "wait_timeouts_total",
			Help:      "Total number of timer waits that hit their limit.",
		}, []string{"timer"}),
	}
	for _, s := range states {
		o.state.WithLabelValues(s.String()).Set(0)
	}
	return o
}

// Entered implements menu.Observer.
func (o *Observer) Entered(s menu.State) {
	for _, x := range states {
		v := 0.0
		if x == s {
			v = 1
		}
		o.state.WithLabelValues(x.String()).Set(v)
	}
	o.entries.WithLabelValues(s.String()).Inc()
}

// Finalized implements menu.Observer.
func (o *Observer) Finalized(burst bool) {
	sampler := "background"
	if burst {
		sampler = "burst"
	}
	o.slots.WithLabelValues(sampler).Inc()
}

// Rendered implements menu.Observer.
func (o *Observer) Rendered(ch sample.Channel, value float64) {
	o.reading.WithLabelValues(ch.String(), ch.Unit()).Set(value)
	o.renders.WithLabelValues(ch.String()).Inc()
}

// Edge implements menu.Observer.
func (o *Observer) Edge(e menu.Edge) {
	o.edges.WithLabelValues(e.String()).Inc()
}

// WaitExpired implements menu.Observer.
func (o *Observer) WaitExpired(tag timer.Tag) {
	o.timeouts.WithLabelValues(tag.String()).Inc()
}

// CounterFunc exports a counter kept elsewhere, such as the line count of a serial
// source.
func (o *Observer) CounterFunc(name, help string, f func() uint64) prometheus.CounterFunc {
	return o.factory.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      name,
		Help:      help,
	}, func() float64 { return float64(f()) })
}

// Handler serves the metrics gathered by g.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

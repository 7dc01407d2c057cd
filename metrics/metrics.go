// Package metrics exposes gameplay counters to Prometheus.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wricardo/neurosphere-arcade/game/core"
)

// Metrics holds the arcade collectors on their own registry
type Metrics struct {
	Inputs         *prometheus.CounterVec
	Ticks          *prometheus.CounterVec
	GamesFinished  *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
	TickDuration   prometheus.Histogram

	registry *prometheus.Registry
}

// New creates and registers the collectors under namespace
func New(namespace string) *Metrics {
	m := &Metrics{
		Inputs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inputs_total",
			Help:      "Player inputs applied, by game",
		}, []string{"game"}),
		Ticks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Clock ticks applied, by game",
		}, []string{"game"}),
		GamesFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_finished_total",
			Help:      "Games that reached won or lost",
		}, []string{"game", "status"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of live sessions",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent inside one engine tick",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 4, 8),
		}),
		registry: prometheus.NewRegistry(),
	}

	m.registry.MustRegister(
		m.Inputs,
		m.Ticks,
		m.GamesFinished,
		m.ActiveSessions,
		m.TickDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the registry the collectors live on
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveInput counts one input
func (m *Metrics) ObserveInput(kind core.Kind) {
	m.Inputs.WithLabelValues(string(kind)).Inc()
}

// ObserveTick counts one tick and its duration
func (m *Metrics) ObserveTick(kind core.Kind, elapsed time.Duration) {
	m.Ticks.WithLabelValues(string(kind)).Inc()
	m.TickDuration.Observe(elapsed.Seconds())
}

// ObserveFinished counts a game reaching status
func (m *Metrics) ObserveFinished(kind core.Kind, status core.Status) {
	m.GamesFinished.WithLabelValues(string(kind), status.String()).Inc()
}

// SetActiveSessions sets the session gauge
func (m *Metrics) SetActiveSessions(n int) {
	m.ActiveSessions.Set(float64(n))
}

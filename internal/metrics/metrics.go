// Package metrics exports lobby state machine counters to Prometheus.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Unnamed1242/mkw-sp/internal/lobby"
	"github.com/Unnamed1242/mkw-sp/internal/protocol"
)

// Metrics implements lobby.Observer.
type Metrics struct {
	Ticks        prometheus.Counter
	TickDuration prometheus.Histogram
	Events       *prometheus.CounterVec
	Transitions  *prometheus.CounterVec
	Violations   prometheus.Counter
	StickyErrors *prometheus.CounterVec
	Players      prometheus.Gauge
}

var _ lobby.Observer = (*Metrics)(nil)

// New creates the collectors and registers them on reg.
func New(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Total number of lobby ticks",
		}),
		TickDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tick_duration_seconds",
			Help:      "Time spent in one lobby tick",
			Buckets:   prometheus.ExponentialBuckets(0.00001, 2, 12),
		}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Room events decoded, by kind",
		}, []string{"kind"}),
		Transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Lobby state transitions",
		}, []string{"from", "to"}),
		Violations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "protocol_violations_total",
			Help:      "Ticks aborted by a protocol violation",
		}),
		StickyErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sticky_errors_total",
			Help:      "Application errors latched, by code",
		}, []string{"code"}),
		Players: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "players",
			Help:      "Number of players in the room",
		}),
	}

	for _, c := range []prometheus.Collector{
		m.Ticks,
		m.TickDuration,
		m.Events,
		m.Transitions,
		m.Violations,
		m.StickyErrors,
		m.Players,
	} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *Metrics) ObserveTick(elapsed time.Duration) {
	m.Ticks.Inc()
	m.TickDuration.Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveEvent(kind protocol.EventKind) {
	m.Events.WithLabelValues(kind.String()).Inc()
}

func (m *Metrics) ObserveTransition(from, to lobby.State) {
	m.Transitions.WithLabelValues(from.String(), to.String()).Inc()
}

func (m *Metrics) ObserveViolation() {
	m.Violations.Inc()
}

func (m *Metrics) ObserveStickyError(code uint32) {
	m.StickyErrors.WithLabelValues(strconv.FormatUint(uint64(code), 10)).Inc()
}

func (m *Metrics) ObservePlayers(n int) {
	m.Players.Set(float64(n))
}

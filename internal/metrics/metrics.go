// Package metrics holds termwatch's Prometheus collectors: session
// lifecycle counts, tick duration, parser dispatch outcomes, and
// confirm/timeout counters. Adapted from the teacher's
// internal/infrastructure/monitoring metrics collector, trimmed to the
// counters this domain actually emits.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds every Prometheus collector termwatch registers.
type Metrics struct {
	SessionsActive   prometheus.Gauge
	SessionsCreated  prometheus.Counter
	SessionsDestroyed *prometheus.CounterVec
	SessionsEvicted  prometheus.Counter

	TickDuration *prometheus.HistogramVec

	ParserDispatches *prometheus.CounterVec

	ConfirmsRequired prometheus.Counter
	ConfirmsAnswered *prometheus.CounterVec
	ExecTimeouts     *prometheus.CounterVec

	Uptime    prometheus.Gauge
	startTime time.Time
}

// New registers and returns termwatch's metric collectors against the
// default Prometheus registry. Call once per process; a *Manager takes
// the result as an optional dependency and is a safe no-op without one.
func New() *Metrics {
	m := &Metrics{
		startTime: time.Now(),

		SessionsActive: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "termwatch_sessions_active",
			Help: "Number of sessions currently managed.",
		}),
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "termwatch_sessions_created_total",
			Help: "Total number of sessions created.",
		}),
		SessionsDestroyed: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "termwatch_sessions_destroyed_total",
			Help: "Total number of sessions destroyed, labeled by reason.",
		}, []string{"reason"}),
		SessionsEvicted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "termwatch_sessions_evicted_total",
			Help: "Total number of sessions force-destroyed by the idle sweep.",
		}),

		TickDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "termwatch_tick_duration_seconds",
			Help:    "Wall-clock duration of one driver evaluation tick.",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5},
		}, []string{"changed"}),

		ParserDispatches: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "termwatch_parser_dispatches_total",
			Help: "Total parser dispatch outcomes, labeled by kind and outcome.",
		}, []string{"kind", "outcome"}),

		ConfirmsRequired: promauto.NewCounter(prometheus.CounterOpts{
			Name: "termwatch_confirms_required_total",
			Help: "Total number of confirm_required events emitted.",
		}),
		ConfirmsAnswered: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "termwatch_confirms_answered_total",
			Help: "Total confirmations answered, labeled by action and origin.",
		}, []string{"action", "origin"}),
		ExecTimeouts: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "termwatch_exec_timeouts_total",
			Help: "Total exec timeouts, labeled by phase (leave_idle, return_idle).",
		}, []string{"phase"}),

		Uptime: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "termwatch_uptime_seconds",
			Help: "Process uptime in seconds.",
		}),
	}

	go m.updateUptime()
	return m
}

func (m *Metrics) updateUptime() {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for range ticker.C {
		m.Uptime.Set(time.Since(m.startTime).Seconds())
	}
}

// RecordTick records one evaluation tick's duration, labeled by whether
// the screen had actually changed (an unchanged tick is near-instant
// and is tracked separately so it doesn't skew the changed-tick buckets).
func (m *Metrics) RecordTick(changed bool, d time.Duration) {
	label := "false"
	if changed {
		label = "true"
	}
	m.TickDuration.WithLabelValues(label).Observe(d.Seconds())
}

// RecordParserDispatch records one registry dispatch outcome.
func (m *Metrics) RecordParserDispatch(kind, outcome string) {
	m.ParserDispatches.WithLabelValues(kind, outcome).Inc()
}

// RecordConfirmRequired records one confirm_required event.
func (m *Metrics) RecordConfirmRequired() {
	m.ConfirmsRequired.Inc()
}

// RecordConfirmAnswered records one confirm response, tagging whether it
// was answered by a caller or auto-answered by a PermissionChecker.
func (m *Metrics) RecordConfirmAnswered(action, origin string) {
	m.ConfirmsAnswered.WithLabelValues(action, origin).Inc()
}

// RecordExecTimeout records one exec timeout at the given phase.
func (m *Metrics) RecordExecTimeout(phase string) {
	m.ExecTimeouts.WithLabelValues(phase).Inc()
}

// SetSessionsActive sets the live session-count gauge.
func (m *Metrics) SetSessionsActive(n int) {
	m.SessionsActive.Set(float64(n))
}

// IncSessionsCreated increments the sessions-created counter.
func (m *Metrics) IncSessionsCreated() {
	m.SessionsCreated.Inc()
}

// IncSessionsDestroyed increments the sessions-destroyed counter for
// the given reason ("graceful" or "force"). Idle-sweep evictions are
// force destroys, so they count as "force" here and also in
// SessionsEvicted.
func (m *Metrics) IncSessionsDestroyed(reason string) {
	m.SessionsDestroyed.WithLabelValues(reason).Inc()
}

// IncSessionsEvicted increments the idle-eviction counter.
func (m *Metrics) IncSessionsEvicted() {
	m.SessionsEvicted.Inc()
}

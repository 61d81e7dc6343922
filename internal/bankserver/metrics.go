package bankserver

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics tracks command-processing counters exposed on the health/metrics
// endpoint.
type Metrics struct {
	registry *prometheus.Registry

	commandsTotal     *prometheus.CounterVec
	errorsTotal       *prometheus.CounterVec
	deposits          prometheus.Counter
	withdrawals       prometheus.Counter
	transfers         prometheus.Counter
	approvals         prometheus.Counter
	rejections        prometheus.Counter
	approvalTimeouts  prometheus.Counter
	activeSessions    prometheus.Gauge
	pendingOperations prometheus.Gauge
	pendingVerifies   prometheus.Gauge
	commandLatency    prometheus.Histogram

	mu              sync.RWMutex
	activeCount     int
	pendingOpCount  int
	pendingVerCount int
}

// NewMetrics builds and registers a fresh metric set on a dedicated
// registry, so it never collides with global prometheus state.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		commandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bankserver_commands_total",
			Help: "Total number of commands processed, by command name.",
		}, []string{"command"}),
		errorsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bankserver_errors_total",
			Help: "Total number of command errors, by taxonomy kind.",
		}, []string{"kind"}),
		deposits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bankserver_deposits_total",
			Help: "Total number of successful deposits.",
		}),
		withdrawals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bankserver_withdrawals_total",
			Help: "Total number of successful withdrawals.",
		}),
		transfers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bankserver_transfers_total",
			Help: "Total number of successful transfers.",
		}),
		approvals: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bankserver_approvals_total",
			Help: "Total number of operator approvals.",
		}),
		rejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bankserver_rejections_total",
			Help: "Total number of operator rejections.",
		}),
		approvalTimeouts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bankserver_approval_timeouts_total",
			Help: "Total number of approval waits that timed out.",
		}),
		activeSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bankserver_active_sessions",
			Help: "Number of currently connected sessions.",
		}),
		pendingOperations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bankserver_pending_operations",
			Help: "Number of operation requests awaiting operator decision.",
		}),
		pendingVerifies: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "bankserver_pending_verifications",
			Help: "Number of clients awaiting verification.",
		}),
		commandLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bankserver_command_duration_seconds",
			Help:    "Time spent handling a single command.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 12),
		}),
	}

	registry.MustRegister(
		m.commandsTotal,
		m.errorsTotal,
		m.deposits,
		m.withdrawals,
		m.transfers,
		m.approvals,
		m.rejections,
		m.approvalTimeouts,
		m.activeSessions,
		m.pendingOperations,
		m.pendingVerifies,
		m.commandLatency,
		prometheus.NewGoCollector(),
	)

	return m
}

func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) RecordCommand(name string) {
	m.commandsTotal.WithLabelValues(name).Inc()
}

func (m *Metrics) RecordError(kind Kind) {
	m.errorsTotal.WithLabelValues(string(kind)).Inc()
}

func (m *Metrics) RecordDeposit()  { m.deposits.Inc() }
func (m *Metrics) RecordWithdraw() { m.withdrawals.Inc() }
func (m *Metrics) RecordTransfer() { m.transfers.Inc() }
func (m *Metrics) RecordApproval() { m.approvals.Inc() }
func (m *Metrics) RecordRejection() {
	m.rejections.Inc()
}
func (m *Metrics) RecordApprovalTimeout() { m.approvalTimeouts.Inc() }

func (m *Metrics) SessionOpened() {
	m.mu.Lock()
	m.activeCount++
	m.activeSessions.Set(float64(m.activeCount))
	m.mu.Unlock()
}

func (m *Metrics) SessionClosed() {
	m.mu.Lock()
	if m.activeCount > 0 {
		m.activeCount--
	}
	m.activeSessions.Set(float64(m.activeCount))
	m.mu.Unlock()
}

func (m *Metrics) SetPendingOperations(n int) {
	m.mu.Lock()
	m.pendingOpCount = n
	m.pendingOperations.Set(float64(n))
	m.mu.Unlock()
}

func (m *Metrics) SetPendingVerifications(n int) {
	m.mu.Lock()
	m.pendingVerCount = n
	m.pendingVerifies.Set(float64(n))
	m.mu.Unlock()
}

// Snapshot returns a plain struct suitable for JSON encoding on the health
// endpoint.
func (m *Metrics) Snapshot() map[string]int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return map[string]int{
		"active_sessions":        m.activeCount,
		"pending_operations":     m.pendingOpCount,
		"pending_verifications":  m.pendingVerCount,
	}
}

func (m *Metrics) ObserveLatency(seconds float64) {
	m.commandLatency.Observe(seconds)
}

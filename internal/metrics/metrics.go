package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks workbook contention and the reconciliation outcomes.
// All methods are safe on a nil receiver so tests can run without a registry.
type Metrics struct {
	Writes           *prometheus.CounterVec
	LockTimeouts     *prometheus.CounterVec
	LockWaitDuration prometheus.Histogram
	WriteDuration    *prometheus.HistogramVec
	AllocationDebits *prometheus.CounterVec
}

// New creates the metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Writes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sitetrack_workbook_writes_total",
			Help: "Workbook sheet writes by table and result",
		}, []string{"table", "result"}),
		LockTimeouts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sitetrack_workbook_lock_timeouts_total",
			Help: "Writes abandoned because the workbook lock was not acquired in time",
		}, []string{"table"}),
		LockWaitDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "sitetrack_workbook_lock_wait_seconds",
			Help:    "Time spent waiting for the workbook lock",
			Buckets: []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5, 10},
		}),
		WriteDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "sitetrack_workbook_write_duration_seconds",
			Help:    "Duration of a locked read-modify-write of one sheet",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"table"}),
		AllocationDebits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "sitetrack_allocation_debits_total",
			Help: "Expense reconciliations by outcome (debited or unmatched)",
		}, []string{"outcome"}),
	}
}

// ObserveLockWait records how long a writer waited for the lock.
// Call with time.Now() taken before the lock attempt.
func (m *Metrics) ObserveLockWait(start time.Time) {
	if m == nil {
		return
	}
	m.LockWaitDuration.Observe(time.Since(start).Seconds())
}

// IncrementLockTimeout records a write that gave up on the lock
func (m *Metrics) IncrementLockTimeout(table string) {
	if m == nil {
		return
	}
	m.LockTimeouts.WithLabelValues(table).Inc()
}

// ObserveWrite records the outcome and duration of a sheet write
func (m *Metrics) ObserveWrite(table string, start time.Time, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.Writes.WithLabelValues(table, result).Inc()
	m.WriteDuration.WithLabelValues(table).Observe(time.Since(start).Seconds())
}

// IncrementAllocationDebit records a reconciliation outcome
func (m *Metrics) IncrementAllocationDebit(outcome string) {
	if m == nil {
		return
	}
	m.AllocationDebits.WithLabelValues(outcome).Inc()
}

// Package metrics exposes Prometheus collectors for the repository layer,
// the scheduler, and the session guard.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "botkit"

// Result label values.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultPanic   = "panic"
)

var (
	// RepositoryOperations counts repository calls by table, operation and result.
	RepositoryOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "operations_total",
		Help:      "Repository operations by table, operation and result.",
	}, []string{"table", "operation", "result"})

	// RepositoryRowsChanged counts rows inserted or deleted by committed operations.
	RepositoryRowsChanged = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "repository",
		Name:      "rows_changed_total",
		Help:      "Rows inserted or deleted by committed repository operations.",
	}, []string{"table", "operation"})

	// SchedulerTicks counts periodic task runs by task and result.
	SchedulerTicks = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "ticks_total",
		Help:      "Periodic task runs by task and result.",
	}, []string{"task", "result"})

	// SchedulerTickDuration observes how long each periodic task run took.
	SchedulerTickDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "scheduler",
		Name:      "tick_duration_seconds",
		Help:      "Duration of periodic task runs.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"task"})
)

// RegisterPendingSessions exposes the number of channels with a pending
// prompt as a gauge backed by fn.
func RegisterPendingSessions(reg prometheus.Registerer, fn func() int) error {
	return reg.Register(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "session",
		Name:      "pending_channels",
		Help:      "Channels with at least one pending interactive prompt.",
	}, func() float64 { return float64(fn()) }))
}

// Handler returns the HTTP handler serving the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

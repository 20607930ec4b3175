package registry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ltask/internal/filter"
	"ltask/internal/service"
)

const (
	resultOK             = "ok"
	resultInvalidInput   = "invalid_input"
	resultNotFound       = "not_found"
	resultStorageFailure = "storage_failure"
)

var (
	// opsTotal counts registry operations by operation and result.
	opsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "ltask_registry_operations_total",
		Help: "Registry operations by operation and result",
	}, []string{"op", "result"})

	// storeWriteDuration tracks store write latency.
	storeWriteDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "ltask_store_write_duration_seconds",
		Help:    "Store write duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10), // 10µs to ~2.6s
	})

	// tasksGauge is the number of tasks by status after the last change.
	tasksGauge = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "ltask_tasks",
		Help: "Number of tasks by status",
	}, []string{"status"})
)

func recordOp(op, result string) {
	opsTotal.WithLabelValues(op, result).Inc()
}

func updateGauges(tasks []service.Task) {
	c := filter.Count(tasks)
	tasksGauge.WithLabelValues(service.StatusNeedsAction).Set(float64(c.Active))
	tasksGauge.WithLabelValues(service.StatusCompleted).Set(float64(c.Completed))
}

package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Private registry so counters can be reset between runs and tests.
var (
	mu         sync.RWMutex
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
)

func init() {
	Reset()
}

// Reset drops every counter.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	registry = prometheus.NewRegistry()
	operations = promauto.With(registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "txkv_operations_total",
			Help: "Total number of store operations by outcome",
		},
		[]string{"op", "status"},
	)
}

// Inc increments the counter for op with the given status by 1.
func Inc(op, status string) {
	Add(op, status, 1)
}

// Add adds delta to the counter for op and status. Counters only grow, so
// delta is unsigned.
func Add(op, status string, delta uint64) {
	mu.RLock()
	defer mu.RUnlock()
	operations.WithLabelValues(op, status).Add(float64(delta))
}

// Observe counts one op, classifying it by err.
func Observe(op string, err error) {
	if err != nil {
		Inc(op, StatusError)
		return
	}
	Inc(op, StatusOK)
}

// Get returns the current value of a counter, 0 if it was never incremented.
// It does not create the series.
func Get(op, status string) float64 {
	mu.RLock()
	defer mu.RUnlock()

	counters, err := collectLocked()
	if err != nil {
		return 0
	}
	return counters[op+"/"+status]
}

// Snapshot returns every counter that has been incremented, keyed "op/status".
func Snapshot() (map[string]float64, error) {
	mu.RLock()
	defer mu.RUnlock()
	return collectLocked()
}

// collectLocked (assumes mu held)
func collectLocked() (map[string]float64, error) {
	families, err := registry.Gather()
	if err != nil {
		return nil, err
	}

	snapshot := make(map[string]float64)
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			var op, status string
			for _, lp := range m.GetLabel() {
				switch lp.GetName() {
				case "op":
					op = lp.GetValue()
				case "status":
					status = lp.GetValue()
				}
			}
			snapshot[op+"/"+status] = m.GetCounter().GetValue()
		}
	}
	return snapshot, nil
}

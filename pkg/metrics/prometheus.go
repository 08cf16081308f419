package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
//
// Series are created and registered on first use so an unused collector leaves the
// registry untouched.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	allocations       *prometheus.CounterVec
	membersPlaced     prometheus.Counter
	membersUnplaced   prometheus.Counter
	nameCollisions    prometheus.Counter
	allocationLatency prometheus.Histogram
	sheetOperations   *prometheus.CounterVec
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a new Prometheus-backed metrics collector.
//
// Parameters:
//   - reg: Prometheus registerer interface (uses prometheus.DefaultRegisterer if nil)
//   - namespace: Prometheus metrics namespace (series are unprefixed if empty; the config supplies the default)
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.allocations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "allocations_total",
			Help:      "Total allocation runs by result (success, partial, failure).",
		}, []string{"result"})

		p.membersPlaced = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "members_placed_total",
			Help:      "Total members placed into a working group.",
		})

		p.membersUnplaced = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "members_unplaced_total",
			Help:      "Total members no working group could admit.",
		})

		p.nameCollisions = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "name_collisions_total",
			Help:      "Total group names accepted as duplicates after exhausting attempts.",
		})

		p.allocationLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Name:      "allocation_duration_seconds",
			Help:      "Duration of the allocation step in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100µs .. ~1.6s
		})

		p.sheetOperations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Name:      "sheet_operations_total",
			Help:      "Total spreadsheet operations by op and result.",
		}, []string{"op", "result"})

		p.reg.MustRegister(
			p.allocations,
			p.membersPlaced,
			p.membersUnplaced,
			p.nameCollisions,
			p.allocationLatency,
			p.sheetOperations,
		)
	})
}

// ObserveAllocation records the outcome of one allocation run.
func (p *PrometheusCollector) ObserveAllocation(result string, placed, unplaced, duplicates int, duration time.Duration) {
	p.ensureRegistered()
	p.allocations.WithLabelValues(result).Inc()
	p.membersPlaced.Add(float64(placed))
	p.membersUnplaced.Add(float64(unplaced))
	p.nameCollisions.Add(float64(duplicates))
	p.allocationLatency.Observe(duration.Seconds())
}

// ObserveSheetOperation counts a spreadsheet call.
func (p *PrometheusCollector) ObserveSheetOperation(op, result string) {
	p.ensureRegistered()
	p.sheetOperations.WithLabelValues(op, result).Inc()
}

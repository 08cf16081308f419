// Package metrics records allocation and spreadsheet activity.
package metrics

import "time"

// Allocation results
const (
	ResultSuccess = "success"
	ResultPartial = "partial"
	ResultFailure = "failure"
)

// Collector receives allocation metrics
type Collector interface {
	// ObserveAllocation records one allocation run
	ObserveAllocation(result string, placed, unplaced, duplicates int, duration time.Duration)
	// ObserveSheetOperation records a spreadsheet call such as "list_members" or "write_groups"
	ObserveSheetOperation(op, result string)
}

// NopMetrics discards all metrics
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ObserveAllocation discards the allocation metric.
func (n *NopMetrics) ObserveAllocation(_ string, _, _, _ int, _ time.Duration) {}

// ObserveSheetOperation discards the sheet operation metric.
func (n *NopMetrics) ObserveSheetOperation(_, _ string) {}

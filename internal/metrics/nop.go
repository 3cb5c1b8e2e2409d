package metrics

// NopMetrics discards every measurement
type NopMetrics struct{}

var _ Collector = (*NopMetrics)(nil)

// NewNop creates a no-op collector
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordRoundCommitted discards the metric
func (n *NopMetrics) RecordRoundCommitted(_ string, _ int, _ float64) {}

// RecordRoundRejected discards the metric
func (n *NopMetrics) RecordRoundRejected(_, _ string) {}

// SetPoolAvailable discards the metric
func (n *NopMetrics) SetPoolAvailable(_ int) {}

// RecordScheduleDrift discards the metric
func (n *NopMetrics) RecordScheduleDrift(_ string) {}

// RecordRandomFallback discards the metric
func (n *NopMetrics) RecordRandomFallback() {}

// RecordArchiveFailure discards the metric
func (n *NopMetrics) RecordArchiveFailure() {}

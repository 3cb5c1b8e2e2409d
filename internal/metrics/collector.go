// Package metrics records draw engine activity
package metrics

// Collector receives draw engine measurements
type Collector interface {
	// RecordRoundCommitted records a committed round and the time spent selecting its winners
	RecordRoundCommitted(awardID string, winners int, seconds float64)
	// RecordRoundRejected records a round refused for reason (completed, insufficient_pool, ...)
	RecordRoundRejected(awardID, reason string)
	// SetPoolAvailable sets the number of undrawn identifiers
	SetPoolAvailable(n int)
	// RecordScheduleDrift records a round size resolved through the drift fallback
	RecordScheduleDrift(awardID string)
	// RecordRandomFallback records a random value produced without the strong source
	RecordRandomFallback()
	// RecordArchiveFailure records a winner batch that could not be archived
	RecordArchiveFailure()
}

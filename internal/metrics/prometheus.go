package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// PrometheusCollector implements Collector backed by Prometheus
type PrometheusCollector struct {
	reg       *prometheus.Registry
	namespace string
	once      sync.Once

	roundsCommitted *prometheus.CounterVec
	winnersDrawn    *prometheus.CounterVec
	roundsRejected  *prometheus.CounterVec
	commitLatency   prometheus.Histogram
	poolAvailable   prometheus.Gauge
	scheduleDrift   *prometheus.CounterVec
	randomFallback  prometheus.Counter
	archiveFailures prometheus.Counter
}

var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a collector registering into reg, or into a fresh registry when
// reg is nil. The namespace defaults to "luckydraw"
func NewPrometheus(reg *prometheus.Registry, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	if namespace == "" {
		namespace = "luckydraw"
	}
	p := &PrometheusCollector{reg: reg, namespace: namespace}
	p.ensureRegistered()
	return p
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.roundsCommitted = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "rounds_committed_total",
			Help:      "Total committed rounds by award.",
		}, []string{"award"})
		p.winnersDrawn = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "winners_total",
			Help:      "Total winners drawn by award.",
		}, []string{"award"})
		p.roundsRejected = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "rounds_rejected_total",
			Help:      "Total rounds refused by award and reason.",
		}, []string{"award", "reason"})
		p.commitLatency = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "commit_seconds",
			Help:      "Time spent selecting and recording the winners of a round.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8), // 100us .. ~1.6s
		})
		p.poolAvailable = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "pool",
			Name:      "available",
			Help:      "Identifiers not yet drawn.",
		})
		p.scheduleDrift = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "draw",
			Name:      "schedule_drift_total",
			Help:      "Round sizes resolved through the first-round fallback.",
		}, []string{"award"})
		p.randomFallback = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "rng",
			Name:      "fallback_total",
			Help:      "Random values produced by the fallback generator.",
		})
		p.archiveFailures = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "archive",
			Name:      "failures_total",
			Help:      "Winner batches that could not be archived.",
		})

		p.reg.MustRegister(p.roundsCommitted)
		p.reg.MustRegister(p.winnersDrawn)
		p.reg.MustRegister(p.roundsRejected)
		p.reg.MustRegister(p.commitLatency)
		p.reg.MustRegister(p.poolAvailable)
		p.reg.MustRegister(p.scheduleDrift)
		p.reg.MustRegister(p.randomFallback)
		p.reg.MustRegister(p.archiveFailures)
	})
}

// Handler serves the collector's registry
func (p *PrometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(p.reg, promhttp.HandlerOpts{Registry: p.reg})
}

// RecordRoundCommitted records a committed round
func (p *PrometheusCollector) RecordRoundCommitted(awardID string, winners int, seconds float64) {
	p.roundsCommitted.WithLabelValues(awardID).Inc()
	p.winnersDrawn.WithLabelValues(awardID).Add(float64(winners))
	p.commitLatency.Observe(seconds)
}

// RecordRoundRejected records a refused round
func (p *PrometheusCollector) RecordRoundRejected(awardID, reason string) {
	p.roundsRejected.WithLabelValues(awardID, reason).Inc()
}

// SetPoolAvailable sets the undrawn identifier gauge
func (p *PrometheusCollector) SetPoolAvailable(n int) {
	p.poolAvailable.Set(float64(n))
}

// RecordScheduleDrift records a drift fallback
func (p *PrometheusCollector) RecordScheduleDrift(awardID string) {
	p.scheduleDrift.WithLabelValues(awardID).Inc()
}

// RecordRandomFallback records a fallback random value
func (p *PrometheusCollector) RecordRandomFallback() {
	p.randomFallback.Inc()
}

// RecordArchiveFailure records a failed archive write
func (p *PrometheusCollector) RecordArchiveFailure() {
	p.archiveFailures.Inc()
}

package telemetry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// ScansTotal counts simulated scans by outcome (completed, empty)
	ScansTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vulnmap",
			Name:      "scans_total",
			Help:      "Total number of simulated scans executed",
		},
		[]string{"outcome"},
	)

	// LinksCreated counts asset-vulnerability links created, by origin
	LinksCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vulnmap",
			Name:      "links_created_total",
			Help:      "Total number of asset-vulnerability links created",
		},
		[]string{"origin"}, // "api" or "scan"
	)

	// LinksUpdated counts link refreshes performed by the scan merger
	LinksUpdated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "vulnmap",
			Name:      "links_updated_total",
			Help:      "Total number of existing links refreshed",
		},
		[]string{"origin"},
	)

	// ScanCandidateFailures counts candidates skipped due to store errors
	ScanCandidateFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "vulnmap",
			Name:      "scan_candidate_failures_total",
			Help:      "Total number of scan candidates skipped due to storage errors",
		},
	)

	// Ensure metrics are only registered once
	once sync.Once
)

// InitMetrics registers all metrics with the global Prometheus registry.
// This function is idempotent and can be called multiple times safely.
func InitMetrics() {
	once.Do(func() {
		prometheus.DefaultRegisterer.Register(ScansTotal)
		prometheus.DefaultRegisterer.Register(LinksCreated)
		prometheus.DefaultRegisterer.Register(LinksUpdated)
		prometheus.DefaultRegisterer.Register(ScanCandidateFailures)
	})
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

const (
	// Namespace for all metrics
	namespace = "acquisition"
	// Subsystem for pricing engine metrics
	subsystem = "pricing"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalValuationCollector is the singleton valuation metrics collector
	// Set by SetGlobalValuationCollector() when metrics are enabled
	globalValuationCollector ValuationMetricsRecorder
)

// ValuationMetricsRecorder defines the interface for recording pricing engine events
// This interface is used by application code to record metrics
type ValuationMetricsRecorder interface {
	RecordComparableSearch(strategy valuation.MatchStrategy, comparables int)
	RecordClassification(groups valuation.OpportunityGroups)
	RecordRecalculation(durationSeconds float64, updated int, failed int)
	RecordImport(imported int, skipped int)
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalValuationCollector sets the global valuation metrics collector
func SetGlobalValuationCollector(collector ValuationMetricsRecorder) {
	globalValuationCollector = collector
}

// RecordComparableSearch records the outcome of one comparable search globally
func RecordComparableSearch(strategy valuation.MatchStrategy, comparables int) {
	if globalValuationCollector != nil {
		globalValuationCollector.RecordComparableSearch(strategy, comparables)
	}
}

// RecordClassification records the result of an opportunity classification globally
func RecordClassification(groups valuation.OpportunityGroups) {
	if globalValuationCollector != nil {
		globalValuationCollector.RecordClassification(groups)
	}
}

// RecordRecalculation records a completed market price recalculation globally
func RecordRecalculation(durationSeconds float64, updated int, failed int) {
	if globalValuationCollector != nil {
		globalValuationCollector.RecordRecalculation(durationSeconds, updated, failed)
	}
}

// RecordImport records an auction workbook import globally
func RecordImport(imported int, skipped int) {
	if globalValuationCollector != nil {
		globalValuationCollector.RecordImport(imported, skipped)
	}
}

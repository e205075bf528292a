package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

const (
	bucketNotInStock = "not_in_stock"
	bucketInStock    = "in_stock"
)

// ValuationMetricsCollector handles pricing engine metrics (matching, classification, recalculation)
type ValuationMetricsCollector struct {
	// Matching metrics
	comparableSearches *prometheus.CounterVec
	comparablesFound   prometheus.Histogram

	// Classification metrics
	opportunities *prometheus.GaugeVec
	excluded      *prometheus.GaugeVec
	marginPercent *prometheus.HistogramVec

	// Recalculation metrics
	recalculationDuration prometheus.Histogram
	vehiclesUpdated       *prometheus.CounterVec

	// Import metrics
	importedVehicles *prometheus.CounterVec
}

// NewValuationMetricsCollector creates a new valuation metrics collector
func NewValuationMetricsCollector() *ValuationMetricsCollector {
	return &ValuationMetricsCollector{
		// Comparable searches by winning matcher tier
		comparableSearches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "comparable_searches_total",
				Help:      "Total comparable searches by matching strategy",
			},
			[]string{"strategy"},
		),

		// Comparables retained per search
		comparablesFound: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "comparables_per_search",
				Help:      "Number of comparable listings retained per search",
				Buckets:   []float64{0, 1, 3, 5, 10, 20, 50},
			},
		),

		// Opportunities in the latest classification
		opportunities: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "opportunities",
				Help:      "Vehicles per opportunity bucket in the latest classification",
			},
			[]string{"bucket"},
		),

		// Exclusions in the latest classification
		excluded: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "excluded_vehicles",
				Help:      "Vehicles left out of the latest classification by reason",
			},
			[]string{"reason"},
		),

		// Margin percent distribution of opportunities
		marginPercent: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "opportunity_margin_percent",
				Help:      "Margin percent distribution of classified opportunities",
				Buckets:   []float64{1, 2.5, 5, 7.5, 10, 15, 20, 30, 50},
			},
			[]string{"bucket"},
		),

		// Recalculation run duration
		recalculationDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "recalculation_duration_seconds",
				Help:      "Market price recalculation run duration",
				Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
			},
		),

		// Vehicle market estimate writes
		vehiclesUpdated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "market_estimate_writes_total",
				Help:      "Market estimate writes by outcome",
			},
			[]string{"status"},
		),

		// Imported workbook rows
		importedVehicles: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "imported_rows_total",
				Help:      "Auction workbook rows by import outcome",
			},
			[]string{"status"},
		),
	}
}

// Register registers all valuation metrics with the Prometheus registry
func (c *ValuationMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.comparableSearches,
		c.comparablesFound,
		c.opportunities,
		c.excluded,
		c.marginPercent,
		c.recalculationDuration,
		c.vehiclesUpdated,
		c.importedVehicles,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordComparableSearch records which tier matched and how many comparables survived
func (c *ValuationMetricsCollector) RecordComparableSearch(strategy valuation.MatchStrategy, comparables int) {
	c.comparableSearches.WithLabelValues(string(strategy)).Inc()
	c.comparablesFound.Observe(float64(comparables))
}

// RecordClassification replaces the bucket gauges with the latest classification
func (c *ValuationMetricsCollector) RecordClassification(groups valuation.OpportunityGroups) {
	c.recordBucket(bucketNotInStock, groups.NotInStock)
	c.recordBucket(bucketInStock, groups.InStock)

	c.excluded.Reset()
	for reason, count := range groups.Exclusions {
		c.excluded.WithLabelValues(string(reason)).Set(float64(count))
	}
}

func (c *ValuationMetricsCollector) recordBucket(bucket string, groups map[string][]*valuation.PricedVehicle) {
	total := 0
	for _, vehicles := range groups {
		total += len(vehicles)
		for _, v := range vehicles {
			c.marginPercent.WithLabelValues(bucket).Observe(v.MarginPercent())
		}
	}
	c.opportunities.WithLabelValues(bucket).Set(float64(total))
}

// RecordRecalculation records a recalculation run
func (c *ValuationMetricsCollector) RecordRecalculation(durationSeconds float64, updated int, failed int) {
	c.recalculationDuration.Observe(durationSeconds)
	c.vehiclesUpdated.WithLabelValues("success").Add(float64(updated))
	c.vehiclesUpdated.WithLabelValues("error").Add(float64(failed))
}

// RecordImport records imported and skipped workbook rows
func (c *ValuationMetricsCollector) RecordImport(imported int, skipped int) {
	c.importedVehicles.WithLabelValues("imported").Add(float64(imported))
	c.importedVehicles.WithLabelValues("skipped").Add(float64(skipped))
}

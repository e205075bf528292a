package metrics

import (
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// Request outcomes
const (
	OutcomeSuccess  = "success"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// RequestMetricsCollector times every query and command sent through the mediator
type RequestMetricsCollector struct {
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
}

// NewRequestMetricsCollector creates a new request metrics collector
func NewRequestMetricsCollector() *RequestMetricsCollector {
	return &RequestMetricsCollector{
		// Recalculation over a large lot list can take minutes
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Query and command duration distribution",
				Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
			},
			[]string{"request", "kind"},
		),

		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of queries and commands by outcome",
			},
			[]string{"request", "kind", "outcome"},
		),
	}
}

// Register registers the request metrics with the Prometheus registry
func (c *RequestMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	for _, metric := range []prometheus.Collector{c.requestDuration, c.requestsTotal} {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}
	return nil
}

// RecordRequest records one mediator round trip
func (c *RequestMetricsCollector) RecordRequest(requestName string, seconds float64, err error) {
	kind := RequestKind(requestName)
	c.requestDuration.WithLabelValues(requestName, kind).Observe(seconds)
	c.requestsTotal.WithLabelValues(requestName, kind, Outcome(err)).Inc()
}

// RequestKind is "query" or "command", read from the request type name suffix
func RequestKind(requestName string) string {
	if strings.HasSuffix(requestName, "Query") {
		return "query"
	}
	return "command"
}

// Outcome maps a handler error onto a bounded label value
func Outcome(err error) string {
	var validationErr *shared.ValidationError
	switch {
	case err == nil:
		return OutcomeSuccess
	case errors.Is(err, valuation.ErrVehicleNotFound):
		return OutcomeNotFound
	case errors.As(err, &validationErr),
		errors.Is(err, valuation.ErrInvalidPricingConfig),
		errors.Is(err, valuation.ErrInvalidVehicle),
		errors.Is(err, valuation.ErrEmptyWorkbook):
		return OutcomeInvalid
	default:
		return OutcomeError
	}
}

package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

func pricedVehicle(t *testing.T, id string, target, competitive float64) *valuation.PricedVehicle {
	v, err := valuation.NewCandidateVehicle(valuation.CandidateVehicleData{ID: id, Model: "320d"})
	require.NoError(t, err)
	return valuation.NewPricedVehicle(v, target, competitive, nil, valuation.WarrantyQuote{})
}

func metricValue(t *testing.T, metric prometheus.Metric) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, metric.Write(&m))
	switch {
	case m.Counter != nil:
		return m.Counter.GetValue()
	case m.Gauge != nil:
		return m.Gauge.GetValue()
	default:
		t.Fatalf("unsupported metric type")
		return 0
	}
}

func TestValuationMetricsCollector_RecordsClassification(t *testing.T) {
	// Arrange
	InitRegistry()
	defer func() { Registry = nil }()
	collector := NewValuationMetricsCollector()
	require.NoError(t, collector.Register())

	groups := valuation.OpportunityGroups{
		NotInStock: map[string][]*valuation.PricedVehicle{
			"320d": {pricedVehicle(t, "a", 20000, 22000), pricedVehicle(t, "b", 20000, 21000)},
		},
		InStock: map[string][]*valuation.PricedVehicle{
			"118d": {pricedVehicle(t, "c", 15000, 16500)},
		},
		Exclusions: map[valuation.ExclusionReason]int{valuation.ExcludedNoMargin: 3},
	}

	// Act
	collector.RecordClassification(groups)

	// Assert
	assert.Equal(t, 2.0, metricValue(t, collector.opportunities.WithLabelValues(bucketNotInStock)))
	assert.Equal(t, 1.0, metricValue(t, collector.opportunities.WithLabelValues(bucketInStock)))
	assert.Equal(t, 3.0, metricValue(t, collector.excluded.WithLabelValues(string(valuation.ExcludedNoMargin))))
}

func TestValuationMetricsCollector_RecordsSearchesAndRuns(t *testing.T) {
	collector := NewValuationMetricsCollector()

	collector.RecordComparableSearch(valuation.StrategyExact, 4)
	collector.RecordComparableSearch(valuation.StrategyExact, 2)
	collector.RecordComparableSearch(valuation.StrategyNone, 0)
	collector.RecordRecalculation(1.5, 10, 2)
	collector.RecordImport(7, 1)

	assert.Equal(t, 2.0, metricValue(t, collector.comparableSearches.WithLabelValues("exact")))
	assert.Equal(t, 1.0, metricValue(t, collector.comparableSearches.WithLabelValues("none")))
	assert.Equal(t, 10.0, metricValue(t, collector.vehiclesUpdated.WithLabelValues("success")))
	assert.Equal(t, 2.0, metricValue(t, collector.vehiclesUpdated.WithLabelValues("error")))
	assert.Equal(t, 7.0, metricValue(t, collector.importedVehicles.WithLabelValues("imported")))
}

func TestGlobalRecorders_NoopWithoutCollector(t *testing.T) {
	SetGlobalValuationCollector(nil)

	assert.NotPanics(t, func() {
		RecordComparableSearch(valuation.StrategyPartial, 1)
		RecordClassification(valuation.OpportunityGroups{})
		RecordRecalculation(1, 1, 0)
		RecordImport(1, 0)
	})
}

func TestPrometheusMiddleware_RecordsOutcome(t *testing.T) {
	// Arrange
	collector := NewRequestMetricsCollector()
	middleware := PrometheusMiddleware(collector)
	failure := errors.New("boom")

	type sampleQuery struct{}

	// Act
	_, _ = middleware(context.Background(), &sampleQuery{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return "ok", nil
	})
	_, err := middleware(context.Background(), &sampleQuery{}, func(ctx context.Context, request mediator.Request) (mediator.Response, error) {
		return nil, failure
	})

	// Assert
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1.0, metricValue(t, collector.requestsTotal.WithLabelValues("sampleQuery", "query", OutcomeSuccess)))
	assert.Equal(t, 1.0, metricValue(t, collector.requestsTotal.WithLabelValues("sampleQuery", "query", OutcomeError)))
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"no error", nil, OutcomeSuccess},
		{"missing vehicle", fmt.Errorf("%w: v9", valuation.ErrVehicleNotFound), OutcomeNotFound},
		{"bad config", fmt.Errorf("transport: %w", valuation.ErrInvalidPricingConfig), OutcomeInvalid},
		{"validation", shared.NewValidationError("margin", "cannot be negative"), OutcomeInvalid},
		{"store failure", errors.New("connection refused"), OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Outcome(tt.err))
		})
	}
}

func TestRequestKind(t *testing.T) {
	assert.Equal(t, "query", RequestKind("ClassifyOpportunitiesQuery"))
	assert.Equal(t, "command", RequestKind("ImportLotWorkbookCommand"))
}

func TestServer_ServesRegistry(t *testing.T) {
	InitRegistry()
	defer func() { Registry = nil }()
	collector := NewValuationMetricsCollector()
	require.NoError(t, collector.Register())
	collector.RecordComparableSearch(valuation.StrategyPartial, 3)

	server, err := NewServer("127.0.0.1", 0, "/metrics", nil)
	require.NoError(t, err)

	recorder := httptest.NewRecorder()
	server.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `acquisition_pricing_comparable_searches_total{strategy="partial"} 1`)
}

func TestNewServer_RequiresRegistry(t *testing.T) {
	Registry = nil

	_, err := NewServer("127.0.0.1", 9090, "/metrics", nil)

	assert.Error(t, err)
}

package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/acquisition-pricing/internal/application/logging"
	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
)

// PrometheusMiddleware times every request sent through the mediator and counts it by outcome.
// Request names drop the package prefix:
// "*commands.RecalculateMarketPricesCommand" becomes "RecalculateMarketPricesCommand"
func PrometheusMiddleware(collector *RequestMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)

		collector.RecordRequest(logging.RequestName(request), time.Since(start).Seconds(), err)

		return response, err
	}
}

package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/metrics"
	"github.com/andrescamacho/acquisition-pricing/internal/application/logging"
	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/dtos"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// RecalculateMarketPricesCommand refreshes the competitive price of every stored vehicle
// from the current competitor listings.
type RecalculateMarketPricesCommand struct{}

// RecalculateMarketPricesResponse summarizes a recalculation run
type RecalculateMarketPricesResponse struct {
	RunID     string
	Processed int
	Stats     dtos.RecalculationStats
	Duration  time.Duration
}

// RecalculateMarketPricesHandler matches every vehicle against the listing pool and stores
// the resulting market estimate. Store writes are throttled by the limiter.
type RecalculateMarketPricesHandler struct {
	vehicleRepo valuation.CandidateVehicleRepository
	listingRepo valuation.CompetitorListingRepository
	matcher     *valuation.CompetitorMatcher
	limiter     *rate.Limiter
	clock       shared.Clock
}

// NewRecalculateMarketPricesHandler creates a new handler
// A nil limiter leaves writes unthrottled; a nil clock uses RealClock.
func NewRecalculateMarketPricesHandler(
	vehicleRepo valuation.CandidateVehicleRepository,
	listingRepo valuation.CompetitorListingRepository,
	limiter *rate.Limiter,
	clock shared.Clock,
) *RecalculateMarketPricesHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if limiter == nil {
		limiter = rate.NewLimiter(rate.Inf, 1)
	}
	return &RecalculateMarketPricesHandler{
		vehicleRepo: vehicleRepo,
		listingRepo: listingRepo,
		matcher:     valuation.NewCompetitorMatcher(clock),
		limiter:     limiter,
		clock:       clock,
	}
}

// Handle executes the command
//
// A vehicle whose estimate cannot be stored is logged and counted as failed; the run goes on.
// Context cancellation stops the run and returns the error.
func (h *RecalculateMarketPricesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	if _, ok := request.(*RecalculateMarketPricesCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	runID := uuid.New().String()
	logger := logging.LoggerFromContext(ctx).With("run_id", runID)
	start := h.clock.Now()

	vehicles, err := h.vehicleRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}

	pool, err := h.listingRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load competitor listings: %w", err)
	}

	logger.Info("recalculating market prices", "vehicles", len(vehicles), "listings", len(pool))

	var stats dtos.RecalculationStats
	for _, vehicle := range vehicles {
		set := h.matcher.FindComparables(vehicle, pool)
		metrics.RecordComparableSearch(set.Strategy, len(set.Listings))

		estimate, found := valuation.EstimateMarketPrice(set)
		if !found {
			stats.NotFound++
			logger.Debug("no comparables", "vehicle_id", vehicle.ID(), "model", vehicle.Model(), "series", vehicle.Series())
			continue
		}

		switch set.Strategy {
		case valuation.StrategyExact:
			stats.Exact++
		case valuation.StrategyPartial:
			stats.Partial++
		}

		if err := h.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter error: %w", err)
		}

		if err := h.vehicleRepo.UpdateMarketEstimate(ctx, vehicle.ID(), estimate, h.clock.Now()); err != nil {
			stats.Failed++
			logger.Error("failed to store market estimate", "vehicle_id", vehicle.ID(), "error", err)
			continue
		}

		stats.Updated++
		logger.Debug("market estimate stored",
			"vehicle_id", vehicle.ID(),
			"model", vehicle.Model(),
			"comparables", estimate.Count(),
			"strategy", string(set.Strategy),
			"competitive_price", estimate.CompetitivePrice(),
		)
	}

	duration := h.clock.Now().Sub(start)
	metrics.RecordRecalculation(duration.Seconds(), stats.Updated, stats.Failed)
	logger.Info("market prices recalculated",
		"updated", stats.Updated,
		"exact", stats.Exact,
		"partial", stats.Partial,
		"not_found", stats.NotFound,
		"failed", stats.Failed,
	)

	return &RecalculateMarketPricesResponse{
		RunID:     runID,
		Processed: len(vehicles),
		Stats:     stats,
		Duration:  duration,
	}, nil
}

package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/metrics"
	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/dtos"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// GetVehicleValuationQuery requests the full valuation of one vehicle
type GetVehicleValuationQuery struct {
	VehicleID string
	Config    valuation.PricingConfig
}

// GetVehicleValuationHandler handles single vehicle valuation queries
type GetVehicleValuationHandler struct {
	vehicleRepo valuation.CandidateVehicleRepository
	listingRepo valuation.CompetitorListingRepository
	matcher     *valuation.CompetitorMatcher
	calculator  *valuation.PricingCalculator
	clock       shared.Clock
}

// NewGetVehicleValuationHandler creates a new handler
// If clock is nil, uses RealClock
func NewGetVehicleValuationHandler(
	vehicleRepo valuation.CandidateVehicleRepository,
	listingRepo valuation.CompetitorListingRepository,
	calculator *valuation.PricingCalculator,
	clock shared.Clock,
) *GetVehicleValuationHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if calculator == nil {
		calculator = valuation.NewPricingCalculator(nil)
	}
	return &GetVehicleValuationHandler{
		vehicleRepo: vehicleRepo,
		listingRepo: listingRepo,
		matcher:     valuation.NewCompetitorMatcher(clock),
		calculator:  calculator,
		clock:       clock,
	}
}

// Handle executes the query
//
// The stored competitive price drives the maximum bid. When none is stored yet, the
// estimate from the comparables found now is used instead.
func (h *GetVehicleValuationHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*GetVehicleValuationQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	vehicle, err := h.vehicleRepo.FindByID(ctx, query.VehicleID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicle %s: %w", query.VehicleID, err)
	}

	pool, err := h.listingRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load competitor listings: %w", err)
	}

	now := h.clock.Now()
	set := h.matcher.FindComparables(vehicle, pool)
	metrics.RecordComparableSearch(set.Strategy, len(set.Listings))

	result := &dtos.VehicleValuationDTO{
		VehicleID:        vehicle.ID(),
		LotID:            vehicle.LotID(),
		Brand:            vehicle.Brand(),
		Series:           vehicle.Series(),
		Model:            vehicle.Model(),
		RegistrationDate: vehicle.RegistrationDate(),
		DamageCost:       vehicle.DamageCost(),
		FiscalRegime:     vehicle.FiscalRegime().String(),
		AppliesVAT:       vehicle.FiscalRegime().AppliesVAT(),
		Strategy:         string(set.Strategy),
		Comparables:      dtos.ToComparableDTOs(set.Listings),
	}
	if km, ok := vehicle.MileageKm(); ok {
		result.MileageKm = &km
	}
	if net, ok := vehicle.NetExitPrice(); ok {
		result.NetExitPrice = &net
	}

	if estimate, ok := valuation.EstimateMarketPrice(set); ok {
		result.Market = dtos.ToMarketEstimateDTO(estimate)
		if _, stored := vehicle.CompetitivePrice(); !stored {
			vehicle = vehicle.WithMarketEstimate(estimate, now)
		}
	}

	result.Warranty = dtos.ToWarrantyDTO(h.calculator.Warranty(vehicle, now))
	if target, ok := h.calculator.TargetSalePrice(vehicle, query.Config, now); ok {
		result.TargetSalePrice = &target
	}
	if competitive, ok := vehicle.CompetitivePrice(); ok {
		result.CompetitivePrice = &competitive
	}
	if bid, ok := h.calculator.MaxBid(vehicle, query.Config, now); ok {
		result.MaxBid = &bid
	}

	return result, nil
}

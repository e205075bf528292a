package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/metrics"
	"github.com/andrescamacho/acquisition-pricing/internal/application/logging"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// Classification is the outcome of one opportunity run
type Classification struct {
	Groups    valuation.OpportunityGroups
	Evaluated int
}

// OpportunityService loads the vehicle population and stock, then runs the classifier.
// Shared by the opportunity query and the export command.
type OpportunityService struct {
	vehicleRepo valuation.CandidateVehicleRepository
	stockRepo   valuation.StockRepository
	classifier  *valuation.OpportunityClassifier
	clock       shared.Clock
}

// NewOpportunityService creates a new service
// If clock is nil, uses RealClock
func NewOpportunityService(
	vehicleRepo valuation.CandidateVehicleRepository,
	stockRepo valuation.StockRepository,
	classifier *valuation.OpportunityClassifier,
	clock shared.Clock,
) *OpportunityService {
	if classifier == nil {
		classifier = valuation.NewOpportunityClassifier(nil)
	}
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &OpportunityService{
		vehicleRepo: vehicleRepo,
		stockRepo:   stockRepo,
		classifier:  classifier,
		clock:       clock,
	}
}

// Classify classifies every stored vehicle whose model contains modelFilter (case-insensitive).
// An empty filter selects all vehicles.
func (s *OpportunityService) Classify(ctx context.Context, cfg valuation.PricingConfig, modelFilter string) (*Classification, error) {
	logger := logging.LoggerFromContext(ctx)

	vehicles, err := s.vehicleRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load vehicles: %w", err)
	}

	units, err := s.stockRepo.ListAvailable(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load stock: %w", err)
	}

	selected := filterByModel(vehicles, modelFilter)
	groups := s.classifier.Classify(selected, valuation.NewStockIndex(units), cfg, s.clock.Now())

	metrics.RecordClassification(groups)
	logger.Info("opportunities classified",
		"evaluated", len(selected),
		"not_in_stock", groups.NotInStockCount(),
		"in_stock", groups.InStockCount(),
		"excluded", groups.ExcludedCount(),
	)

	return &Classification{Groups: groups, Evaluated: len(selected)}, nil
}

func filterByModel(vehicles []*valuation.CandidateVehicle, filter string) []*valuation.CandidateVehicle {
	filter = strings.ToLower(strings.TrimSpace(filter))
	if filter == "" {
		return vehicles
	}

	var selected []*valuation.CandidateVehicle
	for _, v := range vehicles {
		if strings.Contains(strings.ToLower(v.Model()), filter) {
			selected = append(selected, v)
		}
	}
	return selected
}

package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/dtos"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/services"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// ClassifyOpportunitiesQuery requests the current acquisition opportunities
type ClassifyOpportunitiesQuery struct {
	Config      valuation.PricingConfig
	ModelFilter string // Case-insensitive substring of the model name; empty selects all
}

// ClassifyOpportunitiesResponse contains both opportunity buckets
type ClassifyOpportunitiesResponse struct {
	NotInStock []*dtos.ModelGroupDTO
	InStock    []*dtos.ModelGroupDTO
	Evaluated  int
	Excluded   int
	Exclusions map[string]int
}

// ClassifyOpportunitiesHandler handles opportunity classification queries
type ClassifyOpportunitiesHandler struct {
	service *services.OpportunityService
}

// NewClassifyOpportunitiesHandler creates a new handler
func NewClassifyOpportunitiesHandler(service *services.OpportunityService) *ClassifyOpportunitiesHandler {
	return &ClassifyOpportunitiesHandler{service: service}
}

// Handle executes the query
func (h *ClassifyOpportunitiesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	query, ok := request.(*ClassifyOpportunitiesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	result, err := h.service.Classify(ctx, query.Config, query.ModelFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to classify opportunities: %w", err)
	}

	exclusions := make(map[string]int, len(result.Groups.Exclusions))
	for reason, count := range result.Groups.Exclusions {
		exclusions[string(reason)] = count
	}

	return &ClassifyOpportunitiesResponse{
		NotInStock: dtos.ToModelGroups(result.Groups.NotInStock),
		InStock:    dtos.ToModelGroups(result.Groups.InStock),
		Evaluated:  result.Evaluated,
		Excluded:   result.Groups.ExcludedCount(),
		Exclusions: exclusions,
	}, nil
}

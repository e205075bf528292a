package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/acquisition-pricing/internal/application/logging"
	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/services"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// ExportOpportunitiesCommand classifies opportunities and writes them to a report file
type ExportOpportunitiesCommand struct {
	Path        string
	Config      valuation.PricingConfig
	ModelFilter string
}

// ExportOpportunitiesResponse reports what was written
type ExportOpportunitiesResponse struct {
	Path       string
	NotInStock int
	InStock    int
}

// ExportOpportunitiesHandler handles opportunity exports
type ExportOpportunitiesHandler struct {
	service *services.OpportunityService
	writer  valuation.OpportunityReportWriter
	clock   shared.Clock
}

// NewExportOpportunitiesHandler creates a new handler
// If clock is nil, uses RealClock
func NewExportOpportunitiesHandler(
	service *services.OpportunityService,
	writer valuation.OpportunityReportWriter,
	clock shared.Clock,
) *ExportOpportunitiesHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ExportOpportunitiesHandler{service: service, writer: writer, clock: clock}
}

// Handle executes the command
func (h *ExportOpportunitiesHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ExportOpportunitiesCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Path == "" {
		return nil, shared.NewValidationError("path", "report path required")
	}

	result, err := h.service.Classify(ctx, cmd.Config, cmd.ModelFilter)
	if err != nil {
		return nil, fmt.Errorf("failed to classify opportunities: %w", err)
	}

	report := &valuation.OpportunityReport{
		Groups:      result.Groups,
		Config:      cmd.Config,
		GeneratedAt: h.clock.Now(),
	}
	if err := h.writer.WriteOpportunities(ctx, cmd.Path, report); err != nil {
		return nil, fmt.Errorf("failed to write opportunity report: %w", err)
	}

	response := &ExportOpportunitiesResponse{
		Path:       cmd.Path,
		NotInStock: result.Groups.NotInStockCount(),
		InStock:    result.Groups.InStockCount(),
	}
	logging.LoggerFromContext(ctx).Info("opportunity report written",
		"path", cmd.Path, "not_in_stock", response.NotInStock, "in_stock", response.InStock)

	return response, nil
}

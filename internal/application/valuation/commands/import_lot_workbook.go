package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/metrics"
	"github.com/andrescamacho/acquisition-pricing/internal/application/logging"
	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// ImportLotWorkbookCommand loads an auction lot workbook into the vehicle store
type ImportLotWorkbookCommand struct {
	Path string
}

// ImportLotWorkbookResponse reports what was imported
type ImportLotWorkbookResponse struct {
	BatchID   string
	Imported  int
	Skipped   int
	RowErrors []string
}

// ImportLotWorkbookHandler handles workbook imports
type ImportLotWorkbookHandler struct {
	reader      valuation.LotWorkbookReader
	vehicleRepo valuation.CandidateVehicleRepository
}

// NewImportLotWorkbookHandler creates a new handler
func NewImportLotWorkbookHandler(
	reader valuation.LotWorkbookReader,
	vehicleRepo valuation.CandidateVehicleRepository,
) *ImportLotWorkbookHandler {
	return &ImportLotWorkbookHandler{reader: reader, vehicleRepo: vehicleRepo}
}

// Handle executes the command
//
// Rows the reader rejects, and rows that fail vehicle validation, are reported and skipped.
// Returns ErrEmptyWorkbook when no row could be imported.
func (h *ImportLotWorkbookHandler) Handle(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	cmd, ok := request.(*ImportLotWorkbookCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if cmd.Path == "" {
		return nil, shared.NewValidationError("path", "workbook path required")
	}

	batchID := uuid.New().String()
	logger := logging.LoggerFromContext(ctx).With("batch_id", batchID, "path", cmd.Path)

	lots, err := h.reader.ReadLots(ctx, cmd.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read workbook: %w", err)
	}

	rowErrors := make([]string, 0, len(lots.RowErrors))
	for _, rowErr := range lots.RowErrors {
		rowErrors = append(rowErrors, rowErr.Error())
	}

	vehicles := make([]*valuation.CandidateVehicle, 0, len(lots.Rows))
	for _, row := range lots.Rows {
		data := row.Data
		if data.ID == "" {
			data.ID = uuid.New().String()
		}

		vehicle, err := valuation.NewCandidateVehicle(data)
		if err != nil {
			rowErrors = append(rowErrors, shared.NewWorkbookRowError(row.Row, err.Error()).Error())
			continue
		}
		vehicles = append(vehicles, vehicle)
	}

	skipped := len(rowErrors)
	if len(vehicles) == 0 {
		metrics.RecordImport(0, skipped)
		return nil, fmt.Errorf("%s: %w", cmd.Path, valuation.ErrEmptyWorkbook)
	}

	if err := h.vehicleRepo.SaveAll(ctx, batchID, vehicles); err != nil {
		return nil, fmt.Errorf("failed to save imported vehicles: %w", err)
	}

	metrics.RecordImport(len(vehicles), skipped)
	logger.Info("workbook imported", "imported", len(vehicles), "skipped", skipped)
	for _, rowErr := range rowErrors {
		logger.Warn("row skipped", "reason", rowErr)
	}

	return &ImportLotWorkbookResponse{
		BatchID:   batchID,
		Imported:  len(vehicles),
		Skipped:   skipped,
		RowErrors: rowErrors,
	}, nil
}

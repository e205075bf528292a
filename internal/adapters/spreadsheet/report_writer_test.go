package spreadsheet_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/spreadsheet"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

func pricedVehicle(t *testing.T, id, lot, model string, target, competitive float64) *valuation.PricedVehicle {
	t.Helper()
	km := 45000
	vehicle, err := valuation.NewCandidateVehicle(valuation.CandidateVehicleData{
		ID:        id,
		LotID:     lot,
		Model:     model,
		MileageKm: &km,
	})
	require.NoError(t, err)
	bid := target - 5000
	warranty := valuation.NewWarrantyQuote(1200, 19, "19m", false)
	return valuation.NewPricedVehicle(vehicle, target, competitive, &bid, warranty)
}

func TestOpportunityReportWriter_WritesOneSheetPerBucket(t *testing.T) {
	cfg, err := valuation.NewPricingConfig(300, 200, 5)
	require.NoError(t, err)
	report := &valuation.OpportunityReport{
		Groups: valuation.OpportunityGroups{
			NotInStock: map[string][]*valuation.PricedVehicle{
				"Serie 3 320d": {
					pricedVehicle(t, "veh-1", "L-001", "Serie 3 320d", 27570, 30000),
					pricedVehicle(t, "veh-2", "L-002", "Serie 3 320d", 28000, 29000),
				},
			},
			InStock: map[string][]*valuation.PricedVehicle{
				"Serie 1 118i": {pricedVehicle(t, "veh-3", "L-003", "Serie 1 118i", 20000, 22000)},
			},
			Exclusions: map[valuation.ExclusionReason]int{
				valuation.ExcludedNoMargin:    2,
				valuation.ExcludedHighMileage: 1,
			},
		},
		Config:      cfg,
		GeneratedAt: time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC),
	}
	path := filepath.Join(t.TempDir(), "opportunities.xlsx")

	err = spreadsheet.NewOpportunityReportWriter().WriteOpportunities(context.Background(), path, report)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t,
		[]string{spreadsheet.SummarySheet, spreadsheet.NotInStockSheet, spreadsheet.InStockSheet},
		f.GetSheetList())

	notInStock, err := f.GetRows(spreadsheet.NotInStockSheet)
	require.NoError(t, err)
	require.Len(t, notInStock, 3)
	assert.Equal(t, "Model", notInStock[0][0])
	assert.Equal(t, []string{"Serie 3 320d", "L-001", "Serie 3 320d", "45000", "27570", "30000", "2430"}, notInStock[1][:7])
	assert.Equal(t, "L-002", notInStock[2][1])

	inStock, err := f.GetRows(spreadsheet.InStockSheet)
	require.NoError(t, err)
	require.Len(t, inStock, 2)
	assert.Equal(t, "L-003", inStock[1][1])
	assert.Equal(t, "10", inStock[1][7])

	excluded, err := f.GetCellValue(spreadsheet.SummarySheet, "B7")
	require.NoError(t, err)
	assert.Equal(t, "3", excluded)
	generated, err := f.GetCellValue(spreadsheet.SummarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-15 10:00", generated)
}

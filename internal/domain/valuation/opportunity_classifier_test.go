package valuation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

func opportunityVehicle(t *testing.T, id, model string, net, competitive float64, km int) *valuation.CandidateVehicle {
	data := valuation.CandidateVehicleData{
		ID:           id,
		Model:        model,
		FiscalRegime: "REBU",
	}
	if net > 0 {
		data.NetExitPrice = floatPtr(net)
	}
	if competitive > 0 {
		data.CompetitivePrice = floatPtr(competitive)
	}
	if km > 0 {
		data.MileageKm = intPtr(km)
	}
	return mustVehicle(t, data)
}

func vehicleIDs(list []*valuation.PricedVehicle) []string {
	ids := make([]string, 0, len(list))
	for _, p := range list {
		ids = append(ids, p.Vehicle().ID())
	}
	return ids
}

func TestClassify_PartitionsOpportunities(t *testing.T) {
	// Arrange: no registration dates and zero costs, so target = net exit price
	vehicles := []*valuation.CandidateVehicle{
		opportunityVehicle(t, "v2", "320d", 20000, 22000, 50000),
		opportunityVehicle(t, "v1", "320d", 20000, 25000, 50000),
		opportunityVehicle(t, "v3", "118d", 15000, 18000, 30000),
		opportunityVehicle(t, "v4", "118d", 15800, 17000, 30000),
		opportunityVehicle(t, "v5", "520d", 20000, 19000, 30000),
		opportunityVehicle(t, "v6", "520d", 20000, 30000, 120000),
		opportunityVehicle(t, "v7", "520d", 20000, 0, 30000),
		opportunityVehicle(t, "v8", "520d", 0, 30000, 30000),
		opportunityVehicle(t, "v9", "", 10000, 12000, 0),
		opportunityVehicle(t, "v10", "X1 sDrive18d", 20000, 20000, 115000),
	}
	stock := valuation.NewStockIndex([]valuation.StockVehicle{
		{Model: " 118D ", ListedPrice: 16000, Status: valuation.StockStatusAvailable},
	})

	// Act
	groups := valuation.NewOpportunityClassifier(nil).Classify(vehicles, stock, valuation.DefaultPricingConfig(), testToday)

	// Assert
	assert.Equal(t, []string{"320d", "Unknown model"}, groups.NotInStockModels())
	assert.Equal(t, []string{"v1", "v2"}, vehicleIDs(groups.NotInStock["320d"]))
	assert.Equal(t, []string{"v9"}, vehicleIDs(groups.NotInStock["Unknown model"]))

	assert.Equal(t, []string{"118d"}, groups.InStockModels())
	assert.Equal(t, []string{"v3"}, vehicleIDs(groups.InStock["118d"]))

	assert.Equal(t, 4, groups.Count())
	assert.Equal(t, 6, groups.ExcludedCount())
	assert.Equal(t, 1, groups.Exclusions[valuation.ExcludedStockCloseEnough])
	assert.Equal(t, 2, groups.Exclusions[valuation.ExcludedNoMargin])
	assert.Equal(t, 1, groups.Exclusions[valuation.ExcludedHighMileage])
	assert.Equal(t, 1, groups.Exclusions[valuation.ExcludedNoCompetitivePrice])
	assert.Equal(t, 1, groups.Exclusions[valuation.ExcludedNoTargetPrice])
}

func TestClassify_VehicleInAtMostOneBucket(t *testing.T) {
	var vehicles []*valuation.CandidateVehicle
	for i, model := range []string{"320d", "118d", "520d", "X1", "320d", "118d"} {
		competitive := 18000.0 + float64(i)*1500
		vehicles = append(vehicles, opportunityVehicle(t, model+string(rune('a'+i)), model, 18000, competitive, 40000+i*20000))
	}
	stock := valuation.NewStockIndex([]valuation.StockVehicle{
		{Model: "118d", ListedPrice: 30000},
		{Model: "X1", ListedPrice: 18100},
	})

	groups := valuation.NewOpportunityClassifier(nil).Classify(vehicles, stock, valuation.DefaultPricingConfig(), testToday)

	seen := make(map[string]int)
	for _, bucket := range []map[string][]*valuation.PricedVehicle{groups.NotInStock, groups.InStock} {
		for _, list := range bucket {
			for _, priced := range list {
				seen[priced.Vehicle().ID()]++
				assert.Greater(t, priced.Margin(), 0.0)
				km, ok := priced.Vehicle().MileageKm()
				if ok {
					assert.LessOrEqual(t, km, valuation.MaxOpportunityMileageKm)
				}
			}
		}
	}
	for id, count := range seen {
		assert.Equal(t, 1, count, id)
	}
	assert.Equal(t, len(vehicles), groups.Count()+groups.ExcludedCount())
}

func TestClassify_SortIsStableOnEqualMargins(t *testing.T) {
	vehicles := []*valuation.CandidateVehicle{
		opportunityVehicle(t, "first", "320d", 20000, 22000, 0),
		opportunityVehicle(t, "best", "320d", 10000, 15000, 0),
		opportunityVehicle(t, "second", "320d", 10000, 11000, 0),
	}

	groups := valuation.NewOpportunityClassifier(nil).Classify(vehicles, valuation.NewStockIndex(nil), valuation.DefaultPricingConfig(), testToday)

	require.Len(t, groups.NotInStock["320d"], 3)
	assert.Equal(t, []string{"best", "first", "second"}, vehicleIDs(groups.NotInStock["320d"]))
}

func TestClassify_EmptyInput(t *testing.T) {
	groups := valuation.NewOpportunityClassifier(nil).Classify(nil, valuation.StockIndex{}, valuation.DefaultPricingConfig(), testToday)

	assert.Equal(t, 0, groups.Count())
	assert.Empty(t, groups.NotInStock)
	assert.Empty(t, groups.InStock)
}

func TestStockIndex_Lookup(t *testing.T) {
	index := valuation.NewStockIndex([]valuation.StockVehicle{
		{Model: "320d", ListedPrice: 31000},
		{Model: " 320D ", ListedPrice: 29000},
		{Model: "", ListedPrice: 1},
	})

	unit, ok := index.Lookup("320D")
	require.True(t, ok)
	assert.Equal(t, 31000.0, unit.ListedPrice)

	_, ok = index.Lookup("")
	assert.False(t, ok)
	_, ok = index.Lookup("118d")
	assert.False(t, ok)
	assert.Equal(t, 2, index.Len())
}

func TestClassify_MileageCutoffBoundary(t *testing.T) {
	tests := []struct {
		name     string
		km       int
		included bool
	}{
		{"at cutoff", valuation.MaxOpportunityMileageKm, true},
		{"one km over", valuation.MaxOpportunityMileageKm + 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange: profitable vehicle, target 20000 against competitive 22000
			vehicles := []*valuation.CandidateVehicle{opportunityVehicle(t, "v1", "320d", 20000, 22000, tt.km)}

			// Act
			groups := valuation.NewOpportunityClassifier(nil).Classify(vehicles, valuation.NewStockIndex(nil), valuation.DefaultPricingConfig(), testToday)

			// Assert
			if tt.included {
				assert.Equal(t, []string{"v1"}, vehicleIDs(groups.NotInStock["320d"]))
				assert.Zero(t, groups.ExcludedCount())
			} else {
				assert.Zero(t, groups.Count())
				assert.Equal(t, 1, groups.Exclusions[valuation.ExcludedHighMileage])
			}
		})
	}
}

func TestClassify_StockSavingsBoundary(t *testing.T) {
	tests := []struct {
		name        string
		listedPrice float64
		included    bool
	}{
		{"saving equals threshold", 20000 + valuation.MinStockSavings, false},
		{"saving one over threshold", 20000 + valuation.MinStockSavings + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange: target 20000, so saving = listed price - 20000
			vehicles := []*valuation.CandidateVehicle{opportunityVehicle(t, "v1", "320d", 20000, 22000, 40000)}
			stock := valuation.NewStockIndex([]valuation.StockVehicle{
				{Model: "320d", ListedPrice: tt.listedPrice, Status: valuation.StockStatusAvailable},
			})

			// Act
			groups := valuation.NewOpportunityClassifier(nil).Classify(vehicles, stock, valuation.DefaultPricingConfig(), testToday)

			// Assert
			assert.Empty(t, groups.NotInStock)
			if tt.included {
				assert.Equal(t, []string{"v1"}, vehicleIDs(groups.InStock["320d"]))
			} else {
				assert.Empty(t, groups.InStock)
				assert.Equal(t, 1, groups.Exclusions[valuation.ExcludedStockCloseEnough])
			}
		})
	}
}

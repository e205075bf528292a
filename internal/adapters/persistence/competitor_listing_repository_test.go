package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/persistence"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
	"github.com/andrescamacho/acquisition-pricing/test/helpers"
)

func TestCompetitorListingRepository_ListActiveFiltersStatus(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewCompetitorListingRepository(db)
	ctx := context.Background()
	detected := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, repo.SaveAll(ctx, []valuation.CompetitorListing{
		{ID: "a", Price: "30.500 €", Mileage: "40.000 km", Model: "Serie 3 320d", Year: "2023",
			Status: valuation.ListingStatusActive, DetectedAt: &detected, NewPrice: "52.000 €"},
		{ID: "b", Price: 29900, Mileage: 38000, Model: "Serie 3 320d", Year: "2023",
			Status: valuation.ListingStatusPriceDropped},
		{ID: "c", Price: "31.000 €", Model: "Serie 3 320d", Year: "2023", Status: valuation.ListingStatusSold},
		{ID: "d", Price: "28.000 €", Model: "Serie 3 320d", Year: "2022", Status: valuation.ListingStatusRemoved},
	}))

	listings, err := repo.ListActive(ctx)

	require.NoError(t, err)
	require.Len(t, listings, 2)
	assert.Equal(t, "a", listings[0].ID)
	assert.Equal(t, 30500.0, valuation.ParsePrice(listings[0].Price))
	assert.Equal(t, 40000, valuation.ParseMileage(listings[0].Mileage))
	newPrice, ok := listings[0].ResolveNewPrice()
	assert.True(t, ok)
	assert.Equal(t, 52000.0, newPrice)
	require.NotNil(t, listings[0].DetectedAt)

	assert.Equal(t, "b", listings[1].ID)
	assert.Equal(t, 29900.0, valuation.ParsePrice(listings[1].Price))
	assert.Equal(t, 38000, valuation.ParseMileage(listings[1].Mileage))
	assert.Nil(t, listings[1].NewPrice)
}

func TestStockRepository_ListAvailable(t *testing.T) {
	db := helpers.NewTestDB(t)
	repo := persistence.NewStockRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Add(ctx, []valuation.StockVehicle{
		{Model: "Serie 3 320d", ListedPrice: 31500, Status: valuation.StockStatusAvailable},
		{Model: "Serie 1 118i", ListedPrice: 22000, Status: valuation.StockStatusInPreparation},
		{Model: "X1 sDrive18d", ListedPrice: 27000, Status: valuation.StockStatusSold},
		{Model: "X3 xDrive20d", ListedPrice: 41000, Status: valuation.StockStatusReserved},
	}))

	units, err := repo.ListAvailable(ctx)

	require.NoError(t, err)
	require.Len(t, units, 2)
	assert.Equal(t, "Serie 3 320d", units[0].Model)
	assert.Equal(t, valuation.StockStatusInPreparation, units[1].Status)
}

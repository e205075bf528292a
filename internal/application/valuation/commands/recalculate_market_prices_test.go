package commands_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/commands"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
	"github.com/andrescamacho/acquisition-pricing/test/helpers"
)

type recalculationFixture struct {
	vehicles *helpers.MockCandidateVehicleRepository
	handler  *commands.RecalculateMarketPricesHandler
}

func newRecalculationFixture(t *testing.T) *recalculationFixture {
	vehicles := helpers.NewMockCandidateVehicleRepository(
		helpers.NewCandidateVehicle(t, "veh-1"),
		helpers.NewCandidateVehicle(t, "veh-2", helpers.WithModel("Serie 1", "Serie 1 118i")),
		helpers.NewCandidateVehicle(t, "veh-3", helpers.WithModel("X5", "X5 xDrive40d")),
	)
	sold := helpers.NewListing("l-4", "BMW Serie 3 320d", "18.000 €", "42.000 km", "2023")
	sold.Status = valuation.ListingStatusSold
	listings := helpers.NewMockCompetitorListingRepository(
		helpers.NewListing("l-1", "BMW Serie 3 320d M Sport", "30.000 €", "40.000 km", "2023"),
		helpers.NewListing("l-2", "BMW Serie 3 320d Touring", "31.000 €", "50.000 km", "2024"),
		helpers.NewListing("l-3", "BMW 118i 5p Serie 1", "22.000 €", "39.000 km", "2023"),
		sold,
	)
	clock := shared.NewMockClock(helpers.ReferenceDate)

	return &recalculationFixture{
		vehicles: vehicles,
		handler:  commands.NewRecalculateMarketPricesHandler(vehicles, listings, rate.NewLimiter(rate.Inf, 1), clock),
	}
}

func TestRecalculateMarketPrices_StoresEstimatesPerStrategy(t *testing.T) {
	// Arrange
	fx := newRecalculationFixture(t)
	ctx := context.Background()

	// Act
	response, err := fx.handler.Handle(ctx, &commands.RecalculateMarketPricesCommand{})

	// Assert
	require.NoError(t, err)
	result := response.(*commands.RecalculateMarketPricesResponse)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 3, result.Processed)
	assert.Equal(t, 1, result.Stats.Exact)
	assert.Equal(t, 1, result.Stats.Partial)
	assert.Equal(t, 1, result.Stats.NotFound)
	assert.Equal(t, 2, result.Stats.Updated)
	assert.Zero(t, result.Stats.Failed)

	exact, err := fx.vehicles.FindByID(ctx, "veh-1")
	require.NoError(t, err)
	competitive, ok := exact.CompetitivePrice()
	require.True(t, ok)
	assert.Equal(t, 29890.0, competitive)
	average, _ := exact.MarketAverage()
	assert.Equal(t, 30500.0, average)
	assert.Equal(t, 2, exact.CompetitorCount())
	require.NotNil(t, exact.LastMarketSearch())
	assert.Equal(t, helpers.ReferenceDate, *exact.LastMarketSearch())

	partial, err := fx.vehicles.FindByID(ctx, "veh-2")
	require.NoError(t, err)
	competitive, ok = partial.CompetitivePrice()
	require.True(t, ok)
	assert.Equal(t, 21560.0, competitive)

	missing, err := fx.vehicles.FindByID(ctx, "veh-3")
	require.NoError(t, err)
	_, ok = missing.CompetitivePrice()
	assert.False(t, ok)
}

func TestRecalculateMarketPrices_SkipsVehicleWhoseWriteFails(t *testing.T) {
	fx := newRecalculationFixture(t)
	fx.vehicles.UpdateErr["veh-1"] = errors.New("connection reset")

	response, err := fx.handler.Handle(context.Background(), &commands.RecalculateMarketPricesCommand{})

	require.NoError(t, err)
	result := response.(*commands.RecalculateMarketPricesResponse)
	assert.Equal(t, 1, result.Stats.Failed)
	assert.Equal(t, 1, result.Stats.Updated)
}

func TestRecalculateMarketPrices_FailsWhenVehiclesCannotLoad(t *testing.T) {
	fx := newRecalculationFixture(t)
	fx.vehicles.ListErr = errors.New("timeout")

	_, err := fx.handler.Handle(context.Background(), &commands.RecalculateMarketPricesCommand{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load vehicles")
}

func TestRecalculateMarketPrices_StopsOnCancelledContext(t *testing.T) {
	fx := newRecalculationFixture(t)
	handler := commands.NewRecalculateMarketPricesHandler(
		fx.vehicles,
		helpers.NewMockCompetitorListingRepository(
			helpers.NewListing("l-1", "BMW Serie 3 320d", "30.000 €", "40.000 km", "2023"),
		),
		rate.NewLimiter(rate.Every(1), 1),
		nil,
	)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := handler.Handle(ctx, &commands.RecalculateMarketPricesCommand{})

	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecalculateMarketPrices_RejectsWrongRequest(t *testing.T) {
	fx := newRecalculationFixture(t)

	_, err := fx.handler.Handle(context.Background(), &commands.ImportLotWorkbookCommand{})

	assert.Error(t, err)
}

package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/persistence"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/commands"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/database"
)

func registerMarketStoreSteps(sc *godog.ScenarioContext, w *valuationWorld) {
	sc.Step(`^a store holding the lots:$`, w.aStoreHoldingTheLots)
	sc.Step(`^the store holds the competitor listings:$`, w.theStoreHoldsTheCompetitorListings)

	sc.Step(`^I recalculate market prices$`, w.iRecalculateMarketPrices)

	sc.Step(`^(\d+) lots should have been processed$`, w.lotsShouldHaveBeenProcessed)
	sc.Step(`^the recalculation should count (\d+) exact, (\d+) partial and (\d+) not found$`, w.theRecalculationShouldCount)
	sc.Step(`^lot "([^"]*)" should have a stored competitive price of (\d+) from (\d+) comparables$`, w.lotShouldHaveStoredCompetitivePrice)
	sc.Step(`^lot "([^"]*)" should have no stored competitive price$`, w.lotShouldHaveNoStoredCompetitivePrice)
}

func (w *valuationWorld) openStore() error {
	if w.db != nil {
		return nil
	}
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to open test database: %w", err)
	}
	w.db = db
	w.vehicleRepo = persistence.NewCandidateVehicleRepository(db)
	w.listingRepo = persistence.NewCompetitorListingRepository(db)
	return nil
}

func (w *valuationWorld) aStoreHoldingTheLots(table *godog.Table) error {
	if err := w.openStore(); err != nil {
		return err
	}

	var vehicles []*valuation.CandidateVehicle
	for _, record := range tableRecords(table) {
		registered, err := parseDate(record["registered"])
		if err != nil {
			return err
		}
		mileage, err := optionalInt(record["mileage"])
		if err != nil {
			return err
		}
		net := 20000.0
		vehicle, err := valuation.NewCandidateVehicle(valuation.CandidateVehicleData{
			ID:               record["id"],
			LotID:            "L-" + record["id"],
			Brand:            "BMW",
			Series:           record["series"],
			Model:            record["model"],
			RegistrationDate: registered,
			MileageKm:        mileage,
			NetExitPrice:     &net,
			FiscalRegime:     "IVA",
		})
		if err != nil {
			return err
		}
		vehicles = append(vehicles, vehicle)
	}

	return w.vehicleRepo.SaveAll(context.Background(), "bdd-batch", vehicles)
}

func (w *valuationWorld) theStoreHoldsTheCompetitorListings(table *godog.Table) error {
	if err := w.openStore(); err != nil {
		return err
	}

	var listings []valuation.CompetitorListing
	for _, record := range tableRecords(table) {
		listings = append(listings, listingFromRecord(record, w.today))
	}
	return w.listingRepo.SaveAll(context.Background(), listings)
}

func (w *valuationWorld) iRecalculateMarketPrices() error {
	if err := w.openStore(); err != nil {
		return err
	}

	handler := commands.NewRecalculateMarketPricesHandler(w.vehicleRepo, w.listingRepo, nil, shared.NewMockClock(w.today))
	response, err := handler.Handle(context.Background(), &commands.RecalculateMarketPricesCommand{})
	if err != nil {
		return err
	}

	result, ok := response.(*commands.RecalculateMarketPricesResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", response)
	}
	w.recalculation = result
	return nil
}

func (w *valuationWorld) lotsShouldHaveBeenProcessed(count int) error {
	if w.recalculation == nil {
		return fmt.Errorf("market prices were not recalculated")
	}
	if w.recalculation.Processed != count {
		return fmt.Errorf("expected %d processed lots, got %d", count, w.recalculation.Processed)
	}
	return nil
}

func (w *valuationWorld) theRecalculationShouldCount(exact, partial, notFound int) error {
	if w.recalculation == nil {
		return fmt.Errorf("market prices were not recalculated")
	}
	stats := w.recalculation.Stats
	if stats.Exact != exact || stats.Partial != partial || stats.NotFound != notFound {
		return fmt.Errorf("expected %d exact, %d partial, %d not found; got %d, %d, %d",
			exact, partial, notFound, stats.Exact, stats.Partial, stats.NotFound)
	}
	return nil
}

func (w *valuationWorld) lotShouldHaveStoredCompetitivePrice(id string, price, comparables int) error {
	vehicle, err := w.vehicleRepo.FindByID(context.Background(), id)
	if err != nil {
		return err
	}

	competitive, ok := vehicle.CompetitivePrice()
	if !ok {
		return fmt.Errorf("lot %s has no stored competitive price", id)
	}
	if err := expectAmount("stored competitive price", price, competitive); err != nil {
		return err
	}
	if vehicle.CompetitorCount() != comparables {
		return fmt.Errorf("expected %d comparables for lot %s, got %d", comparables, id, vehicle.CompetitorCount())
	}
	return nil
}

func (w *valuationWorld) lotShouldHaveNoStoredCompetitivePrice(id string) error {
	vehicle, err := w.vehicleRepo.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	if competitive, ok := vehicle.CompetitivePrice(); ok {
		return fmt.Errorf("expected no stored competitive price for lot %s, got %.2f", id, competitive)
	}
	return nil
}

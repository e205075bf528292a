package steps

import (
	"fmt"
	"path"
	"strings"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

func registerMatchingSteps(sc *godog.ScenarioContext, w *valuationWorld) {
	sc.Step(`^the competitor listings:$`, w.theCompetitorListings)
	sc.Step(`^a "([^"]*)" "([^"]*)" registered on "([^"]*)" with (\d+) km$`, w.aSeriesModelWithMileage)

	sc.Step(`^I search for comparables$`, w.iSearchForComparables)

	sc.Step(`^the match strategy should be "([^"]*)"$`, w.theMatchStrategyShouldBe)
	sc.Step(`^the comparables should be "([^"]*)"$`, w.theComparablesShouldBe)
	sc.Step(`^the market average should be (\d+)$`, w.theMarketAverageShouldBe)
	sc.Step(`^the competitive price should be (\d+)$`, w.theCompetitivePriceShouldBe)
	sc.Step(`^no market estimate should be available$`, w.noMarketEstimateShouldBeAvailable)
}

func (w *valuationWorld) theCompetitorListings(table *godog.Table) error {
	w.listings = nil
	for _, record := range tableRecords(table) {
		w.listings = append(w.listings, listingFromRecord(record, w.today))
	}
	return nil
}

func (w *valuationWorld) aSeriesModelWithMileage(series, model, date string, km int) error {
	registered, err := parseDate(date)
	if err != nil {
		return err
	}
	w.subject = valuation.CandidateVehicleData{
		ID:               "subject",
		Series:           series,
		Model:            model,
		RegistrationDate: registered,
		MileageKm:        &km,
	}
	return nil
}

func (w *valuationWorld) iSearchForComparables() error {
	vehicle, err := valuation.NewCandidateVehicle(w.subject)
	if err != nil {
		return err
	}

	matcher := valuation.NewCompetitorMatcher(shared.NewMockClock(w.today))
	w.comparables = matcher.FindComparables(vehicle, w.listings)
	w.estimate = nil
	if estimate, ok := valuation.EstimateMarketPrice(w.comparables); ok {
		w.estimate = &estimate
	}
	return nil
}

func (w *valuationWorld) theMatchStrategyShouldBe(strategy string) error {
	if string(w.comparables.Strategy) != strategy {
		return fmt.Errorf("expected strategy %q, got %q", strategy, w.comparables.Strategy)
	}
	return nil
}

func (w *valuationWorld) theComparablesShouldBe(ids string) error {
	found := make([]string, 0, len(w.comparables.Listings))
	for _, listing := range w.comparables.Listings {
		found = append(found, path.Base(listing.URL()))
	}
	if got := strings.Join(found, ", "); got != ids {
		return fmt.Errorf("expected comparables %q, got %q", ids, got)
	}
	return nil
}

func (w *valuationWorld) theMarketAverageShouldBe(average int) error {
	if w.estimate == nil {
		return fmt.Errorf("expected a market estimate, got none")
	}
	return expectAmount("market average", average, w.estimate.AveragePrice())
}

func (w *valuationWorld) theCompetitivePriceShouldBe(price int) error {
	if w.estimate == nil {
		return fmt.Errorf("expected a market estimate, got none")
	}
	return expectAmount("competitive price", price, w.estimate.CompetitivePrice())
}

func (w *valuationWorld) noMarketEstimateShouldBeAvailable() error {
	if w.estimate != nil {
		return fmt.Errorf("expected no market estimate, got %s", w.estimate)
	}
	return nil
}

package steps

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/dtos"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/queries"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/services"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
	"github.com/andrescamacho/acquisition-pricing/test/helpers"
)

func registerOpportunitySteps(sc *godog.ScenarioContext, w *valuationWorld) {
	sc.Step(`^the stored lots registered on "([^"]*)":$`, w.theStoredLotsRegisteredOn)
	sc.Step(`^the dealer stock:$`, w.theDealerStock)

	sc.Step(`^I classify the opportunities$`, w.iClassifyTheOpportunities)
	sc.Step(`^I classify the opportunities for models containing "([^"]*)"$`, w.iClassifyTheOpportunitiesFor)

	sc.Step(`^"([^"]*)" should be listed not in stock with a margin of (\d+)$`, w.shouldBeListedNotInStock)
	sc.Step(`^"([^"]*)" should be listed in stock with a margin of (\d+)$`, w.shouldBeListedInStock)
	sc.Step(`^(\d+) lots should be excluded$`, w.lotsShouldBeExcluded)
	sc.Step(`^the exclusions should be:$`, w.theExclusionsShouldBe)
}

func (w *valuationWorld) theStoredLotsRegisteredOn(date string, table *godog.Table) error {
	registered, err := parseDate(date)
	if err != nil {
		return err
	}

	w.vehicles = nil
	for _, record := range tableRecords(table) {
		mileage, err := optionalInt(record["mileage"])
		if err != nil {
			return err
		}
		net, err := optionalFloat(record["net exit price"])
		if err != nil {
			return err
		}
		competitive, err := optionalFloat(record["competitive price"])
		if err != nil {
			return err
		}

		vehicle, err := valuation.NewCandidateVehicle(valuation.CandidateVehicleData{
			ID:               record["id"],
			LotID:            "L-" + record["id"],
			Brand:            "BMW",
			Model:            record["model"],
			RegistrationDate: registered,
			MileageKm:        mileage,
			NetExitPrice:     net,
			FiscalRegime:     "IVA",
			CompetitivePrice: competitive,
		})
		if err != nil {
			return err
		}
		w.vehicles = append(w.vehicles, vehicle)
	}
	return nil
}

func (w *valuationWorld) theDealerStock(table *godog.Table) error {
	w.stock = nil
	for _, record := range tableRecords(table) {
		price, err := strconv.ParseFloat(record["listed price"], 64)
		if err != nil {
			return fmt.Errorf("invalid listed price %q: %w", record["listed price"], err)
		}
		w.stock = append(w.stock, valuation.StockVehicle{
			Model:       record["model"],
			ListedPrice: price,
			Status:      valuation.StockStatus(record["status"]),
		})
	}
	return nil
}

func (w *valuationWorld) iClassifyTheOpportunities() error {
	return w.iClassifyTheOpportunitiesFor("")
}

func (w *valuationWorld) iClassifyTheOpportunitiesFor(filter string) error {
	service := services.NewOpportunityService(
		helpers.NewMockCandidateVehicleRepository(w.vehicles...),
		helpers.NewMockStockRepository(w.stock...),
		nil,
		shared.NewMockClock(w.today),
	)
	handler := queries.NewClassifyOpportunitiesHandler(service)

	response, err := handler.Handle(context.Background(), &queries.ClassifyOpportunitiesQuery{
		Config:      w.pricing,
		ModelFilter: filter,
	})
	if err != nil {
		return err
	}

	result, ok := response.(*queries.ClassifyOpportunitiesResponse)
	if !ok {
		return fmt.Errorf("unexpected response type %T", response)
	}
	w.opportunities = result
	return nil
}

func (w *valuationWorld) shouldBeListedNotInStock(id string, margin int) error {
	if w.opportunities == nil {
		return fmt.Errorf("opportunities were not classified")
	}
	return expectListed(w.opportunities.NotInStock, "not in stock", id, margin)
}

func (w *valuationWorld) shouldBeListedInStock(id string, margin int) error {
	if w.opportunities == nil {
		return fmt.Errorf("opportunities were not classified")
	}
	return expectListed(w.opportunities.InStock, "in stock", id, margin)
}

func expectListed(groups []*dtos.ModelGroupDTO, bucket, id string, margin int) error {
	for _, group := range groups {
		for _, vehicle := range group.Vehicles {
			if vehicle.VehicleID == id {
				return expectAmount(id+" margin", margin, vehicle.Margin)
			}
		}
	}
	return fmt.Errorf("vehicle %s is not listed %s", id, bucket)
}

func (w *valuationWorld) lotsShouldBeExcluded(count int) error {
	if w.opportunities == nil {
		return fmt.Errorf("opportunities were not classified")
	}
	if w.opportunities.Excluded != count {
		return fmt.Errorf("expected %d excluded lots, got %d (%v)", count, w.opportunities.Excluded, w.opportunities.Exclusions)
	}
	return nil
}

func (w *valuationWorld) theExclusionsShouldBe(table *godog.Table) error {
	if w.opportunities == nil {
		return fmt.Errorf("opportunities were not classified")
	}

	records := tableRecords(table)
	if len(records) != len(w.opportunities.Exclusions) {
		return fmt.Errorf("expected %d exclusion reasons, got %v", len(records), w.opportunities.Exclusions)
	}
	for _, record := range records {
		want, err := strconv.Atoi(record["count"])
		if err != nil {
			return err
		}
		if got := w.opportunities.Exclusions[record["reason"]]; got != want {
			return fmt.Errorf("expected %d lots excluded for %s, got %d", want, record["reason"], got)
		}
	}
	return nil
}

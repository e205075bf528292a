package steps

import (
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

func registerPricingSteps(sc *godog.ScenarioContext, w *valuationWorld) {
	// Given
	sc.Step(`^a "([^"]*)" registered on "([^"]*)"$`, w.aModelRegisteredOn)
	sc.Step(`^a "([^"]*)" without registration date$`, w.aModelWithoutRegistrationDate)
	sc.Step(`^a "([^"]*)" registered on "([^"]*)" with net exit price (\d+) under the "([^"]*)" regime$`, w.aModelWithNetExitPrice)
	sc.Step(`^a "([^"]*)" registered on "([^"]*)" without net exit price$`, w.aModelWithoutNetExitPrice)
	sc.Step(`^its competitive price is (\d+)$`, w.itsCompetitivePriceIs)
	sc.Step(`^its damage cost is (\d+)$`, w.itsDamageCostIs)

	// When
	sc.Step(`^I quote its warranty$`, w.iQuoteItsWarranty)
	sc.Step(`^I price the vehicle$`, w.iPriceTheVehicle)

	// Then
	sc.Step(`^the warranty cost should be (\d+)$`, w.theWarrantyCostShouldBe)
	sc.Step(`^the warranty detail should be "([^"]*)"$`, w.theWarrantyDetailShouldBe)
	sc.Step(`^the target sale price should be (\d+)$`, w.theTargetSalePriceShouldBe)
	sc.Step(`^the maximum bid should be (\d+)$`, w.theMaximumBidShouldBe)
	sc.Step(`^the margin should be (\d+)$`, w.theMarginShouldBe)
	sc.Step(`^no target sale price should be available$`, w.noTargetSalePriceShouldBeAvailable)
	sc.Step(`^no maximum bid should be available$`, w.noMaximumBidShouldBeAvailable)
}

func (w *valuationWorld) aModelRegisteredOn(model, date string) error {
	registered, err := parseDate(date)
	if err != nil {
		return err
	}
	w.subject = valuation.CandidateVehicleData{ID: "subject", Model: model, RegistrationDate: registered}
	return nil
}

func (w *valuationWorld) aModelWithoutRegistrationDate(model string) error {
	w.subject = valuation.CandidateVehicleData{ID: "subject", Model: model}
	return nil
}

func (w *valuationWorld) aModelWithNetExitPrice(model, date string, net int, regime string) error {
	if err := w.aModelRegisteredOn(model, date); err != nil {
		return err
	}
	price := float64(net)
	w.subject.NetExitPrice = &price
	w.subject.FiscalRegime = regime
	return nil
}

func (w *valuationWorld) aModelWithoutNetExitPrice(model, date string) error {
	if err := w.aModelRegisteredOn(model, date); err != nil {
		return err
	}
	w.subject.FiscalRegime = "IVA"
	return nil
}

func (w *valuationWorld) itsCompetitivePriceIs(price int) error {
	competitive := float64(price)
	w.subject.CompetitivePrice = &competitive
	return nil
}

func (w *valuationWorld) itsDamageCostIs(cost int) error {
	w.subject.DamageCost = float64(cost)
	return nil
}

func (w *valuationWorld) iQuoteItsWarranty() error {
	vehicle, err := valuation.NewCandidateVehicle(w.subject)
	if err != nil {
		return err
	}
	w.warranty = valuation.NewPricingCalculator(nil).Warranty(vehicle, w.today)
	return nil
}

func (w *valuationWorld) iPriceTheVehicle() error {
	vehicle, err := valuation.NewCandidateVehicle(w.subject)
	if err != nil {
		return err
	}

	calculator := valuation.NewPricingCalculator(nil)
	w.target, w.maxBid = nil, nil
	if target, ok := calculator.TargetSalePrice(vehicle, w.pricing, w.today); ok {
		w.target = &target
	}
	if bid, ok := calculator.MaxBid(vehicle, w.pricing, w.today); ok {
		w.maxBid = &bid
	}
	return nil
}

func (w *valuationWorld) theWarrantyCostShouldBe(cost int) error {
	return expectAmount("warranty cost", cost, w.warranty.Cost())
}

func (w *valuationWorld) theWarrantyDetailShouldBe(detail string) error {
	if w.warranty.Detail() != detail {
		return fmt.Errorf("expected warranty detail %q, got %q", detail, w.warranty.Detail())
	}
	return nil
}

func (w *valuationWorld) theTargetSalePriceShouldBe(price int) error {
	if w.target == nil {
		return fmt.Errorf("expected target sale price %d, got none", price)
	}
	return expectAmount("target sale price", price, *w.target)
}

func (w *valuationWorld) theMaximumBidShouldBe(bid int) error {
	if w.maxBid == nil {
		return fmt.Errorf("expected maximum bid %d, got none", bid)
	}
	return expectAmount("maximum bid", bid, *w.maxBid)
}

func (w *valuationWorld) theMarginShouldBe(margin int) error {
	if w.target == nil || w.subject.CompetitivePrice == nil {
		return fmt.Errorf("margin needs both a target sale price and a competitive price")
	}
	return expectAmount("margin", margin, *w.subject.CompetitivePrice-*w.target)
}

func (w *valuationWorld) noTargetSalePriceShouldBeAvailable() error {
	if w.target != nil {
		return fmt.Errorf("expected no target sale price, got %.2f", *w.target)
	}
	return nil
}

func (w *valuationWorld) noMaximumBidShouldBeAvailable() error {
	if w.maxBid != nil {
		return fmt.Errorf("expected no maximum bid, got %.2f", *w.maxBid)
	}
	return nil
}

package valuation

import (
	"sort"
	"time"
)

// UnknownModelGroup is the group name for vehicles without a model
const UnknownModelGroup = "Unknown model"

// ExclusionReason explains why a vehicle is not an opportunity
type ExclusionReason string

const (
	ExcludedNoTargetPrice      ExclusionReason = "no_target_price"
	ExcludedNoCompetitivePrice ExclusionReason = "no_competitive_price"
	ExcludedHighMileage        ExclusionReason = "high_mileage"
	ExcludedNoMargin           ExclusionReason = "no_margin"
	ExcludedStockCloseEnough   ExclusionReason = "stock_close_enough"
)

// OpportunityGroups partitions profitable vehicles by whether the model is already in stock.
// Each model's list is ordered by margin percent, highest first.
type OpportunityGroups struct {
	NotInStock map[string][]*PricedVehicle
	InStock    map[string][]*PricedVehicle
	Exclusions map[ExclusionReason]int
}

// Count returns the number of vehicles across both buckets
func (g OpportunityGroups) Count() int {
	return countVehicles(g.NotInStock) + countVehicles(g.InStock)
}

func (g OpportunityGroups) NotInStockCount() int {
	return countVehicles(g.NotInStock)
}

func (g OpportunityGroups) InStockCount() int {
	return countVehicles(g.InStock)
}

// NotInStockModels returns the model names of the not-in-stock bucket, sorted
func (g OpportunityGroups) NotInStockModels() []string {
	return sortedModels(g.NotInStock)
}

// InStockModels returns the model names of the in-stock bucket, sorted
func (g OpportunityGroups) InStockModels() []string {
	return sortedModels(g.InStock)
}

// ExcludedCount returns the number of vehicles left out of both buckets
func (g OpportunityGroups) ExcludedCount() int {
	total := 0
	for _, n := range g.Exclusions {
		total += n
	}
	return total
}

// OpportunityClassifier ranks candidate vehicles into acquisition opportunities.
//
// A vehicle qualifies when its competitive market price exceeds its target sale price
// and its mileage is at most MaxOpportunityMileageKm. Qualifying vehicles whose model is
// not in stock go to NotInStock; those whose model is in stock go to InStock only when
// the listed stock unit costs more than MinStockSavings above the target sale price.
//
// Pure: a vehicle with missing data is excluded, never fails the batch.
type OpportunityClassifier struct {
	calculator *PricingCalculator
}

func NewOpportunityClassifier(calculator *PricingCalculator) *OpportunityClassifier {
	if calculator == nil {
		calculator = NewPricingCalculator(nil)
	}
	return &OpportunityClassifier{calculator: calculator}
}

// Classify evaluates every vehicle and returns freshly built groups.
func (c *OpportunityClassifier) Classify(
	vehicles []*CandidateVehicle,
	stock StockIndex,
	cfg PricingConfig,
	today time.Time,
) OpportunityGroups {
	exclusions := make(map[ExclusionReason]int)
	var notInStock, inStock []*PricedVehicle

	for _, vehicle := range vehicles {
		if vehicle == nil {
			continue
		}

		priced, reason := c.evaluate(vehicle, cfg, today)
		if priced == nil {
			exclusions[reason]++
			continue
		}

		unit, listed := stock.Lookup(vehicle.Model())
		if !listed {
			notInStock = append(notInStock, priced)
			continue
		}

		savings := unit.ListedPrice - priced.TargetSalePrice()
		if savings > MinStockSavings {
			inStock = append(inStock, priced)
		} else {
			exclusions[ExcludedStockCloseEnough]++
		}
	}

	return OpportunityGroups{
		NotInStock: groupByModel(sortByMarginPercent(notInStock)),
		InStock:    groupByModel(sortByMarginPercent(inStock)),
		Exclusions: exclusions,
	}
}

func (c *OpportunityClassifier) evaluate(v *CandidateVehicle, cfg PricingConfig, today time.Time) (*PricedVehicle, ExclusionReason) {
	if _, ok := v.NetExitPrice(); !ok {
		return nil, ExcludedNoTargetPrice
	}
	if _, ok := v.CompetitivePrice(); !ok {
		return nil, ExcludedNoCompetitivePrice
	}
	if km, ok := v.MileageKm(); ok && km > MaxOpportunityMileageKm {
		return nil, ExcludedHighMileage
	}

	priced, ok := c.calculator.Price(v, cfg, today)
	if !ok {
		return nil, ExcludedNoTargetPrice
	}
	if !priced.IsProfitable() {
		return nil, ExcludedNoMargin
	}
	return priced, ""
}

func sortByMarginPercent(vehicles []*PricedVehicle) []*PricedVehicle {
	sort.SliceStable(vehicles, func(i, j int) bool {
		return vehicles[i].MarginPercent() > vehicles[j].MarginPercent()
	})
	return vehicles
}

func groupByModel(vehicles []*PricedVehicle) map[string][]*PricedVehicle {
	groups := make(map[string][]*PricedVehicle)
	for _, v := range vehicles {
		model := v.Vehicle().Model()
		if model == "" {
			model = UnknownModelGroup
		}
		groups[model] = append(groups[model], v)
	}
	return groups
}

func sortedModels(groups map[string][]*PricedVehicle) []string {
	models := make([]string, 0, len(groups))
	for model := range groups {
		models = append(models, model)
	}
	sort.Strings(models)
	return models
}

func countVehicles(groups map[string][]*PricedVehicle) int {
	total := 0
	for _, list := range groups {
		total += len(list)
	}
	return total
}

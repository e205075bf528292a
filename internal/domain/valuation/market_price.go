package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MarketEstimate summarizes the comparable market for one vehicle.
// Prices are rounded to whole currency units.
type MarketEstimate struct {
	count              int
	averagePrice       float64
	minPrice           float64
	maxPrice           float64
	competitivePrice   float64
	averageDiscountPct float64
	hasAverageDiscount bool
	averageMileageKm   int
	strategy           MatchStrategy
}

func (e MarketEstimate) Count() int                { return e.count }
func (e MarketEstimate) AveragePrice() float64     { return e.averagePrice }
func (e MarketEstimate) MinPrice() float64         { return e.minPrice }
func (e MarketEstimate) MaxPrice() float64         { return e.maxPrice }
func (e MarketEstimate) CompetitivePrice() float64 { return e.competitivePrice }
func (e MarketEstimate) AverageMileageKm() int     { return e.averageMileageKm }
func (e MarketEstimate) Strategy() MatchStrategy   { return e.strategy }

// AverageDiscountPercent is the mean discount over new price, among comparables that know it
func (e MarketEstimate) AverageDiscountPercent() (float64, bool) {
	return e.averageDiscountPct, e.hasAverageDiscount
}

func (e MarketEstimate) String() string {
	return fmt.Sprintf("MarketEstimate[%d comparables, avg=%.0f, competitive=%.0f, %s]",
		e.count, e.averagePrice, e.competitivePrice, e.strategy)
}

// EstimateMarketPrice derives the market position of a vehicle from its comparables.
// The competitive price sits CompetitiveDiscountPercent below the average asking price.
// Returns false when the set holds no comparables.
func EstimateMarketPrice(set ComparableSet) (MarketEstimate, bool) {
	if set.IsEmpty() {
		return MarketEstimate{}, false
	}

	sum := decimal.Zero
	kmSum := decimal.Zero
	discountSum := decimal.Zero
	discounted := 0
	minPrice := set.Listings[0].Price()
	maxPrice := minPrice

	for _, listing := range set.Listings {
		sum = sum.Add(decimal.NewFromFloat(listing.Price()))
		kmSum = kmSum.Add(decimal.NewFromInt(int64(listing.MileageKm())))
		minPrice = min(minPrice, listing.Price())
		maxPrice = max(maxPrice, listing.Price())

		if discount, ok := listing.DiscountPercent(); ok {
			discountSum = discountSum.Add(decimal.NewFromFloat(discount))
			discounted++
		}
	}

	count := decimal.NewFromInt(int64(len(set.Listings)))
	average := sum.Div(count)
	competitive := average.Mul(competitiveFactor())

	estimate := MarketEstimate{
		count:            len(set.Listings),
		averagePrice:     roundUnits(average).InexactFloat64(),
		minPrice:         roundUnits(decimal.NewFromFloat(minPrice)).InexactFloat64(),
		maxPrice:         roundUnits(decimal.NewFromFloat(maxPrice)).InexactFloat64(),
		competitivePrice: roundUnits(competitive).InexactFloat64(),
		averageMileageKm: int(roundUnits(kmSum.Div(count)).IntPart()),
		strategy:         set.Strategy,
	}

	if discounted > 0 {
		avgDiscount := discountSum.Div(decimal.NewFromInt(int64(discounted)))
		estimate.averageDiscountPct = avgDiscount.Round(2).InexactFloat64()
		estimate.hasAverageDiscount = true
	}

	return estimate, true
}

// NewMarketEstimate rebuilds an estimate from stored figures
func NewMarketEstimate(count int, averagePrice, competitivePrice float64, strategy MatchStrategy) MarketEstimate {
	return MarketEstimate{
		count:            count,
		averagePrice:     averagePrice,
		minPrice:         averagePrice,
		maxPrice:         averagePrice,
		competitivePrice: competitivePrice,
		strategy:         strategy,
	}
}

func competitiveFactor() decimal.Decimal {
	hundred := decimal.NewFromInt(100)
	return hundred.Sub(decimal.NewFromInt(CompetitiveDiscountPercent)).Div(hundred)
}

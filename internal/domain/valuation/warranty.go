package valuation

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const (
	warrantyDetailNoRegistration = "no registration date"
	warrantyDetailFactoryCovers  = "factory warranty covers"
	warrantyDetailPremiumNote    = " (premium +10%)"
)

// WarrantyQuote is the dealer warranty liability accrued by a vehicle.
type WarrantyQuote struct {
	cost      float64
	gapMonths int
	detail    string
	premium   bool
}

// NewWarrantyQuote creates a quote; used when rebuilding quotes outside the calculator
func NewWarrantyQuote(cost float64, gapMonths int, detail string, premium bool) WarrantyQuote {
	return WarrantyQuote{cost: cost, gapMonths: gapMonths, detail: detail, premium: premium}
}

func (q WarrantyQuote) Cost() float64   { return q.cost }
func (q WarrantyQuote) GapMonths() int  { return q.gapMonths }
func (q WarrantyQuote) Detail() string  { return q.detail }
func (q WarrantyQuote) IsPremium() bool { return q.premium }

func (q WarrantyQuote) String() string {
	return fmt.Sprintf("Warranty[%.0f, %s]", q.cost, q.detail)
}

// WarrantyCalculator prices the extended coverage a dealer must fund when its own
// warranty outlives what is left of the factory warranty.
//
// Stateless; safe for concurrent use.
type WarrantyCalculator struct{}

func NewWarrantyCalculator() *WarrantyCalculator {
	return &WarrantyCalculator{}
}

// Quote computes the warranty liability for a vehicle sold today.
//
// The factory warranty ends FactoryWarrantyMonths after registration and only the part
// ending FactoryWarrantySafetyMonths earlier is relied upon. The dealer covers
// DealerWarrantyMonths from today. The uncovered gap, in 30-day months rounded up, picks a
// flat cost tier:
//
//	gap <= 12  -> 600
//	gap <= 18  -> 900
//	otherwise  -> 1200
//
// Premium trims (see IsPremiumTrim) pay 10% more.
func (c *WarrantyCalculator) Quote(registration *time.Time, model string, today time.Time) WarrantyQuote {
	if registration == nil {
		return WarrantyQuote{detail: warrantyDetailNoRegistration}
	}

	factoryEnd := registration.AddDate(0, FactoryWarrantyMonths, 0)
	factoryCutoff := factoryEnd.AddDate(0, -FactoryWarrantySafetyMonths, 0)
	dealerEnd := today.AddDate(0, DealerWarrantyMonths, 0)

	if !dealerEnd.After(factoryCutoff) {
		return WarrantyQuote{detail: warrantyDetailFactoryCovers}
	}

	gapMonths := gapInMonths(dealerEnd.Sub(factoryCutoff))
	cost := decimal.NewFromInt(baseWarrantyCost(gapMonths))

	premium := false
	if code, ok := ExtractPremiumCandidate(model); ok && IsPremiumTrim(code) {
		premium = true
		cost = roundUnits(cost.Mul(percentFactor(premiumSurchargePercent)))
	}

	detail := fmt.Sprintf("%dm", gapMonths)
	if premium {
		detail += warrantyDetailPremiumNote
	}

	return WarrantyQuote{
		cost:      cost.InexactFloat64(),
		gapMonths: gapMonths,
		detail:    detail,
		premium:   premium,
	}
}

func gapInMonths(gap time.Duration) int {
	month := time.Duration(WarrantyMonthDays) * 24 * time.Hour
	return int(math.Ceil(float64(gap) / float64(month)))
}

func baseWarrantyCost(gapMonths int) int64 {
	switch {
	case gapMonths <= warrantyShortGapMonths:
		return warrantyShortGapCost
	case gapMonths <= warrantyMediumGapMonths:
		return warrantyMediumGapCost
	default:
		return warrantyLongGapCost
	}
}

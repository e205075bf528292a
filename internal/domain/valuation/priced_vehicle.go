package valuation

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// PricedVehicle is a candidate vehicle evaluated against its market.
// All derived figures are computed once at construction.
type PricedVehicle struct {
	vehicle          *CandidateVehicle
	targetSalePrice  float64
	competitivePrice float64
	maxBid           *float64
	margin           float64
	marginPercent    float64
	warranty         WarrantyQuote
}

// NewPricedVehicle builds a priced vehicle; margin = competitive - target,
// margin percent is relative to the target sale price.
func NewPricedVehicle(
	vehicle *CandidateVehicle,
	targetSalePrice float64,
	competitivePrice float64,
	maxBid *float64,
	warranty WarrantyQuote,
) *PricedVehicle {
	target := decimal.NewFromFloat(targetSalePrice)
	margin := decimal.NewFromFloat(competitivePrice).Sub(target)

	marginPercent := 0.0
	if target.IsPositive() {
		marginPercent = margin.Div(target).Mul(decimal.NewFromInt(100)).InexactFloat64()
	}

	return &PricedVehicle{
		vehicle:          vehicle,
		targetSalePrice:  targetSalePrice,
		competitivePrice: competitivePrice,
		maxBid:           copyFloat(maxBid),
		margin:           margin.InexactFloat64(),
		marginPercent:    marginPercent,
		warranty:         warranty,
	}
}

func (p *PricedVehicle) Vehicle() *CandidateVehicle { return p.vehicle }
func (p *PricedVehicle) TargetSalePrice() float64   { return p.targetSalePrice }
func (p *PricedVehicle) CompetitivePrice() float64  { return p.competitivePrice }
func (p *PricedVehicle) Margin() float64            { return p.margin }
func (p *PricedVehicle) MarginPercent() float64     { return p.marginPercent }
func (p *PricedVehicle) Warranty() WarrantyQuote    { return p.warranty }

func (p *PricedVehicle) MaxBid() (float64, bool) {
	if p.maxBid == nil {
		return 0, false
	}
	return *p.maxBid, true
}

// IsProfitable reports whether the market pays more than the target sale price
func (p *PricedVehicle) IsProfitable() bool {
	return p.margin > 0
}

func (p *PricedVehicle) String() string {
	return fmt.Sprintf("Priced[%s, target=%.0f, competitive=%.0f, margin=%.2f%%]",
		p.vehicle.ID(), p.targetSalePrice, p.competitivePrice, p.marginPercent)
}

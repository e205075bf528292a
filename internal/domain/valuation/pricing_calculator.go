package valuation

import (
	"time"

	"github.com/shopspring/decimal"
)

// PricingCalculator turns acquisition costs into a required sale price and, in reverse,
// a market price into the highest bid that still meets the margin.
//
// This is a domain service with no infrastructure dependencies.
// Money arithmetic is decimal; results are rounded to whole currency units.
type PricingCalculator struct {
	warranty *WarrantyCalculator
}

func NewPricingCalculator(warranty *WarrantyCalculator) *PricingCalculator {
	if warranty == nil {
		warranty = NewWarrantyCalculator()
	}
	return &PricingCalculator{warranty: warranty}
}

// Warranty quotes the warranty liability of a vehicle sold on today
func (p *PricingCalculator) Warranty(v *CandidateVehicle, today time.Time) WarrantyQuote {
	return p.warranty.Quote(v.RegistrationDate(), v.Model(), today)
}

// TargetSalePrice computes the resale price that recovers every cost and the configured margin.
//
// Formula:
//
//	price = net exit price + damage + transport + structure + warranty
//	price = price × (1 + margin/100)   when margin > 0
//	price = price × 1.21               when the fiscal regime applies VAT
//
// Returns false when the vehicle has no net exit price.
func (p *PricingCalculator) TargetSalePrice(v *CandidateVehicle, cfg PricingConfig, today time.Time) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return p.targetSalePrice(v, cfg, p.Warranty(v, today))
}

func (p *PricingCalculator) targetSalePrice(v *CandidateVehicle, cfg PricingConfig, warranty WarrantyQuote) (float64, bool) {
	net, ok := v.NetExitPrice()
	if !ok {
		return 0, false
	}

	price := decimal.NewFromFloat(net).
		Add(decimal.NewFromFloat(v.DamageCost())).
		Add(decimal.NewFromFloat(cfg.TransportCost())).
		Add(decimal.NewFromFloat(cfg.StructureCost())).
		Add(decimal.NewFromFloat(warranty.Cost()))

	if cfg.MarginPercent() > 0 {
		price = price.Mul(percentFactor(cfg.MarginPercent()))
	}
	if v.FiscalRegime().AppliesVAT() {
		price = price.Mul(percentFactor(VATRatePercent))
	}

	return roundUnits(price).InexactFloat64(), true
}

// MaxBid computes the highest acquisition bid that keeps the configured margin when the
// vehicle is resold at its competitive market price.
//
// Steps, in order: subtract transport, structure and warranty; divide by (1 + margin/100)
// when margin > 0; subtract damage; divide by 1.21 when VAT applies.
//
// Returns false when the vehicle has no competitive price.
func (p *PricingCalculator) MaxBid(v *CandidateVehicle, cfg PricingConfig, today time.Time) (float64, bool) {
	if v == nil {
		return 0, false
	}
	return p.maxBid(v, cfg, p.Warranty(v, today))
}

func (p *PricingCalculator) maxBid(v *CandidateVehicle, cfg PricingConfig, warranty WarrantyQuote) (float64, bool) {
	competitive, ok := v.CompetitivePrice()
	if !ok {
		return 0, false
	}

	bid := decimal.NewFromFloat(competitive).
		Sub(decimal.NewFromFloat(cfg.TransportCost())).
		Sub(decimal.NewFromFloat(cfg.StructureCost())).
		Sub(decimal.NewFromFloat(warranty.Cost()))

	if cfg.MarginPercent() > 0 {
		bid = bid.Div(percentFactor(cfg.MarginPercent()))
	}
	bid = bid.Sub(decimal.NewFromFloat(v.DamageCost()))
	if v.FiscalRegime().AppliesVAT() {
		bid = bid.Div(percentFactor(VATRatePercent))
	}

	return roundUnits(bid).InexactFloat64(), true
}

// Price evaluates a vehicle in full: warranty, target price, bid and margin against the market.
func (p *PricingCalculator) Price(v *CandidateVehicle, cfg PricingConfig, today time.Time) (*PricedVehicle, bool) {
	if v == nil {
		return nil, false
	}

	warranty := p.Warranty(v, today)
	target, ok := p.targetSalePrice(v, cfg, warranty)
	if !ok {
		return nil, false
	}
	competitive, ok := v.CompetitivePrice()
	if !ok {
		return nil, false
	}

	var maxBid *float64
	if bid, ok := p.maxBid(v, cfg, warranty); ok {
		maxBid = &bid
	}

	return NewPricedVehicle(v, target, competitive, maxBid, warranty), true
}

// percentFactor returns 1 + percent/100
func percentFactor(percent float64) decimal.Decimal {
	return decimal.NewFromInt(1).Add(decimal.NewFromFloat(percent).Div(decimal.NewFromInt(100)))
}

// roundUnits rounds half up to a whole unit (2.5 -> 3, -2.5 -> -2)
func roundUnits(d decimal.Decimal) decimal.Decimal {
	return d.Add(decimal.NewFromFloat(0.5)).Floor()
}

package valuation

import (
	"fmt"
	"math"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
)

// PricingConfig holds the dealer's cost structure for reconditioning and resale.
// Immutable value object; passed explicitly to every pricing calculation.
type PricingConfig struct {
	transportCost float64
	structureCost float64
	marginPercent float64
}

// NewPricingConfig validates and creates a pricing configuration.
// All values must be finite and non-negative; marginPercent is a percentage (5 means 5%).
func NewPricingConfig(transportCost, structureCost, marginPercent float64) (PricingConfig, error) {
	values := []struct {
		field string
		value float64
	}{
		{"transport", transportCost},
		{"structure", structureCost},
		{"margin_pct", marginPercent},
	}
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			return PricingConfig{}, fmt.Errorf("%w: %w", ErrInvalidPricingConfig,
				shared.NewValidationError(v.field, "must be a finite number"))
		}
		if v.value < 0 {
			return PricingConfig{}, fmt.Errorf("%w: %w", ErrInvalidPricingConfig,
				shared.NewValidationError(v.field, "cannot be negative"))
		}
	}

	return PricingConfig{
		transportCost: transportCost,
		structureCost: structureCost,
		marginPercent: marginPercent,
	}, nil
}

// DefaultPricingConfig has no costs and no margin
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{}
}

func (c PricingConfig) TransportCost() float64 { return c.transportCost }
func (c PricingConfig) StructureCost() float64 { return c.structureCost }
func (c PricingConfig) MarginPercent() float64 { return c.marginPercent }

func (c PricingConfig) String() string {
	return fmt.Sprintf("PricingConfig[transport=%.2f, structure=%.2f, margin=%.2f%%]",
		c.transportCost, c.structureCost, c.marginPercent)
}

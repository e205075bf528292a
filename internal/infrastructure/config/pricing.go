package config

// PricingConfig holds the pricing parameters used when no CLI flag overrides them.
// Unset values are zero: no costs and no margin.
type PricingConfig struct {
	// Logistics cost per vehicle, in euros
	TransportCost float64 `mapstructure:"transport_cost" validate:"min=0"`

	// Fixed overhead per vehicle, in euros
	StructureCost float64 `mapstructure:"structure_cost" validate:"min=0"`

	// Required margin as a percentage of the target sale price (5 = 5 %)
	MarginPercent float64 `mapstructure:"margin_pct" validate:"min=0,max=100"`
}

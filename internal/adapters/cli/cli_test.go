package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/dtos"
	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/config"
)

func TestResolvePricingConfig_FlagsOverrideConfig(t *testing.T) {
	cmd := NewRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--margin", "5"}))

	pricing, err := resolvePricingConfig(cmd, config.PricingConfig{
		TransportCost: 300,
		StructureCost: 200,
		MarginPercent: 8,
	})
	require.NoError(t, err)

	assert.Equal(t, 300.0, pricing.TransportCost())
	assert.Equal(t, 200.0, pricing.StructureCost())
	assert.Equal(t, 5.0, pricing.MarginPercent())
}

func TestResolvePricingConfig_RejectsNegativeFlag(t *testing.T) {
	cmd := NewRootCommand()
	require.NoError(t, cmd.ParseFlags([]string{"--transport=-1"}))

	_, err := resolvePricingConfig(cmd, config.PricingConfig{})
	assert.Error(t, err)
}

func TestMaskPassword(t *testing.T) {
	assert.Equal(t,
		"postgres://pricing:xxxxx@db:5432/acquisition_pricing",
		maskPassword("postgres://pricing:secret@db:5432/acquisition_pricing"))
	assert.Equal(t, "postgres://db:5432/acquisition_pricing", maskPassword("postgres://db:5432/acquisition_pricing"))
}

func TestFormatEuros(t *testing.T) {
	assert.Equal(t, "27.570 €", formatEuros(27569.6))
	assert.Equal(t, "0 €", formatEuros(0))
}

func TestTreeFormatter_FormatBucket(t *testing.T) {
	km := 45000
	bid := 22275.0
	groups := []*dtos.ModelGroupDTO{
		{
			Model: "Serie 3 320d",
			Vehicles: []*dtos.OpportunityDTO{
				{LotID: "L-1", MileageKm: &km, TargetSalePrice: 27570, CompetitivePrice: 30000, Margin: 2430, MarginPercent: 8.1, MaxBid: &bid},
				{LotID: "L-2", TargetSalePrice: 25000, CompetitivePrice: 26000, Margin: 1000, MarginPercent: 3.8},
			},
		},
		{
			Model:    "X1 sDrive18i",
			Vehicles: []*dtos.OpportunityDTO{{LotID: "L-3", TargetSalePrice: 20000, CompetitivePrice: 23000, Margin: 3000, MarginPercent: 13}},
		},
	}

	out := NewTreeFormatter(false, false).FormatBucket("Not in stock", groups)

	assert.Equal(t, `Not in stock (3)
├── Serie 3 320d (2)
│   ├── L-1 45.000 km  target 27.570 €  market 30.000 €  margin 2.430 € (8.1%)  bid 22.275 €
│   └── L-2 ? km  target 25.000 €  market 26.000 €  margin 1.000 € (3.8%)  bid -
└── X1 sDrive18i (1)
    └── L-3 ? km  target 20.000 €  market 23.000 €  margin 3.000 € (13.0%)  bid -
`, out)
}

func TestTreeFormatter_EmptyBucket(t *testing.T) {
	out := NewTreeFormatter(false, false).FormatBucket("In stock", nil)
	assert.Equal(t, "In stock (0)\n└── (none)\n", out)
}

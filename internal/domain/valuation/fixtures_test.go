package valuation_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

var testToday = time.Date(2025, time.June, 15, 10, 0, 0, 0, time.UTC)

func datePtr(year int, month time.Month, day int) *time.Time {
	t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return &t
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func mustVehicle(t *testing.T, data valuation.CandidateVehicleData) *valuation.CandidateVehicle {
	t.Helper()
	if data.ID == "" {
		data.ID = "veh-1"
	}
	v, err := valuation.NewCandidateVehicle(data)
	require.NoError(t, err)
	return v
}

func mustConfig(t *testing.T, transport, structure, margin float64) valuation.PricingConfig {
	t.Helper()
	cfg, err := valuation.NewPricingConfig(transport, structure, margin)
	require.NoError(t, err)
	return cfg
}

package valuation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundUnits_HalfTowardPositiveInfinity(t *testing.T) {
	tests := []struct {
		in   float64
		want int64
	}{
		{2.5, 3},
		{2.49, 2},
		{-2.5, -2},
		{-2.51, -3},
		{28840.35, 28840},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, roundUnits(decimal.NewFromFloat(tt.in)).IntPart(), "%v", tt.in)
	}
}

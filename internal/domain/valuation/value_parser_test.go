package valuation_test

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want float64
	}{
		{"spanish thousands with euro", "27.570 €", 27570},
		{"decimal comma without space", "1.234,50€", 1234.5},
		{"dollar prefix", "$ 1.000", 1000},
		{"pound suffix", "15.900£", 15900},
		{"plain integer text", "18500", 18500},
		{"trailing garbage keeps numeric prefix", "12,5 negociable", 12.5},
		{"integer passes through", 15000, 15000},
		{"float passes through", 15999.99, 15999.99},
		{"json number", json.Number("123.5"), 123.5},
		{"empty string", "", 0},
		{"text without digits", "consultar", 0},
		{"nil", nil, 0},
		{"unsupported type", []string{"1"}, 0},
		{"not a number", math.NaN(), 0},
		{"infinity", math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuation.ParsePrice(tt.raw))
		})
	}
}

func TestParsePriceValue_DistinguishesZeroFromInvalid(t *testing.T) {
	zero := valuation.ParsePriceValue("0 €")
	invalid := valuation.ParsePriceValue("sin precio")

	assert.True(t, zero.IsValid())
	assert.Equal(t, 0.0, zero.OrZero())

	assert.False(t, invalid.IsValid())
	assert.Equal(t, 0.0, invalid.OrZero())

	_, ok := invalid.Value()
	assert.False(t, ok)
}

func TestParseMileage(t *testing.T) {
	tests := []struct {
		name string
		raw  any
		want int
	}{
		{"spanish thousands with unit", "45.000 km", 45000},
		{"uppercase unit without space", "44.986KM", 44986},
		{"small value", "500 km", 500},
		{"decimal part is dropped", "12,5", 12},
		{"integer passes through", 38000, 38000},
		{"float is truncated", 45000.9, 45000},
		{"empty", "", 0},
		{"nil", nil, 0},
		{"no digits", "sin datos", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, valuation.ParseMileage(tt.raw))
		})
	}
}

func TestParseMileageValue_Invalid(t *testing.T) {
	assert.False(t, valuation.ParseMileageValue("n/d").IsValid())
	assert.True(t, valuation.ParseMileageValue("0 km").IsValid())
}

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "27.570 €", valuation.FormatPrice(27570))
	assert.Equal(t, "1.234,5 €", valuation.FormatPrice(1234.5))
	assert.Equal(t, "999 €", valuation.FormatPrice(999))
	assert.Equal(t, "1.000.000 €", valuation.FormatPrice(1000000))
	assert.Equal(t, "-1.500 €", valuation.FormatPrice(-1500))
}

func TestFormatMileage(t *testing.T) {
	assert.Equal(t, "45.000 km", valuation.FormatMileage(45000))
	assert.Equal(t, "500 km", valuation.FormatMileage(500))
}

func TestParsePrice_RoundTripsThroughFormat(t *testing.T) {
	inputs := []string{"27.570 €", "1.234,5 €", "999 €", "1.000.000 €", "18.250,75€", "$ 12.000"}

	for _, input := range inputs {
		t.Run(input, func(t *testing.T) {
			parsed := valuation.ParsePrice(input)
			assert.Equal(t, parsed, valuation.ParsePrice(valuation.FormatPrice(parsed)))
		})
	}
}

func TestParse_NeverPanicsOnDirtyInput(t *testing.T) {
	inputs := []any{"", " ", "€", ",", ".", "-", "+", "--1", "1e309", "\x00", struct{}{}, map[string]int{}, true, (*int)(nil)}

	for _, input := range inputs {
		assert.NotPanics(t, func() {
			valuation.ParsePrice(input)
			valuation.ParseMileage(input)
		})
	}
}

package valuation_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

func TestExtractTrimCode(t *testing.T) {
	tests := []struct {
		model      string
		wantRaw    string
		wantDigits string
		wantEngine int
	}{
		{"320d", "320d", "320", 20},
		{"BMW 118d Sport", "118d", "118", 18},
		{"M135i xDrive", "M135i", "135", 35},
		{"X5 40d", "40d", "40", 40},
		{"520D Touring", "520D", "520", 20},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			code, ok := valuation.ExtractTrimCode(tt.model)

			require.True(t, ok)
			assert.Equal(t, tt.wantRaw, code.Raw())
			assert.Equal(t, tt.wantDigits, code.Digits())
			assert.Equal(t, tt.wantEngine, code.EngineCode())
		})
	}
}

func TestExtractTrimCode_NoToken(t *testing.T) {
	for _, model := range []string{"", "Serie 3 Touring", "i4 eDrive", "X1"} {
		_, ok := valuation.ExtractTrimCode(model)
		assert.False(t, ok, model)
	}
}

// Three-digit codes are judged on their last two digits (the engine), not the whole run.
// Read as a whole number, "118d" (118) and "116i" (116) would clear the threshold of 30;
// here they stay below it. The commercial department has to confirm this reading.
func TestIsPremiumTrim(t *testing.T) {
	tests := []struct {
		model string
		want  bool
	}{
		{"320d", false},
		{"118d", false},
		{"116i", false},
		{"330i", true},
		{"M340i xDrive", true},
		{"M135i", true},
		{"X5 xDrive40d", true},
		{"520d", false},
		{"530e", true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			code, ok := valuation.ExtractPremiumCandidate(tt.model)

			require.True(t, ok)
			assert.Equal(t, tt.want, valuation.IsPremiumTrim(code))
		})
	}
}

func TestIsPremiumTrim_NoCandidate(t *testing.T) {
	_, ok := valuation.ExtractPremiumCandidate("Serie 1")
	assert.False(t, ok)

	assert.False(t, valuation.IsPremiumTrim(valuation.TrimCode{}))
}

func TestFiscalRegime_AppliesVAT(t *testing.T) {
	assert.True(t, valuation.FiscalRegime("IVA").AppliesVAT())
	assert.True(t, valuation.FiscalRegime("Régimen iva deducible").AppliesVAT())
	assert.False(t, valuation.FiscalRegime("REBU").AppliesVAT())
	assert.False(t, valuation.FiscalRegime("").AppliesVAT())
}

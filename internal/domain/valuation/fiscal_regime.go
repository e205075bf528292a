package valuation

import "strings"

// FiscalRegime is the free-text tax regime of an auction lot ("IVA", "REBU", "Régimen IVA deducible").
type FiscalRegime string

// AppliesVAT reports whether the sale carries separately charged VAT.
// Anything without the IVA token is treated as the margin (REBU) scheme.
func (r FiscalRegime) AppliesVAT() bool {
	return strings.Contains(strings.ToUpper(string(r)), "IVA")
}

func (r FiscalRegime) String() string {
	return string(r)
}

package valuation

// Business policy values for comparable matching, warranty accrual and opportunity
// classification. They are fixed by the commercial department and have no documented
// derivation; changing one is a policy change, not a bug fix.
const (
	// YearWindow is the accepted registration-year distance between a subject and a comparable.
	YearWindow = 1

	// MileageWindowKm is the accepted mileage distance between a subject and a comparable.
	MileageWindowKm = 30000

	// FactoryWarrantyMonths is the manufacturer warranty length counted from registration.
	FactoryWarrantyMonths = 36

	// FactoryWarrantySafetyMonths is subtracted from the factory warranty end before comparing.
	FactoryWarrantySafetyMonths = 6

	// DealerWarrantyMonths is the coverage the dealer commits to from the day of sale.
	DealerWarrantyMonths = 24

	// WarrantyMonthDays is the fixed month length used to measure the coverage gap.
	WarrantyMonthDays = 30

	// PremiumEngineCode is the smallest engine code treated as a premium trim.
	PremiumEngineCode = 30

	// VATRatePercent is the Spanish general VAT rate applied to VAT-regime vehicles.
	VATRatePercent = 21

	// MaxOpportunityMileageKm excludes vehicles above this mileage from opportunities.
	MaxOpportunityMileageKm = 115000

	// MinStockSavings is the saving over a listed stock unit needed to flag an in-stock model.
	MinStockSavings = 500

	// CompetitiveDiscountPercent positions the competitive price below the market average.
	CompetitiveDiscountPercent = 2
)

// Warranty cost tiers, in currency units, by coverage gap in months.
const (
	warrantyShortGapMonths  = 12
	warrantyMediumGapMonths = 18

	warrantyShortGapCost  = 600
	warrantyMediumGapCost = 900
	warrantyLongGapCost   = 1200

	premiumSurchargePercent = 10
)

package dtos

import (
	"sort"
	"time"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// OpportunityDTO is one vehicle worth bidding on
type OpportunityDTO struct {
	VehicleID        string
	LotID            string
	Model            string
	MileageKm        *int
	TargetSalePrice  float64
	CompetitivePrice float64
	Margin           float64
	MarginPercent    float64
	MaxBid           *float64
	WarrantyCost     float64
	WarrantyDetail   string
}

// ModelGroupDTO holds the opportunities of one model, best margin first
type ModelGroupDTO struct {
	Model    string
	Vehicles []*OpportunityDTO
}

// WarrantyDTO is the warranty liability of a vehicle
type WarrantyDTO struct {
	Cost      float64
	GapMonths int
	Detail    string
	Premium   bool
}

// ComparableDTO is a market listing used as a comparable
type ComparableDTO struct {
	Model           string
	Year            int
	Price           float64
	MileageKm       int
	Dealer          string
	URL             string
	NewPrice        *float64
	DiscountPercent *float64
	DaysListed      int
	PriceDropCount  int
	Status          string
}

// MarketEstimateDTO summarizes the comparable market
type MarketEstimateDTO struct {
	Count                  int
	AveragePrice           float64
	MinPrice               float64
	MaxPrice               float64
	CompetitivePrice       float64
	AverageMileageKm       int
	AverageDiscountPercent *float64
}

// VehicleValuationDTO is the full valuation of one vehicle
type VehicleValuationDTO struct {
	VehicleID        string
	LotID            string
	Brand            string
	Series           string
	Model            string
	RegistrationDate *time.Time
	MileageKm        *int
	NetExitPrice     *float64
	DamageCost       float64
	FiscalRegime     string
	AppliesVAT       bool
	Warranty         WarrantyDTO
	TargetSalePrice  *float64
	CompetitivePrice *float64
	MaxBid           *float64
	Strategy         string
	Comparables      []*ComparableDTO
	Market           *MarketEstimateDTO
}

// RecalculationStats counts the outcome of a market price recalculation run
type RecalculationStats struct {
	Exact    int
	Partial  int
	NotFound int
	Updated  int
	Failed   int
}

// ToOpportunityDTO converts a priced vehicle
func ToOpportunityDTO(p *valuation.PricedVehicle) *OpportunityDTO {
	v := p.Vehicle()
	dto := &OpportunityDTO{
		VehicleID:        v.ID(),
		LotID:            v.LotID(),
		Model:            v.Model(),
		TargetSalePrice:  p.TargetSalePrice(),
		CompetitivePrice: p.CompetitivePrice(),
		Margin:           p.Margin(),
		MarginPercent:    p.MarginPercent(),
		WarrantyCost:     p.Warranty().Cost(),
		WarrantyDetail:   p.Warranty().Detail(),
	}
	if km, ok := v.MileageKm(); ok {
		dto.MileageKm = &km
	}
	if bid, ok := p.MaxBid(); ok {
		dto.MaxBid = &bid
	}
	return dto
}

// ToModelGroups converts a classifier bucket into groups sorted by model name.
// The order of vehicles inside each group is preserved.
func ToModelGroups(bucket map[string][]*valuation.PricedVehicle) []*ModelGroupDTO {
	groups := make([]*ModelGroupDTO, 0, len(bucket))
	for model, vehicles := range bucket {
		group := &ModelGroupDTO{Model: model, Vehicles: make([]*OpportunityDTO, 0, len(vehicles))}
		for _, v := range vehicles {
			group.Vehicles = append(group.Vehicles, ToOpportunityDTO(v))
		}
		groups = append(groups, group)
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Model < groups[j].Model
	})
	return groups
}

// ToWarrantyDTO converts a warranty quote
func ToWarrantyDTO(q valuation.WarrantyQuote) WarrantyDTO {
	return WarrantyDTO{
		Cost:      q.Cost(),
		GapMonths: q.GapMonths(),
		Detail:    q.Detail(),
		Premium:   q.IsPremium(),
	}
}

// ToComparableDTOs converts processed comparables
func ToComparableDTOs(listings []valuation.ComparableListing) []*ComparableDTO {
	result := make([]*ComparableDTO, 0, len(listings))
	for _, l := range listings {
		dto := &ComparableDTO{
			Model:          l.Model(),
			Year:           l.Year(),
			Price:          l.Price(),
			MileageKm:      l.MileageKm(),
			Dealer:         l.Dealer(),
			URL:            l.URL(),
			DaysListed:     l.DaysListed(),
			PriceDropCount: l.PriceDropCount(),
			Status:         string(l.Status()),
		}
		if newPrice, ok := l.NewPrice(); ok {
			dto.NewPrice = &newPrice
		}
		if discount, ok := l.DiscountPercent(); ok {
			dto.DiscountPercent = &discount
		}
		result = append(result, dto)
	}
	return result
}

// ToMarketEstimateDTO converts a market estimate
func ToMarketEstimateDTO(e valuation.MarketEstimate) *MarketEstimateDTO {
	dto := &MarketEstimateDTO{
		Count:            e.Count(),
		AveragePrice:     e.AveragePrice(),
		MinPrice:         e.MinPrice(),
		MaxPrice:         e.MaxPrice(),
		CompetitivePrice: e.CompetitivePrice(),
		AverageMileageKm: e.AverageMileageKm(),
	}
	if discount, ok := e.AverageDiscountPercent(); ok {
		dto.AverageDiscountPercent = &discount
	}
	return dto
}

// CountVehicles returns the number of vehicles across groups
func CountVehicles(groups []*ModelGroupDTO) int {
	total := 0
	for _, g := range groups {
		total += len(g.Vehicles)
	}
	return total
}

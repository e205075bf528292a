package valuation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
)

// CandidateVehicleData carries the raw fields of an auction lot.
// Optional values are pointers; a zero price or mileage is treated as missing,
// matching how upstream data marks unknown values.
type CandidateVehicleData struct {
	ID               string
	LotID            string
	Brand            string
	Series           string
	Model            string
	RegistrationDate *time.Time
	MileageKm        *int
	NetExitPrice     *float64
	DamageCost       float64
	FiscalRegime     string
	EquipmentPercent float64
	Options          string
	CompetitivePrice *float64
	MarketAverage    *float64
	CompetitorCount  int
	LastMarketSearch *time.Time
}

// CandidateVehicle is an immutable auction lot considered for acquisition.
type CandidateVehicle struct {
	id               string
	lotID            string
	brand            string
	series           string
	model            string
	registrationDate *time.Time
	mileageKm        *int
	netExitPrice     *float64
	damageCost       float64
	fiscalRegime     FiscalRegime
	equipmentPercent float64
	options          string
	competitivePrice *float64
	marketAverage    *float64
	competitorCount  int
	lastMarketSearch *time.Time
}

// NewCandidateVehicle validates raw lot data and builds an immutable vehicle.
//
// Returns error if:
//   - id is empty
//   - mileage or any price is negative or not a finite number
//   - damage cost is not a finite number (a negative damage is a credit and is accepted)
//   - competitor count is negative
func NewCandidateVehicle(data CandidateVehicleData) (*CandidateVehicle, error) {
	if strings.TrimSpace(data.ID) == "" {
		return nil, invalidVehicle("id", "vehicle id required")
	}
	if data.MileageKm != nil && *data.MileageKm < 0 {
		return nil, invalidVehicle("mileage", "mileage cannot be negative")
	}
	if err := checkAmount("net_exit_price", data.NetExitPrice); err != nil {
		return nil, err
	}
	if math.IsNaN(data.DamageCost) || math.IsInf(data.DamageCost, 0) {
		return nil, invalidVehicle("damage_cost", "must be a finite number")
	}
	if err := checkAmount("competitive_price", data.CompetitivePrice); err != nil {
		return nil, err
	}
	if err := checkAmount("market_average", data.MarketAverage); err != nil {
		return nil, err
	}
	if data.CompetitorCount < 0 {
		return nil, invalidVehicle("competitor_count", "competitor count cannot be negative")
	}

	return &CandidateVehicle{
		id:               data.ID,
		lotID:            data.LotID,
		brand:            data.Brand,
		series:           data.Series,
		model:            data.Model,
		registrationDate: copyTime(data.RegistrationDate),
		mileageKm:        positiveInt(data.MileageKm),
		netExitPrice:     positiveFloat(data.NetExitPrice),
		damageCost:       data.DamageCost,
		fiscalRegime:     FiscalRegime(data.FiscalRegime),
		equipmentPercent: data.EquipmentPercent,
		options:          data.Options,
		competitivePrice: positiveFloat(data.CompetitivePrice),
		marketAverage:    positiveFloat(data.MarketAverage),
		competitorCount:  data.CompetitorCount,
		lastMarketSearch: copyTime(data.LastMarketSearch),
	}, nil
}

func (v *CandidateVehicle) ID() string                 { return v.id }
func (v *CandidateVehicle) LotID() string              { return v.lotID }
func (v *CandidateVehicle) Brand() string              { return v.brand }
func (v *CandidateVehicle) Series() string             { return v.series }
func (v *CandidateVehicle) Model() string              { return v.model }
func (v *CandidateVehicle) DamageCost() float64        { return v.damageCost }
func (v *CandidateVehicle) FiscalRegime() FiscalRegime { return v.fiscalRegime }
func (v *CandidateVehicle) EquipmentPercent() float64  { return v.equipmentPercent }
func (v *CandidateVehicle) Options() string            { return v.options }
func (v *CandidateVehicle) CompetitorCount() int       { return v.competitorCount }

// RegistrationDate returns a copy of the first registration date, or nil when unknown
func (v *CandidateVehicle) RegistrationDate() *time.Time {
	return copyTime(v.registrationDate)
}

// RegistrationYear returns the registration year when the date is known
func (v *CandidateVehicle) RegistrationYear() (int, bool) {
	if v.registrationDate == nil {
		return 0, false
	}
	return v.registrationDate.Year(), true
}

func (v *CandidateVehicle) MileageKm() (int, bool) {
	if v.mileageKm == nil {
		return 0, false
	}
	return *v.mileageKm, true
}

func (v *CandidateVehicle) NetExitPrice() (float64, bool) {
	if v.netExitPrice == nil {
		return 0, false
	}
	return *v.netExitPrice, true
}

// CompetitivePrice returns the market price the vehicle must beat, when one has been estimated
func (v *CandidateVehicle) CompetitivePrice() (float64, bool) {
	if v.competitivePrice == nil {
		return 0, false
	}
	return *v.competitivePrice, true
}

func (v *CandidateVehicle) MarketAverage() (float64, bool) {
	if v.marketAverage == nil {
		return 0, false
	}
	return *v.marketAverage, true
}

func (v *CandidateVehicle) LastMarketSearch() *time.Time {
	return copyTime(v.lastMarketSearch)
}

// WithMarketEstimate returns a copy of the vehicle carrying a freshly computed market estimate.
// The receiver is left unchanged.
func (v *CandidateVehicle) WithMarketEstimate(estimate MarketEstimate, at time.Time) *CandidateVehicle {
	clone := *v
	competitive := estimate.CompetitivePrice()
	average := estimate.AveragePrice()
	clone.competitivePrice = positiveFloat(&competitive)
	clone.marketAverage = positiveFloat(&average)
	clone.competitorCount = estimate.Count()
	clone.lastMarketSearch = &at
	return &clone
}

// Data returns the raw representation, used by repositories to persist the vehicle
func (v *CandidateVehicle) Data() CandidateVehicleData {
	return CandidateVehicleData{
		ID:               v.id,
		LotID:            v.lotID,
		Brand:            v.brand,
		Series:           v.series,
		Model:            v.model,
		RegistrationDate: copyTime(v.registrationDate),
		MileageKm:        copyInt(v.mileageKm),
		NetExitPrice:     copyFloat(v.netExitPrice),
		DamageCost:       v.damageCost,
		FiscalRegime:     string(v.fiscalRegime),
		EquipmentPercent: v.equipmentPercent,
		Options:          v.options,
		CompetitivePrice: copyFloat(v.competitivePrice),
		MarketAverage:    copyFloat(v.marketAverage),
		CompetitorCount:  v.competitorCount,
		LastMarketSearch: copyTime(v.lastMarketSearch),
	}
}

func (v *CandidateVehicle) String() string {
	return fmt.Sprintf("Vehicle[%s, lot=%s, model=%q]", v.id, v.lotID, v.model)
}

func invalidVehicle(field, message string) error {
	return fmt.Errorf("%w: %w", ErrInvalidVehicle, shared.NewValidationError(field, message))
}

func checkAmount(field string, value *float64) error {
	if value == nil {
		return nil
	}
	if math.IsNaN(*value) || math.IsInf(*value, 0) {
		return invalidVehicle(field, "must be a finite number")
	}
	if *value < 0 {
		return invalidVehicle(field, "cannot be negative")
	}
	return nil
}

func positiveInt(v *int) *int {
	if v == nil || *v <= 0 {
		return nil
	}
	n := *v
	return &n
}

func positiveFloat(v *float64) *float64 {
	if v == nil || *v <= 0 {
		return nil
	}
	f := *v
	return &f
}

func copyInt(v *int) *int {
	if v == nil {
		return nil
	}
	n := *v
	return &n
}

func copyFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	f := *v
	return &f
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

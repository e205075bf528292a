package helpers

import (
	"testing"
	"time"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// ReferenceDate is the "today" used by pricing fixtures
var ReferenceDate = time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)

// VehicleOption tweaks fixture data
type VehicleOption func(*valuation.CandidateVehicleData)

func WithModel(series, model string) VehicleOption {
	return func(d *valuation.CandidateVehicleData) {
		d.Series = series
		d.Model = model
	}
}

func WithRegistration(t time.Time) VehicleOption {
	return func(d *valuation.CandidateVehicleData) { d.RegistrationDate = &t }
}

func WithMileage(km int) VehicleOption {
	return func(d *valuation.CandidateVehicleData) { d.MileageKm = &km }
}

func WithNetExitPrice(price float64) VehicleOption {
	return func(d *valuation.CandidateVehicleData) { d.NetExitPrice = &price }
}

func WithoutNetExitPrice() VehicleOption {
	return func(d *valuation.CandidateVehicleData) { d.NetExitPrice = nil }
}

func WithCompetitivePrice(price float64) VehicleOption {
	return func(d *valuation.CandidateVehicleData) { d.CompetitivePrice = &price }
}

func WithFiscalRegime(regime string) VehicleOption {
	return func(d *valuation.CandidateVehicleData) { d.FiscalRegime = regime }
}

func WithDamage(cost float64) VehicleOption {
	return func(d *valuation.CandidateVehicleData) { d.DamageCost = cost }
}

// NewCandidateVehicle builds the reference vehicle: a 320d registered 2023-03-10 with
// 45000 km, a net exit price of 20000 and VAT regime, then applies opts
func NewCandidateVehicle(t *testing.T, id string, opts ...VehicleOption) *valuation.CandidateVehicle {
	t.Helper()
	registered := time.Date(2023, 3, 10, 0, 0, 0, 0, time.UTC)
	km := 45000
	net := 20000.0
	data := valuation.CandidateVehicleData{
		ID:               id,
		LotID:            "L-" + id,
		Brand:            "BMW",
		Series:           "Serie 3",
		Model:            "Serie 3 320d",
		RegistrationDate: &registered,
		MileageKm:        &km,
		NetExitPrice:     &net,
		FiscalRegime:     "IVA",
	}
	for _, opt := range opts {
		opt(&data)
	}
	vehicle, err := valuation.NewCandidateVehicle(data)
	if err != nil {
		t.Fatalf("invalid vehicle fixture %s: %v", id, err)
	}
	return vehicle
}

// NewListing builds an active competitor listing
func NewListing(id, model string, price any, mileage any, year string) valuation.CompetitorListing {
	detected := ReferenceDate.AddDate(0, 0, -10)
	return valuation.CompetitorListing{
		ID:         id,
		Price:      price,
		Mileage:    mileage,
		Model:      model,
		Year:       year,
		Dealer:     "Dealer " + id,
		Status:     valuation.ListingStatusActive,
		DetectedAt: &detected,
	}
}

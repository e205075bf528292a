package valuation

import "errors"

// Domain errors for valuation operations

var (
	// ErrVehicleNotFound is returned when a candidate vehicle cannot be found
	ErrVehicleNotFound = errors.New("candidate vehicle not found")

	// ErrInvalidPricingConfig is returned when a pricing configuration value is negative or not a number
	ErrInvalidPricingConfig = errors.New("invalid pricing configuration")

	// ErrInvalidVehicle is returned when candidate vehicle data fails validation
	ErrInvalidVehicle = errors.New("invalid candidate vehicle")

	// ErrEmptyWorkbook is returned when an imported workbook has no data rows
	ErrEmptyWorkbook = errors.New("workbook has no vehicle rows")
)

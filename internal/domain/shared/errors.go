package shared

import "fmt"

// DomainError is the base error type for all domain errors
type DomainError struct {
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

func NewDomainError(message string) *DomainError {
	return &DomainError{Message: message}
}

// Validation error

type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Vehicle errors

type VehicleError struct {
	*DomainError
	VehicleID string
}

func NewVehicleError(vehicleID, message string) *VehicleError {
	return &VehicleError{
		DomainError: &DomainError{Message: fmt.Sprintf("vehicle %s: %s", vehicleID, message)},
		VehicleID:   vehicleID,
	}
}

// WorkbookRowError describes a single rejected row of an imported workbook.
// Row numbers are 1-based and include the header row, as a spreadsheet user sees them.
type WorkbookRowError struct {
	Row     int
	Message string
}

func (e *WorkbookRowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Message)
}

func NewWorkbookRowError(row int, message string) *WorkbookRowError {
	return &WorkbookRowError{Row: row, Message: message}
}

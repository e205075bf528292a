package valuation

import "strings"

// StockStatus is the state of a unit in the dealer's own inventory
type StockStatus string

const (
	StockStatusAvailable     StockStatus = "available"
	StockStatusInPreparation StockStatus = "in_preparation"
	StockStatusReserved      StockStatus = "reserved"
	StockStatusSold          StockStatus = "sold"
)

// IsListed reports whether a unit in this status competes with a new acquisition
func (s StockStatus) IsListed() bool {
	return s == StockStatusAvailable || s == StockStatusInPreparation
}

// StockVehicle is a unit currently offered from the dealer's own inventory
type StockVehicle struct {
	Model       string
	ListedPrice float64
	Status      StockStatus
}

// StockIndex answers "do we already sell this model, and at what price?"
// Lookups are case-insensitive on the trimmed model name; the first unit listed wins.
type StockIndex struct {
	byModel map[string]StockVehicle
	size    int
}

// NewStockIndex indexes stock units by normalized model. Units without a model are ignored.
func NewStockIndex(units []StockVehicle) StockIndex {
	index := StockIndex{byModel: make(map[string]StockVehicle, len(units))}
	for _, unit := range units {
		key := normalizeModel(unit.Model)
		if key == "" {
			continue
		}
		if _, exists := index.byModel[key]; !exists {
			index.byModel[key] = unit
		}
		index.size++
	}
	return index
}

// Lookup finds the stock unit listed under model
func (i StockIndex) Lookup(model string) (StockVehicle, bool) {
	key := normalizeModel(model)
	if key == "" || i.byModel == nil {
		return StockVehicle{}, false
	}
	unit, ok := i.byModel[key]
	return unit, ok
}

// Len returns the number of indexed stock units
func (i StockIndex) Len() int {
	return i.size
}

func normalizeModel(model string) string {
	return strings.ToLower(strings.TrimSpace(model))
}

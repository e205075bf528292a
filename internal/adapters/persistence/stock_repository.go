package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// StockRepositoryGORM reads the dealer's inventory using GORM
type StockRepositoryGORM struct {
	db *gorm.DB
}

// NewStockRepository creates a new GORM-based stock repository
func NewStockRepository(db *gorm.DB) *StockRepositoryGORM {
	return &StockRepositoryGORM{db: db}
}

// ListAvailable returns units that are available or in preparation, oldest first
func (r *StockRepositoryGORM) ListAvailable(ctx context.Context) ([]valuation.StockVehicle, error) {
	var records []StockVehicleModel
	err := r.db.WithContext(ctx).
		Where("status IN ?", []string{
			string(valuation.StockStatusAvailable),
			string(valuation.StockStatusInPreparation),
		}).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list stock vehicles: %w", err)
	}

	units := make([]valuation.StockVehicle, len(records))
	for i, record := range records {
		units[i] = valuation.StockVehicle{
			Model:       record.Model,
			ListedPrice: record.ListedPrice,
			Status:      valuation.StockStatus(record.Status),
		}
	}
	return units, nil
}

// Add inserts stock units
func (r *StockRepositoryGORM) Add(ctx context.Context, units []valuation.StockVehicle) error {
	if len(units) == 0 {
		return nil
	}
	records := make([]StockVehicleModel, len(units))
	for i, unit := range units {
		records[i] = StockVehicleModel{
			Model:       unit.Model,
			ListedPrice: unit.ListedPrice,
			Status:      string(unit.Status),
		}
	}
	if err := r.db.WithContext(ctx).Create(&records).Error; err != nil {
		return fmt.Errorf("failed to add stock vehicles: %w", err)
	}
	return nil
}

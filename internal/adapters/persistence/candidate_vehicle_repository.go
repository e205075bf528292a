package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrescamacho/acquisition-pricing/internal/application/logging"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// CandidateVehicleRepositoryGORM implements candidate vehicle persistence using GORM
type CandidateVehicleRepositoryGORM struct {
	db *gorm.DB
}

// NewCandidateVehicleRepository creates a new GORM-based candidate vehicle repository
func NewCandidateVehicleRepository(db *gorm.DB) *CandidateVehicleRepositoryGORM {
	return &CandidateVehicleRepositoryGORM{db: db}
}

// ListAll returns every stored candidate in import order.
// A row that no longer passes vehicle validation is logged and skipped.
func (r *CandidateVehicleRepositoryGORM) ListAll(ctx context.Context) ([]*valuation.CandidateVehicle, error) {
	var records []CandidateVehicleModel
	err := r.db.WithContext(ctx).
		Order("created_at ASC").
		Order("lot_id ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate vehicles: %w", err)
	}

	vehicles := make([]*valuation.CandidateVehicle, 0, len(records))
	for i := range records {
		vehicle, err := candidateFromModel(&records[i])
		if err != nil {
			logging.LoggerFromContext(ctx).Warn("skipping stored candidate vehicle",
				"vehicle_id", records[i].ID,
				"lot_id", records[i].LotID,
				"error", err)
			continue
		}
		vehicles = append(vehicles, vehicle)
	}
	return vehicles, nil
}

// FindByID returns valuation.ErrVehicleNotFound when no row has the given id
func (r *CandidateVehicleRepositoryGORM) FindByID(ctx context.Context, id string) (*valuation.CandidateVehicle, error) {
	var record CandidateVehicleModel
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", valuation.ErrVehicleNotFound, id)
		}
		return nil, fmt.Errorf("failed to find candidate vehicle: %w", err)
	}
	return candidateFromModel(&record)
}

// SaveAll upserts a batch of vehicles in one transaction
// Re-importing a lot with the same id replaces its previous row
func (r *CandidateVehicleRepositoryGORM) SaveAll(ctx context.Context, batchID string, vehicles []*valuation.CandidateVehicle) error {
	if len(vehicles) == 0 {
		return nil
	}

	records := make([]CandidateVehicleModel, len(vehicles))
	for i, vehicle := range vehicles {
		records[i] = candidateToModel(vehicle, batchID)
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(candidateImportColumns),
		}).Create(&records).Error
		if err != nil {
			return fmt.Errorf("failed to save candidate vehicles: %w", err)
		}
		return nil
	})
}

// UpdateMarketEstimate stores the figures produced by a market recalculation
func (r *CandidateVehicleRepositoryGORM) UpdateMarketEstimate(
	ctx context.Context,
	id string,
	estimate valuation.MarketEstimate,
	at time.Time,
) error {
	result := r.db.WithContext(ctx).
		Model(&CandidateVehicleModel{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"competitive_price":  nullablePrice(estimate.CompetitivePrice()),
			"market_average":     nullablePrice(estimate.AveragePrice()),
			"competitor_count":   estimate.Count(),
			"last_market_search": at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update market estimate: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", valuation.ErrVehicleNotFound, id)
	}
	return nil
}

// Columns refreshed when a lot is imported again; market figures survive re-imports
var candidateImportColumns = []string{
	"batch_id", "lot_id", "brand", "series", "model", "registration_date", "mileage_km",
	"net_exit_price", "damage_cost", "fiscal_regime", "equipment_percent", "options",
}

func candidateToModel(vehicle *valuation.CandidateVehicle, batchID string) CandidateVehicleModel {
	data := vehicle.Data()
	return CandidateVehicleModel{
		ID:               data.ID,
		BatchID:          batchID,
		LotID:            data.LotID,
		Brand:            data.Brand,
		Series:           data.Series,
		Model:            data.Model,
		RegistrationDate: data.RegistrationDate,
		MileageKm:        data.MileageKm,
		NetExitPrice:     data.NetExitPrice,
		DamageCost:       data.DamageCost,
		FiscalRegime:     data.FiscalRegime,
		EquipmentPercent: data.EquipmentPercent,
		Options:          data.Options,
		CompetitivePrice: data.CompetitivePrice,
		MarketAverage:    data.MarketAverage,
		CompetitorCount:  data.CompetitorCount,
		LastMarketSearch: data.LastMarketSearch,
	}
}

func candidateFromModel(record *CandidateVehicleModel) (*valuation.CandidateVehicle, error) {
	vehicle, err := valuation.NewCandidateVehicle(valuation.CandidateVehicleData{
		ID:               record.ID,
		LotID:            record.LotID,
		Brand:            record.Brand,
		Series:           record.Series,
		Model:            record.Model,
		RegistrationDate: record.RegistrationDate,
		MileageKm:        record.MileageKm,
		NetExitPrice:     record.NetExitPrice,
		DamageCost:       record.DamageCost,
		FiscalRegime:     record.FiscalRegime,
		EquipmentPercent: record.EquipmentPercent,
		Options:          record.Options,
		CompetitivePrice: record.CompetitivePrice,
		MarketAverage:    record.MarketAverage,
		CompetitorCount:  record.CompetitorCount,
		LastMarketSearch: record.LastMarketSearch,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid candidate vehicle in database: %w", err)
	}
	return vehicle, nil
}

func nullablePrice(value float64) *float64 {
	if value <= 0 {
		return nil
	}
	return &value
}

package persistence

import (
	"time"
)

// CandidateVehicleModel represents the candidate_vehicles table
// One row per auction lot; batch_id groups the rows of one imported workbook
type CandidateVehicleModel struct {
	ID               string     `gorm:"column:id;primaryKey;not null"`
	BatchID          string     `gorm:"column:batch_id;index"`
	LotID            string     `gorm:"column:lot_id"`
	Brand            string     `gorm:"column:brand"`
	Series           string     `gorm:"column:series"`
	Model            string     `gorm:"column:model;index"`
	RegistrationDate *time.Time `gorm:"column:registration_date"`
	MileageKm        *int       `gorm:"column:mileage_km"`
	NetExitPrice     *float64   `gorm:"column:net_exit_price"`
	DamageCost       float64    `gorm:"column:damage_cost;not null;default:0"`
	FiscalRegime     string     `gorm:"column:fiscal_regime"`
	EquipmentPercent float64    `gorm:"column:equipment_percent;not null;default:0"`
	Options          string     `gorm:"column:options;type:text"`
	CompetitivePrice *float64   `gorm:"column:competitive_price"`
	MarketAverage    *float64   `gorm:"column:market_average"`
	CompetitorCount  int        `gorm:"column:competitor_count;not null;default:0"`
	LastMarketSearch *time.Time `gorm:"column:last_market_search"`
	CreatedAt        time.Time  `gorm:"column:created_at;autoCreateTime"`
}

func (CandidateVehicleModel) TableName() string {
	return "candidate_vehicles"
}

// CompetitorListingModel represents the competitor_listings table written by the market scraper
// Price, mileage and the new-price columns keep the scraped text ("27.570 €", "45.000 km")
type CompetitorListingModel struct {
	ID                string     `gorm:"column:id;primaryKey;not null"`
	Price             *string    `gorm:"column:price"`
	Mileage           *string    `gorm:"column:mileage"`
	Model             string     `gorm:"column:model;index"`
	Year              string     `gorm:"column:year"`
	FirstRegistration string     `gorm:"column:first_registration"`
	Dealer            string     `gorm:"column:dealer"`
	Status            string     `gorm:"column:status;index;not null;default:active"`
	DetectedAt        *time.Time `gorm:"column:detected_at"`
	PriceDropCount    int        `gorm:"column:price_drop_count;not null;default:0"`
	PriceDropAmount   float64    `gorm:"column:price_drop_amount;not null;default:0"`
	URL               string     `gorm:"column:url"`
	NewPrice          *string    `gorm:"column:new_price"`
	NewPriceAlias     *string    `gorm:"column:new_price_alias"` // camelCase duplicate some scrapers fill
	OriginalPrice     *string    `gorm:"column:original_price"`
}

func (CompetitorListingModel) TableName() string {
	return "competitor_listings"
}

// StockVehicleModel represents the stock_vehicles table (the dealer's own inventory)
type StockVehicleModel struct {
	ID          int     `gorm:"column:id;primaryKey;autoIncrement"`
	Model       string  `gorm:"column:model;index"`
	ListedPrice float64 `gorm:"column:listed_price;not null;default:0"`
	Status      string  `gorm:"column:status;index;not null"`
}

func (StockVehicleModel) TableName() string {
	return "stock_vehicles"
}

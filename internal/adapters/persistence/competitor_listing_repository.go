package persistence

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// CompetitorListingRepositoryGORM reads the scraped market listings using GORM
type CompetitorListingRepositoryGORM struct {
	db *gorm.DB
}

// NewCompetitorListingRepository creates a new GORM-based competitor listing repository
func NewCompetitorListingRepository(db *gorm.DB) *CompetitorListingRepositoryGORM {
	return &CompetitorListingRepositoryGORM{db: db}
}

// ListActive returns every listing that is still for sale.
// The matcher applies the model, year and mileage windows itself.
func (r *CompetitorListingRepositoryGORM) ListActive(ctx context.Context) ([]valuation.CompetitorListing, error) {
	statuses := valuation.MarketableStatuses()
	values := make([]string, len(statuses))
	for i, status := range statuses {
		values[i] = string(status)
	}

	var records []CompetitorListingModel
	err := r.db.WithContext(ctx).
		Where("status IN ?", values).
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list competitor listings: %w", err)
	}

	listings := make([]valuation.CompetitorListing, len(records))
	for i := range records {
		listings[i] = listingFromModel(&records[i])
	}
	return listings, nil
}

// SaveAll upserts scraped listings; used to seed the market table from fixtures and tests
func (r *CompetitorListingRepositoryGORM) SaveAll(ctx context.Context, listings []valuation.CompetitorListing) error {
	if len(listings) == 0 {
		return nil
	}
	records := make([]CompetitorListingModel, len(listings))
	for i, listing := range listings {
		records[i] = listingToModel(listing)
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&records).Error; err != nil {
			return fmt.Errorf("failed to save competitor listings: %w", err)
		}
		return nil
	})
}

func listingFromModel(record *CompetitorListingModel) valuation.CompetitorListing {
	return valuation.CompetitorListing{
		ID:                record.ID,
		Price:             textValue(record.Price),
		Mileage:           textValue(record.Mileage),
		Model:             record.Model,
		Year:              record.Year,
		FirstRegistration: record.FirstRegistration,
		Dealer:            record.Dealer,
		Status:            valuation.ListingStatus(record.Status),
		DetectedAt:        record.DetectedAt,
		PriceDropCount:    record.PriceDropCount,
		PriceDropAmount:   record.PriceDropAmount,
		URL:               record.URL,
		NewPrice:          textValue(record.NewPrice),
		NewPriceAlias:     textValue(record.NewPriceAlias),
		OriginalPrice:     textValue(record.OriginalPrice),
	}
}

func listingToModel(listing valuation.CompetitorListing) CompetitorListingModel {
	return CompetitorListingModel{
		ID:                listing.ID,
		Price:             rawPrice(listing.Price),
		Mileage:           rawMileage(listing.Mileage),
		Model:             listing.Model,
		Year:              listing.Year,
		FirstRegistration: listing.FirstRegistration,
		Dealer:            listing.Dealer,
		Status:            string(listing.Status),
		DetectedAt:        listing.DetectedAt,
		PriceDropCount:    listing.PriceDropCount,
		PriceDropAmount:   listing.PriceDropAmount,
		URL:               listing.URL,
		NewPrice:          rawPrice(listing.NewPrice),
		NewPriceAlias:     rawPrice(listing.NewPriceAlias),
		OriginalPrice:     rawPrice(listing.OriginalPrice),
	}
}

// textValue hands a nullable column to the parser as nil or string
func textValue(column *string) any {
	if column == nil {
		return nil
	}
	return *column
}

// rawPrice keeps scraped text as-is and renders numbers the way the scraper prints them
func rawPrice(value any) *string {
	if text, ok := value.(string); ok || value == nil {
		return optionalText(text, ok)
	}
	price, ok := valuation.ParsePriceValue(value).Value()
	if !ok {
		return nil
	}
	text := valuation.FormatPrice(price)
	return &text
}

func rawMileage(value any) *string {
	if text, ok := value.(string); ok || value == nil {
		return optionalText(text, ok)
	}
	km, ok := valuation.ParseMileageValue(value).Value()
	if !ok {
		return nil
	}
	text := valuation.FormatMileage(km)
	return &text
}

func optionalText(text string, present bool) *string {
	if !present {
		return nil
	}
	return &text
}

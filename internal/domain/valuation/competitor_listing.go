package valuation

import (
	"strconv"
	"strings"
	"time"
)

// ListingStatus is the lifecycle state a scraper assigns to a market listing
type ListingStatus string

const (
	ListingStatusActive       ListingStatus = "active"
	ListingStatusNew          ListingStatus = "new"
	ListingStatusPriceDropped ListingStatus = "price_dropped"
	ListingStatusSold         ListingStatus = "sold"
	ListingStatusRemoved      ListingStatus = "removed"
)

// IsMarketable reports whether a listing in this status is still for sale
func (s ListingStatus) IsMarketable() bool {
	switch s {
	case ListingStatusActive, ListingStatusNew, ListingStatusPriceDropped:
		return true
	default:
		return false
	}
}

// MarketableStatuses lists the statuses a comparable may have
func MarketableStatuses() []ListingStatus {
	return []ListingStatus{ListingStatusActive, ListingStatusNew, ListingStatusPriceDropped}
}

// CompetitorListing is a raw market listing exactly as the scraper stored it.
// Price and mileage keep their scraped form (text, number or nil) until matching.
type CompetitorListing struct {
	ID                string
	Price             any
	Mileage           any
	Model             string
	Year              string
	FirstRegistration string
	Dealer            string
	Status            ListingStatus
	DetectedAt        *time.Time
	PriceDropCount    int
	PriceDropAmount   float64
	URL               string

	// New-price sources, checked in this order
	NewPrice      any
	NewPriceAlias any
	OriginalPrice any
}

// RegistrationYear parses the listing year; listings store it as text ("2021")
func (l CompetitorListing) RegistrationYear() (int, bool) {
	text := strings.TrimSpace(l.Year)
	if len(text) >= 4 {
		text = text[:4]
	}
	year, err := strconv.Atoi(text)
	if err != nil || year <= 0 {
		return 0, false
	}
	return year, true
}

// ResolveNewPrice returns the first new-price source holding a positive price
func (l CompetitorListing) ResolveNewPrice() (float64, bool) {
	for _, source := range []any{l.NewPrice, l.NewPriceAlias, l.OriginalPrice} {
		if price := ParsePrice(source); price > 0 {
			return price, true
		}
	}
	return 0, false
}

// ComparableListing is a competitor listing retained by the matcher with its values parsed.
type ComparableListing struct {
	price             float64
	mileageKm         int
	year              int
	model             string
	dealer            string
	url               string
	newPrice          *float64
	firstRegistration string
	priceDropCount    int
	priceDropAmount   float64
	detectedAt        *time.Time
	status            ListingStatus
	daysListed        int
}

func (c ComparableListing) Price() float64            { return c.price }
func (c ComparableListing) MileageKm() int            { return c.mileageKm }
func (c ComparableListing) Year() int                 { return c.year }
func (c ComparableListing) Model() string             { return c.model }
func (c ComparableListing) Dealer() string            { return c.dealer }
func (c ComparableListing) URL() string               { return c.url }
func (c ComparableListing) FirstRegistration() string { return c.firstRegistration }
func (c ComparableListing) PriceDropCount() int       { return c.priceDropCount }
func (c ComparableListing) PriceDropAmount() float64  { return c.priceDropAmount }
func (c ComparableListing) Status() ListingStatus     { return c.status }
func (c ComparableListing) DaysListed() int           { return c.daysListed }

func (c ComparableListing) NewPrice() (float64, bool) {
	if c.newPrice == nil {
		return 0, false
	}
	return *c.newPrice, true
}

func (c ComparableListing) DetectedAt() *time.Time {
	return copyTime(c.detectedAt)
}

// DiscountPercent is the listing's discount over the new-vehicle price
func (c ComparableListing) DiscountPercent() (float64, bool) {
	newPrice, ok := c.NewPrice()
	if !ok {
		return 0, false
	}
	return (1 - c.price/newPrice) * 100, true
}

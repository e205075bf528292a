package valuation

import (
	"regexp"
	"strings"
	"time"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
)

// MatchStrategy names the matcher tier that produced a comparable set
type MatchStrategy string

const (
	StrategyExact   MatchStrategy = "exact"
	StrategyPartial MatchStrategy = "partial"
	StrategyNone    MatchStrategy = "none"
)

const unknownDealer = "Unknown"

var seriesWordPattern = regexp.MustCompile(`(?i)serie`)

// ComparableSet is the outcome of a comparable search
type ComparableSet struct {
	Listings []ComparableListing
	Strategy MatchStrategy
}

// IsEmpty reports whether no comparable survived matching
func (s ComparableSet) IsEmpty() bool {
	return len(s.Listings) == 0
}

// CompetitorMatcher finds market listings comparable to a candidate vehicle.
//
// Matching runs in tiers and stops at the first tier that retains a listing:
//  1. exact: listing model contains the full subject model
//  2. partial: listing model contains the subject's trim token ("320d") and cleaned series
//
// Both tiers only accept marketable listings inside the registration-year and mileage windows.
type CompetitorMatcher struct {
	clock shared.Clock
}

// NewCompetitorMatcher creates a matcher; clock drives the days-listed figure
func NewCompetitorMatcher(clock shared.Clock) *CompetitorMatcher {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &CompetitorMatcher{clock: clock}
}

// FindComparables returns the best-available comparable set for subject.
// The reported strategy is the tier that selected listings; listings whose
// price or mileage does not parse to a positive number are then discarded.
func (m *CompetitorMatcher) FindComparables(subject *CandidateVehicle, pool []CompetitorListing) ComparableSet {
	if subject == nil {
		return ComparableSet{Strategy: StrategyNone}
	}

	selected := m.exactTier(subject, pool)
	strategy := StrategyExact

	if len(selected) == 0 {
		selected = m.partialTier(subject, pool)
		strategy = StrategyPartial
	}

	if len(selected) == 0 {
		return ComparableSet{Strategy: StrategyNone}
	}

	return ComparableSet{
		Listings: m.process(selected),
		Strategy: strategy,
	}
}

func (m *CompetitorMatcher) exactTier(subject *CandidateVehicle, pool []CompetitorListing) []CompetitorListing {
	model := strings.ToLower(strings.TrimSpace(subject.Model()))
	if model == "" {
		return nil
	}

	var matched []CompetitorListing
	for _, listing := range pool {
		if !strings.Contains(strings.ToLower(listing.Model), model) {
			continue
		}
		if withinWindows(subject, listing) {
			matched = append(matched, listing)
		}
	}
	return matched
}

func (m *CompetitorMatcher) partialTier(subject *CandidateVehicle, pool []CompetitorListing) []CompetitorListing {
	trim, ok := ExtractTrimCode(subject.Model())
	if !ok {
		return nil
	}
	token := strings.ToLower(trim.Raw())
	series := strings.ToLower(cleanSeries(subject.Series()))

	var matched []CompetitorListing
	for _, listing := range pool {
		listingModel := strings.ToLower(listing.Model)
		if !strings.Contains(listingModel, token) {
			continue
		}
		if series != "" && !strings.Contains(listingModel, series) {
			continue
		}
		if withinWindows(subject, listing) {
			matched = append(matched, listing)
		}
	}
	return matched
}

// withinWindows applies the status filter and the year/mileage windows shared by both tiers
func withinWindows(subject *CandidateVehicle, listing CompetitorListing) bool {
	if !listing.Status.IsMarketable() {
		return false
	}

	if subjectYear, ok := subject.RegistrationYear(); ok {
		year, ok := listing.RegistrationYear()
		if !ok || year < subjectYear-YearWindow || year > subjectYear+YearWindow {
			return false
		}
	}

	if subjectKm, ok := subject.MileageKm(); ok {
		km := ParseMileage(listing.Mileage)
		if km < max(0, subjectKm-MileageWindowKm) || km > subjectKm+MileageWindowKm {
			return false
		}
	}

	return true
}

func (m *CompetitorMatcher) process(listings []CompetitorListing) []ComparableListing {
	now := m.clock.Now()
	processed := make([]ComparableListing, 0, len(listings))

	for _, listing := range listings {
		price := ParsePrice(listing.Price)
		km := ParseMileage(listing.Mileage)
		if price <= 0 || km <= 0 {
			continue
		}

		year, _ := listing.RegistrationYear()
		dealer := strings.TrimSpace(listing.Dealer)
		if dealer == "" {
			dealer = unknownDealer
		}

		comparable := ComparableListing{
			price:             price,
			mileageKm:         km,
			year:              year,
			model:             listing.Model,
			dealer:            dealer,
			url:               listing.URL,
			firstRegistration: listing.FirstRegistration,
			priceDropCount:    listing.PriceDropCount,
			priceDropAmount:   listing.PriceDropAmount,
			detectedAt:        copyTime(listing.DetectedAt),
			status:            listing.Status,
			daysListed:        daysSince(listing.DetectedAt, now),
		}
		if newPrice, ok := listing.ResolveNewPrice(); ok {
			comparable.newPrice = &newPrice
		}

		processed = append(processed, comparable)
	}

	return processed
}

// cleanSeries strips the word "serie" from a series label ("Serie 3" -> "3")
func cleanSeries(series string) string {
	loc := seriesWordPattern.FindStringIndex(series)
	if loc == nil {
		return strings.TrimSpace(series)
	}
	return strings.TrimSpace(series[:loc[0]] + series[loc[1]:])
}

func daysSince(detected *time.Time, now time.Time) int {
	if detected == nil {
		return 0
	}
	days := int(now.Sub(*detected) / (24 * time.Hour))
	if days < 0 {
		return 0
	}
	return days
}

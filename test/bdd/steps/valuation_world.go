package steps

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	messages "github.com/cucumber/messages/go/v21"
	"gorm.io/gorm"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/persistence"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/commands"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/queries"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/database"
)

const dateLayout = "2006-01-02"

// valuationWorld is the scenario state shared by every valuation step
type valuationWorld struct {
	today   time.Time
	pricing valuation.PricingConfig

	// single vehicle pricing
	subject  valuation.CandidateVehicleData
	warranty valuation.WarrantyQuote
	target   *float64
	maxBid   *float64

	// comparable matching
	listings    []valuation.CompetitorListing
	comparables valuation.ComparableSet
	estimate    *valuation.MarketEstimate

	// opportunity classification
	vehicles      []*valuation.CandidateVehicle
	stock         []valuation.StockVehicle
	opportunities *queries.ClassifyOpportunitiesResponse

	// store backed scenarios
	db            *gorm.DB
	vehicleRepo   *persistence.CandidateVehicleRepositoryGORM
	listingRepo   *persistence.CompetitorListingRepositoryGORM
	recalculation *commands.RecalculateMarketPricesResponse

	err error
}

// InitializeValuationScenario registers every valuation step against one world
func InitializeValuationScenario(sc *godog.ScenarioContext) {
	w := &valuationWorld{}

	sc.Before(func(ctx context.Context, scenario *godog.Scenario) (context.Context, error) {
		w.reset()
		return ctx, nil
	})
	sc.After(func(ctx context.Context, scenario *godog.Scenario, err error) (context.Context, error) {
		w.closeStore()
		return ctx, nil
	})

	sc.Step(`^today is "([^"]*)"$`, w.todayIs)
	sc.Step(`^pricing with transport (\d+), structure (\d+) and margin (\d+)%$`, w.pricingWith)

	registerPricingSteps(sc, w)
	registerMatchingSteps(sc, w)
	registerOpportunitySteps(sc, w)
	registerMarketStoreSteps(sc, w)
}

func (w *valuationWorld) reset() {
	w.closeStore()
	*w = valuationWorld{pricing: valuation.DefaultPricingConfig()}
}

func (w *valuationWorld) closeStore() {
	if w.db != nil {
		_ = database.Close(w.db)
		w.db = nil
	}
}

func (w *valuationWorld) todayIs(date string) error {
	today, err := time.Parse(dateLayout, date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}
	w.today = today
	return nil
}

func (w *valuationWorld) pricingWith(transport, structure, margin int) error {
	cfg, err := valuation.NewPricingConfig(float64(transport), float64(structure), float64(margin))
	if err != nil {
		return err
	}
	w.pricing = cfg
	return nil
}

// tableRecords maps every data row of table to its header names
func tableRecords(table *godog.Table) []map[string]string {
	if table == nil || len(table.Rows) < 2 {
		return nil
	}
	header := table.Rows[0]
	records := make([]map[string]string, 0, len(table.Rows)-1)
	for _, row := range table.Rows[1:] {
		records = append(records, rowRecord(header, row))
	}
	return records
}

func rowRecord(header, row *messages.PickleTableRow) map[string]string {
	record := make(map[string]string, len(header.Cells))
	for i, cell := range header.Cells {
		if i < len(row.Cells) {
			record[strings.TrimSpace(cell.Value)] = strings.TrimSpace(row.Cells[i].Value)
		}
	}
	return record
}

func parseDate(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	date, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q: %w", value, err)
	}
	return &date, nil
}

func optionalInt(value string) (*int, error) {
	if value == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid number %q: %w", value, err)
	}
	return &n, nil
}

func optionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return &f, nil
}

func expectAmount(label string, want int, got float64) error {
	if got != float64(want) {
		return fmt.Errorf("expected %s %d, got %.2f", label, want, got)
	}
	return nil
}

// listingFromRecord builds a competitor listing from a table row; price and
// mileage stay in their scraped text form
func listingFromRecord(record map[string]string, today time.Time) valuation.CompetitorListing {
	detected := today.AddDate(0, 0, -10)
	return valuation.CompetitorListing{
		ID:         record["id"],
		Price:      record["price"],
		Mileage:    record["mileage"],
		Model:      record["model"],
		Year:       record["year"],
		Dealer:     "Concesionario " + record["id"],
		Status:     valuation.ListingStatus(record["status"]),
		DetectedAt: &detected,
		URL:        "https://listings.example/" + record["id"],
	}
}

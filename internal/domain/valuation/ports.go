package valuation

import (
	"context"
	"time"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
)

// CandidateVehicleRepository defines persistence operations for auction lots
type CandidateVehicleRepository interface {
	ListAll(ctx context.Context) ([]*CandidateVehicle, error)

	// FindByID returns ErrVehicleNotFound when no vehicle has the given id
	FindByID(ctx context.Context, id string) (*CandidateVehicle, error)

	// SaveAll stores an imported batch of vehicles under batchID
	SaveAll(ctx context.Context, batchID string, vehicles []*CandidateVehicle) error

	// UpdateMarketEstimate records the competitive price, market average and competitor count
	UpdateMarketEstimate(ctx context.Context, id string, estimate MarketEstimate, at time.Time) error
}

// CompetitorListingRepository provides the pool of market listings to match against
type CompetitorListingRepository interface {
	// ListActive returns every listing with a marketable status
	ListActive(ctx context.Context) ([]CompetitorListing, error)
}

// StockRepository provides the dealer's own listed inventory
type StockRepository interface {
	// ListAvailable returns units that are available or in preparation
	ListAvailable(ctx context.Context) ([]StockVehicle, error)
}

// LotRow is one parsed workbook row; Row is the 1-based sheet row number
type LotRow struct {
	Row  int
	Data CandidateVehicleData
}

// LotImport is the content of an auction workbook
type LotImport struct {
	Rows      []LotRow
	RowErrors []*shared.WorkbookRowError
}

// LotWorkbookReader parses an auction lot workbook
type LotWorkbookReader interface {
	ReadLots(ctx context.Context, path string) (*LotImport, error)
}

// OpportunityReportWriter renders classified opportunities to a file
type OpportunityReportWriter interface {
	WriteOpportunities(ctx context.Context, path string, report *OpportunityReport) error
}

// OpportunityReport is what an exported opportunity file contains
type OpportunityReport struct {
	Groups      OpportunityGroups
	Config      PricingConfig
	GeneratedAt time.Time
}

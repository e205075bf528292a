package helpers

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// MockCandidateVehicleRepository is an in-memory candidate vehicle store
type MockCandidateVehicleRepository struct {
	mu       sync.RWMutex
	vehicles []*valuation.CandidateVehicle
	batches  map[string]string // vehicle id -> batch id

	// Failure injection
	ListErr   error
	UpdateErr map[string]error // vehicle id -> error returned by UpdateMarketEstimate
}

// NewMockCandidateVehicleRepository creates a repository holding the given vehicles
func NewMockCandidateVehicleRepository(vehicles ...*valuation.CandidateVehicle) *MockCandidateVehicleRepository {
	return &MockCandidateVehicleRepository{
		vehicles:  append([]*valuation.CandidateVehicle(nil), vehicles...),
		batches:   make(map[string]string),
		UpdateErr: make(map[string]error),
	}
}

func (m *MockCandidateVehicleRepository) ListAll(ctx context.Context) ([]*valuation.CandidateVehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return append([]*valuation.CandidateVehicle(nil), m.vehicles...), nil
}

func (m *MockCandidateVehicleRepository) FindByID(ctx context.Context, id string) (*valuation.CandidateVehicle, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, v := range m.vehicles {
		if v.ID() == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", valuation.ErrVehicleNotFound, id)
}

func (m *MockCandidateVehicleRepository) SaveAll(ctx context.Context, batchID string, vehicles []*valuation.CandidateVehicle) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range vehicles {
		m.batches[v.ID()] = batchID
		if i := m.indexOf(v.ID()); i >= 0 {
			m.vehicles[i] = v
			continue
		}
		m.vehicles = append(m.vehicles, v)
	}
	return nil
}

func (m *MockCandidateVehicleRepository) UpdateMarketEstimate(
	ctx context.Context,
	id string,
	estimate valuation.MarketEstimate,
	at time.Time,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.UpdateErr[id]; err != nil {
		return err
	}
	i := m.indexOf(id)
	if i < 0 {
		return fmt.Errorf("%w: %s", valuation.ErrVehicleNotFound, id)
	}
	m.vehicles[i] = m.vehicles[i].WithMarketEstimate(estimate, at)
	return nil
}

// BatchOf returns the batch a vehicle was last saved under
func (m *MockCandidateVehicleRepository) BatchOf(id string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.batches[id]
}

// Count returns the number of stored vehicles
func (m *MockCandidateVehicleRepository) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.vehicles)
}

func (m *MockCandidateVehicleRepository) indexOf(id string) int {
	for i, v := range m.vehicles {
		if v.ID() == id {
			return i
		}
	}
	return -1
}

// MockCompetitorListingRepository serves a fixed listing pool
type MockCompetitorListingRepository struct {
	Listings []valuation.CompetitorListing
	Err      error
}

// NewMockCompetitorListingRepository creates a repository over listings
func NewMockCompetitorListingRepository(listings ...valuation.CompetitorListing) *MockCompetitorListingRepository {
	return &MockCompetitorListingRepository{Listings: listings}
}

// ListActive filters by marketable status, as the real store query does
func (m *MockCompetitorListingRepository) ListActive(ctx context.Context) ([]valuation.CompetitorListing, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	active := make([]valuation.CompetitorListing, 0, len(m.Listings))
	for _, l := range m.Listings {
		if l.Status.IsMarketable() {
			active = append(active, l)
		}
	}
	return active, nil
}

// MockStockRepository serves a fixed inventory
type MockStockRepository struct {
	Units []valuation.StockVehicle
	Err   error
}

// NewMockStockRepository creates a repository over units
func NewMockStockRepository(units ...valuation.StockVehicle) *MockStockRepository {
	return &MockStockRepository{Units: units}
}

func (m *MockStockRepository) ListAvailable(ctx context.Context) ([]valuation.StockVehicle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	listed := make([]valuation.StockVehicle, 0, len(m.Units))
	for _, u := range m.Units {
		if u.Status.IsListed() {
			listed = append(listed, u)
		}
	}
	return listed, nil
}

// MockLotWorkbookReader returns a prepared import
type MockLotWorkbookReader struct {
	Import *valuation.LotImport
	Err    error
}

func (m *MockLotWorkbookReader) ReadLots(ctx context.Context, path string) (*valuation.LotImport, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Import, nil
}

// MockOpportunityReportWriter captures the last written report
type MockOpportunityReportWriter struct {
	Path   string
	Report *valuation.OpportunityReport
	Err    error
}

func (m *MockOpportunityReportWriter) WriteOpportunities(ctx context.Context, path string, report *valuation.OpportunityReport) error {
	if m.Err != nil {
		return m.Err
	}
	m.Path = path
	m.Report = report
	return nil
}

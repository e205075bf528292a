package metrics

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/persistence"
	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/database"
)

func TestStoreMetricsCollector_Update(t *testing.T) {
	// Arrange
	InitRegistry()
	defer func() { Registry = nil }()

	db, err := database.NewTestConnection()
	require.NoError(t, err)
	defer database.Close(db)

	now := time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC)
	searched := now.Add(-2 * time.Hour)
	competitive := 29645.0
	require.NoError(t, db.Create(&[]persistence.CandidateVehicleModel{
		{ID: "v1", Model: "Serie 3 320d", CompetitivePrice: &competitive, LastMarketSearch: &searched},
		{ID: "v2", Model: "X5 xDrive40d"},
	}).Error)
	require.NoError(t, db.Create(&[]persistence.CompetitorListingModel{
		{ID: "c1", Model: "BMW Serie 3 320d", Status: "active"},
		{ID: "c2", Model: "BMW Serie 3 320d", Status: "active"},
		{ID: "c3", Model: "BMW Serie 3 320d", Status: "sold"},
	}).Error)
	require.NoError(t, db.Create(&persistence.StockVehicleModel{Model: "X1 sDrive18i", ListedPrice: 22000, Status: "available"}).Error)

	collector := NewStoreMetricsCollector(db, time.Minute, nil)
	collector.now = func() time.Time { return now }
	require.NoError(t, collector.Register())

	// Act
	collector.Update(context.Background())

	// Assert
	assert.Equal(t, 2.0, metricValue(t, collector.listingsByStatus.WithLabelValues("active")))
	assert.Equal(t, 1.0, metricValue(t, collector.listingsByStatus.WithLabelValues("sold")))
	assert.Equal(t, 1.0, metricValue(t, collector.stockByStatus.WithLabelValues("available")))
	assert.Equal(t, 1.0, metricValue(t, collector.candidates.WithLabelValues("known")))
	assert.Equal(t, 1.0, metricValue(t, collector.candidates.WithLabelValues("missing")))
	assert.InDelta(t, 7200.0, metricValue(t, collector.marketDataAge), 1)
}

func TestStoreMetricsCollector_StartStop(t *testing.T) {
	db, err := database.NewTestConnection()
	require.NoError(t, err)
	defer database.Close(db)

	collector := NewStoreMetricsCollector(db, 10*time.Millisecond, nil)
	collector.Start(context.Background())
	time.Sleep(30 * time.Millisecond)
	collector.Stop()
}

package metrics

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// StoreMetricsCollector polls the pricing store for gauges that no single
// command observes: listing pool composition, priced coverage and data age.
type StoreMetricsCollector struct {
	db     *gorm.DB
	logger *slog.Logger

	listingsByStatus *prometheus.GaugeVec
	candidates       *prometheus.GaugeVec
	stockByStatus    *prometheus.GaugeVec
	marketDataAge    prometheus.Gauge

	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup

	pollInterval time.Duration
	now          func() time.Time
}

// NewStoreMetricsCollector creates a collector polling db every pollInterval
func NewStoreMetricsCollector(db *gorm.DB, pollInterval time.Duration, logger *slog.Logger) *StoreMetricsCollector {
	if logger == nil {
		logger = slog.Default()
	}
	if pollInterval <= 0 {
		pollInterval = time.Minute
	}

	return &StoreMetricsCollector{
		db:     db,
		logger: logger,

		listingsByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "competitor_listings",
				Help:      "Competitor listings in the store by status",
			},
			[]string{"status"},
		),

		candidates: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "candidate_vehicles",
				Help:      "Stored candidate vehicles by whether a competitive price is known",
			},
			[]string{"market_price"},
		),

		stockByStatus: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "stock_vehicles",
				Help:      "Dealer stock units by status",
			},
			[]string{"status"},
		),

		marketDataAge: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "market_data_age_seconds",
				Help:      "Seconds since the oldest stored market estimate was computed",
			},
		),

		pollInterval: pollInterval,
		now:          time.Now,
	}
}

// Register registers all store metrics with the Prometheus registry
func (c *StoreMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.listingsByStatus,
		c.candidates,
		c.stockByStatus,
		c.marketDataAge,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// Start begins the polling goroutine
func (c *StoreMetricsCollector) Start(ctx context.Context) {
	c.ctx, c.cancelFunc = context.WithCancel(ctx)

	c.wg.Add(1)
	go c.poll()
}

// Stop cancels polling and waits for the goroutine to exit
func (c *StoreMetricsCollector) Stop() {
	if c.cancelFunc != nil {
		c.cancelFunc()
	}
	c.wg.Wait()
}

func (c *StoreMetricsCollector) poll() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	c.Update(c.ctx)

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			c.Update(c.ctx)
		}
	}
}

// Update refreshes every gauge from the store
func (c *StoreMetricsCollector) Update(ctx context.Context) {
	if c.db == nil {
		return
	}
	db := c.db.WithContext(ctx)

	c.updateStatusGauge(db, "competitor_listings", c.listingsByStatus)
	c.updateStatusGauge(db, "stock_vehicles", c.stockByStatus)
	c.updateCandidateGauges(db)
}

func (c *StoreMetricsCollector) updateStatusGauge(db *gorm.DB, table string, gauge *prometheus.GaugeVec) {
	var rows []struct {
		Status string
		Count  int64
	}

	err := db.Table(table).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		c.logger.Warn("failed to count rows by status", "table", table, "error", err)
		return
	}

	gauge.Reset()
	for _, row := range rows {
		gauge.WithLabelValues(row.Status).Set(float64(row.Count))
	}
}

func (c *StoreMetricsCollector) updateCandidateGauges(db *gorm.DB) {
	var priced, unpriced int64

	if err := db.Table("candidate_vehicles").Where("competitive_price IS NOT NULL").Count(&priced).Error; err != nil {
		c.logger.Warn("failed to count priced candidates", "error", err)
		return
	}
	if err := db.Table("candidate_vehicles").Where("competitive_price IS NULL").Count(&unpriced).Error; err != nil {
		c.logger.Warn("failed to count unpriced candidates", "error", err)
		return
	}
	c.candidates.WithLabelValues("known").Set(float64(priced))
	c.candidates.WithLabelValues("missing").Set(float64(unpriced))

	var oldest struct {
		LastMarketSearch *time.Time
	}
	err := db.Table("candidate_vehicles").
		Select("last_market_search").
		Where("last_market_search IS NOT NULL").
		Order("last_market_search ASC").
		Limit(1).
		Scan(&oldest).Error
	if err != nil {
		c.logger.Warn("failed to read market data age", "error", err)
		return
	}

	if oldest.LastMarketSearch == nil {
		c.marketDataAge.Set(0)
		return
	}
	c.marketDataAge.Set(c.now().Sub(*oldest.LastMarketSearch).Seconds())
}

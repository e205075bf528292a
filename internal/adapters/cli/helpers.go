package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/metrics"
	"github.com/andrescamacho/acquisition-pricing/internal/adapters/persistence"
	"github.com/andrescamacho/acquisition-pricing/internal/adapters/spreadsheet"
	"github.com/andrescamacho/acquisition-pricing/internal/application/logging"
	"github.com/andrescamacho/acquisition-pricing/internal/application/mediator"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/commands"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/queries"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/services"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/config"
	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/database"
	infraLogging "github.com/andrescamacho/acquisition-pricing/internal/infrastructure/logging"
)

// app holds everything a command needs to dispatch requests
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	db       *gorm.DB
	mediator mediator.Mediator

	closeLog func() error
}

// newApp loads configuration, opens the store and registers every handler.
// withMetrics initializes the Prometheus registry before handlers are wired.
func newApp(withMetrics bool) (*app, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}

	logger, closeLog, err := infraLogging.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.NewConnection(&cfg.Database)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		_ = database.Close(db)
		_ = closeLog()
		return nil, err
	}

	a := &app{cfg: cfg, logger: logger, db: db, closeLog: closeLog}
	if err := a.wire(withMetrics || cfg.Metrics.Enabled); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *app) wire(withMetrics bool) error {
	med := mediator.NewMediator()
	med.Use(logging.LoggingMiddleware(a.logger))

	if withMetrics {
		metrics.InitRegistry()
		requestCollector := metrics.NewRequestMetricsCollector()
		if err := requestCollector.Register(); err != nil {
			return fmt.Errorf("failed to register request metrics: %w", err)
		}
		valuationCollector := metrics.NewValuationMetricsCollector()
		if err := valuationCollector.Register(); err != nil {
			return fmt.Errorf("failed to register valuation metrics: %w", err)
		}
		metrics.SetGlobalValuationCollector(valuationCollector)
		med.Use(metrics.PrometheusMiddleware(requestCollector))
	}

	vehicleRepo := persistence.NewCandidateVehicleRepository(a.db)
	listingRepo := persistence.NewCompetitorListingRepository(a.db)
	stockRepo := persistence.NewStockRepository(a.db)

	calculator := valuation.NewPricingCalculator(valuation.NewWarrantyCalculator())
	classifier := valuation.NewOpportunityClassifier(calculator)
	opportunityService := services.NewOpportunityService(vehicleRepo, stockRepo, classifier, nil)

	var limiter *rate.Limiter
	if limit := a.cfg.Store.RateLimit; limit.Requests > 0 {
		limiter = rate.NewLimiter(rate.Limit(limit.Requests), limit.Burst)
	}

	registrations := []error{
		mediator.RegisterHandler[*queries.ClassifyOpportunitiesQuery](med,
			queries.NewClassifyOpportunitiesHandler(opportunityService)),
		mediator.RegisterHandler[*queries.GetVehicleValuationQuery](med,
			queries.NewGetVehicleValuationHandler(vehicleRepo, listingRepo, calculator, nil)),
		mediator.RegisterHandler[*commands.RecalculateMarketPricesCommand](med,
			commands.NewRecalculateMarketPricesHandler(vehicleRepo, listingRepo, limiter, nil)),
		mediator.RegisterHandler[*commands.ImportLotWorkbookCommand](med,
			commands.NewImportLotWorkbookHandler(spreadsheet.NewLotWorkbookReader(), vehicleRepo)),
		mediator.RegisterHandler[*commands.ExportOpportunitiesCommand](med,
			commands.NewExportOpportunitiesHandler(opportunityService, spreadsheet.NewOpportunityReportWriter(), nil)),
	}
	for _, err := range registrations {
		if err != nil {
			return fmt.Errorf("failed to register handler: %w", err)
		}
	}

	a.mediator = med
	return nil
}

// send dispatches a request with the app logger in context
func (a *app) send(ctx context.Context, request mediator.Request) (mediator.Response, error) {
	return a.mediator.Send(logging.WithLogger(ctx, a.logger), request)
}

// Close releases the database and the log output
func (a *app) Close() {
	if a.db != nil {
		if err := database.Close(a.db); err != nil {
			a.logger.Warn("failed to close database", "error", err)
		}
	}
	if a.closeLog != nil {
		_ = a.closeLog()
	}
}

// resolvePricingConfig starts from the configured pricing and applies any flag the user set
func resolvePricingConfig(cmd *cobra.Command, cfg config.PricingConfig) (valuation.PricingConfig, error) {
	transport, structure, margin := cfg.TransportCost, cfg.StructureCost, cfg.MarginPercent
	if flagChanged(cmd, "transport") {
		transport = transportCost
	}
	if flagChanged(cmd, "structure") {
		structure = structureCost
	}
	if flagChanged(cmd, "margin") {
		margin = marginPercent
	}
	return valuation.NewPricingConfig(transport, structure, margin)
}

func flagChanged(cmd *cobra.Command, name string) bool {
	flag := cmd.Flag(name)
	return flag != nil && flag.Changed
}

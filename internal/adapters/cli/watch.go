package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/acquisition-pricing/internal/adapters/metrics"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/commands"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/queries"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/pidfile"
)

// NewWatchCommand creates the watch command
func NewWatchCommand() *cobra.Command {
	var interval time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Recalculate market prices and opportunities on a schedule",
		Long: `Run until interrupted, recalculating the competitive price of every stored
vehicle and reclassifying opportunities on every tick. Prometheus metrics are
served for the lifetime of the process.

Only one watcher may run per PID file.

Examples:
  pricing watch
  pricing watch --interval 30m`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(true)
			if err != nil {
				return err
			}
			defer a.Close()

			pricing, err := resolvePricingConfig(cmd, a.cfg.Pricing)
			if err != nil {
				return err
			}
			if !flagChanged(cmd, "interval") {
				interval = a.cfg.Store.WatchInterval
			}
			if interval <= 0 {
				return fmt.Errorf("watch interval must be positive, got %s", interval)
			}

			lock := pidfile.New(a.cfg.Store.PIDFile)
			if err := lock.Acquire(); err != nil {
				if errors.Is(err, pidfile.ErrAlreadyRunning) {
					return fmt.Errorf("another watcher is running (%s): %w", lock.Path(), err)
				}
				return err
			}
			defer func() {
				if err := lock.Release(); err != nil {
					a.logger.Warn("failed to release pid file", "path", lock.Path(), "error", err)
				}
			}()

			server, err := metrics.NewServer(a.cfg.Metrics.Host, a.cfg.Metrics.Port, a.cfg.Metrics.Path, a.logger)
			if err != nil {
				return fmt.Errorf("failed to create metrics server: %w", err)
			}
			server.Start()
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := server.Shutdown(shutdownCtx); err != nil {
					a.logger.Warn("metrics server shutdown failed", "error", err)
				}
			}()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			storeCollector := metrics.NewStoreMetricsCollector(a.db, a.cfg.Metrics.StorePollInterval, a.logger)
			if err := storeCollector.Register(); err != nil {
				return fmt.Errorf("failed to register store metrics: %w", err)
			}
			storeCollector.Start(ctx)
			defer storeCollector.Stop()

			a.logger.Info("watch started", "interval", interval, "pricing", pricing.String())
			return runWatchLoop(ctx, a, pricing, interval)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Time between runs (default: store.watch_interval)")

	return cmd
}

// runWatchLoop runs one cycle immediately and then one per tick until ctx is cancelled
func runWatchLoop(ctx context.Context, a *app, pricing valuation.PricingConfig, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := runWatchCycle(ctx, a, pricing); err != nil {
			if ctx.Err() != nil {
				break
			}
			a.logger.Error("watch cycle failed", "error", err)
		}

		select {
		case <-ctx.Done():
			a.logger.Info("watch stopped")
			return nil
		case <-ticker.C:
		}
	}

	a.logger.Info("watch stopped")
	return nil
}

func runWatchCycle(ctx context.Context, a *app, pricing valuation.PricingConfig) error {
	response, err := a.send(ctx, &commands.RecalculateMarketPricesCommand{})
	if err != nil {
		return fmt.Errorf("recalculation failed: %w", err)
	}
	if recalculation, ok := response.(*commands.RecalculateMarketPricesResponse); ok {
		a.logger.Info("market prices recalculated",
			"processed", recalculation.Processed,
			"updated", recalculation.Stats.Updated,
			"not_found", recalculation.Stats.NotFound)
	}

	response, err = a.send(ctx, &queries.ClassifyOpportunitiesQuery{Config: pricing})
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}
	if classification, ok := response.(*queries.ClassifyOpportunitiesResponse); ok {
		a.logger.Info("opportunities classified",
			"evaluated", classification.Evaluated,
			"excluded", classification.Excluded)
	}
	return nil
}

package cli

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/acquisition-pricing/internal/infrastructure/config"
)

// NewConfigCommand creates the config command with subcommands
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect configuration settings",
		Long: `Inspect acquisition pricing configuration settings.

Configuration is loaded from multiple sources with priority:
1. Environment variables (AP_* prefix, DATABASE_URL)
2. Config file (config.yaml)
3. Default values

Examples:
  pricing config show`,
	}

	cmd.AddCommand(newConfigShowCommand())

	return cmd
}

// newConfigShowCommand creates the config show subcommand
func newConfigShowCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				fmt.Printf("Warning: Failed to load config: %v\n", err)
				fmt.Println("Using default configuration.")
				cfg = config.LoadConfigOrDefault(configPath)
			}

			pricing, err := resolvePricingConfig(cmd, cfg.Pricing)
			if err != nil {
				return err
			}

			fmt.Println("Acquisition Pricing Configuration")
			fmt.Println("=================================")

			fmt.Println("\nPricing:")
			fmt.Printf("  Transport cost:   %s\n", formatEuros(pricing.TransportCost()))
			fmt.Printf("  Structure cost:   %s\n", formatEuros(pricing.StructureCost()))
			fmt.Printf("  Margin:           %.2f%%\n", pricing.MarginPercent())

			fmt.Println("\nDatabase:")
			fmt.Printf("  Type:             %s\n", cfg.Database.Type)
			switch {
			case cfg.Database.URL != "":
				fmt.Printf("  URL:              %s\n", maskPassword(cfg.Database.URL))
			case cfg.Database.Type == "sqlite":
				fmt.Printf("  Path:             %s\n", cfg.Database.Path)
				fmt.Printf("  Busy Timeout:     %s\n", cfg.Database.BusyTimeout)
			default:
				fmt.Printf("  Host:             %s\n", cfg.Database.Host)
				fmt.Printf("  Port:             %d\n", cfg.Database.Port)
				fmt.Printf("  Database:         %s\n", cfg.Database.Name)
				fmt.Printf("  User:             %s\n", cfg.Database.User)
			}
			fmt.Printf("  Max Connections:  %d\n", cfg.Database.Pool.MaxOpen)

			fmt.Println("\nListing Store:")
			if cfg.Store.RateLimit.Requests > 0 {
				fmt.Printf("  Write Limit:      %.1f/s (burst: %d)\n",
					cfg.Store.RateLimit.Requests, cfg.Store.RateLimit.Burst)
			} else {
				fmt.Printf("  Write Limit:      unlimited\n")
			}
			fmt.Printf("  Watch Interval:   %s\n", cfg.Store.WatchInterval)
			fmt.Printf("  PID File:         %s\n", cfg.Store.PIDFile)

			fmt.Println("\nMetrics:")
			fmt.Printf("  Enabled:          %t\n", cfg.Metrics.Enabled)
			fmt.Printf("  Endpoint:         %s:%d%s\n", cfg.Metrics.Host, cfg.Metrics.Port, cfg.Metrics.Path)
			fmt.Printf("  Store Poll:       %s\n", cfg.Metrics.StorePollInterval)

			fmt.Println("\nLogging:")
			fmt.Printf("  Level:            %s\n", cfg.Logging.Level)
			fmt.Printf("  Format:           %s\n", cfg.Logging.Format)
			fmt.Printf("  Output:           %s\n", cfg.Logging.Output)

			return nil
		},
	}

	return cmd
}

// maskPassword hides the password of a connection URL
func maskPassword(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.User == nil {
		return raw
	}
	if _, hasPassword := parsed.User.Password(); !hasPassword {
		return raw
	}
	parsed.User = url.UserPassword(parsed.User.Username(), "xxxxx")
	return parsed.String()
}

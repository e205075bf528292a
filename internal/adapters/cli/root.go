package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	configPath    string
	verbose       bool
	transportCost float64
	structureCost float64
	marginPercent float64
)

// NewRootCommand creates the root command for the CLI
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "pricing",
		Short: "Acquisition pricing - value auction lots against the used-car market",
		Long: `Acquisition pricing decides which auction lots are worth bidding on.

It compares every lot with competitor listings, works out the price the dealer
must sell at to keep its margin, and the highest bid that still leaves that margin
at the market's competitive price.

Examples:
  pricing import --file lotes-junio.xlsx
  pricing market recalculate
  pricing opportunities --margin 5 --transport 300 --structure 200
  pricing opportunities --model "Serie 3" --export oportunidades.xlsx
  pricing vehicle valuate --id 6f0c9c1e-1f7e-4c55-9f59-0d2b7f1f2a10
  pricing watch --interval 30m`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false,
		"Enable debug logging")
	rootCmd.PersistentFlags().Float64Var(&transportCost, "transport", 0,
		"Transport cost per vehicle (overrides pricing.transport_cost)")
	rootCmd.PersistentFlags().Float64Var(&structureCost, "structure", 0,
		"Structure cost per vehicle (overrides pricing.structure_cost)")
	rootCmd.PersistentFlags().Float64Var(&marginPercent, "margin", 0,
		"Required margin in percent (overrides pricing.margin_pct)")

	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewImportCommand())
	rootCmd.AddCommand(NewMarketCommand())
	rootCmd.AddCommand(NewOpportunitiesCommand())
	rootCmd.AddCommand(NewVehicleCommand())
	rootCmd.AddCommand(NewWatchCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/commands"
)

// NewMarketCommand creates the market command with subcommands
func NewMarketCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "market",
		Short: "Competitor market operations",
		Long: `Refresh what the competitor market says each stored lot is worth.

Examples:
  pricing market recalculate`,
	}

	cmd.AddCommand(newMarketRecalculateCommand())

	return cmd
}

func newMarketRecalculateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recalculate",
		Short: "Recalculate the competitive price of every stored vehicle",
		Long: `Match every stored vehicle against the active competitor listings and
store the resulting competitive price, market average and comparable count.

Vehicles without comparables keep their previous figures.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.send(context.Background(), &commands.RecalculateMarketPricesCommand{})
			if err != nil {
				return fmt.Errorf("failed to recalculate market prices: %w", err)
			}

			result, ok := response.(*commands.RecalculateMarketPricesResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			printRecalculation(result)
			return nil
		},
	}

	return cmd
}

func printRecalculation(result *commands.RecalculateMarketPricesResponse) {
	fmt.Printf("Recalculated %d vehicles in %s (run %s)\n\n",
		result.Processed, result.Duration.Round(1e6), result.RunID)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MATCH\tVEHICLES")
	fmt.Fprintln(w, "-----\t--------")
	fmt.Fprintf(w, "exact\t%d\n", result.Stats.Exact)
	fmt.Fprintf(w, "partial\t%d\n", result.Stats.Partial)
	fmt.Fprintf(w, "not found\t%d\n", result.Stats.NotFound)
	w.Flush()

	fmt.Printf("\nUpdated: %d  Failed: %d\n", result.Stats.Updated, result.Stats.Failed)
}

package cli

import (
	"context"
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/commands"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/dtos"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/queries"
)

// NewOpportunitiesCommand creates the opportunities command
func NewOpportunitiesCommand() *cobra.Command {
	var (
		model    string
		export   string
		tree     bool
		noColors bool
	)

	cmd := &cobra.Command{
		Use:   "opportunities",
		Short: "Classify stored lots into acquisition opportunities",
		Long: `Price every stored lot against the market and list the ones that leave a
positive margin, split by whether the model is already in stock.

Lots already in stock are only listed when they undercut the stock unit by more
than 500 €.

Examples:
  pricing opportunities
  pricing opportunities --model "Serie 3" --tree
  pricing opportunities --margin 5 --export oportunidades.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			pricing, err := resolvePricingConfig(cmd, a.cfg.Pricing)
			if err != nil {
				return err
			}
			ctx := context.Background()

			if export != "" {
				response, err := a.send(ctx, &commands.ExportOpportunitiesCommand{
					Path:        export,
					Config:      pricing,
					ModelFilter: model,
				})
				if err != nil {
					return fmt.Errorf("failed to export opportunities: %w", err)
				}
				result, ok := response.(*commands.ExportOpportunitiesResponse)
				if !ok {
					return fmt.Errorf("unexpected response type")
				}
				fmt.Printf("✓ Wrote %s (%d not in stock, %d in stock)\n", result.Path, result.NotInStock, result.InStock)
				return nil
			}

			response, err := a.send(ctx, &queries.ClassifyOpportunitiesQuery{
				Config:      pricing,
				ModelFilter: model,
			})
			if err != nil {
				return fmt.Errorf("failed to classify opportunities: %w", err)
			}
			result, ok := response.(*queries.ClassifyOpportunitiesResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			fmt.Printf("Pricing: %s\n\n", pricing)
			if tree {
				formatter := NewTreeFormatter(!noColors, !noColors)
				fmt.Print(formatter.FormatBucket("Not in stock", result.NotInStock))
				fmt.Println()
				fmt.Print(formatter.FormatBucket("In stock", result.InStock))
			} else {
				printOpportunityTable("NOT IN STOCK", result.NotInStock)
				fmt.Println()
				printOpportunityTable("IN STOCK", result.InStock)
			}

			printExclusions(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Only vehicles whose model contains this text")
	cmd.Flags().StringVar(&export, "export", "", "Write the opportunities to this .xlsx file instead of printing them")
	cmd.Flags().BoolVar(&tree, "tree", false, "Show opportunities as a model tree")
	cmd.Flags().BoolVar(&noColors, "no-color", false, "Disable colors and icons in tree output")

	return cmd
}

func printOpportunityTable(title string, groups []*dtos.ModelGroupDTO) {
	fmt.Printf("%s (%d)\n", title, dtos.CountVehicles(groups))
	if len(groups) == 0 {
		fmt.Println("  (none)")
		return
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tLOT\tKM\tTARGET\tMARKET\tMARGIN\tMARGIN %\tMAX BID\tWARRANTY")
	fmt.Fprintln(w, "-----\t---\t--\t------\t------\t------\t--------\t-------\t--------")
	for _, group := range groups {
		for _, v := range group.Vehicles {
			bid := "-"
			if v.MaxBid != nil {
				bid = formatEuros(*v.MaxBid)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\t%.1f\t%s\t%s\n",
				group.Model,
				v.LotID,
				formatKm(v.MileageKm),
				formatEuros(v.TargetSalePrice),
				formatEuros(v.CompetitivePrice),
				formatEuros(v.Margin),
				v.MarginPercent,
				bid,
				formatEuros(v.WarrantyCost),
			)
		}
	}
	w.Flush()
}

func printExclusions(result *queries.ClassifyOpportunitiesResponse) {
	fmt.Printf("\nEvaluated %d vehicles, excluded %d\n", result.Evaluated, result.Excluded)
	if len(result.Exclusions) == 0 {
		return
	}

	reasons := make([]string, 0, len(result.Exclusions))
	for reason := range result.Exclusions {
		reasons = append(reasons, reason)
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		fmt.Printf("  %-28s %d\n", reason, result.Exclusions[reason])
	}
}

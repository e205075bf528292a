package cli

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/dtos"
	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/queries"
)

// NewVehicleCommand creates the vehicle command with subcommands
func NewVehicleCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vehicle",
		Short: "Single vehicle operations",
		Long: `Inspect one stored candidate vehicle.

Examples:
  pricing vehicle valuate --id 6f0c9c1e-1f7e-4c55-9f59-0d2b7f1f2a10`,
	}

	cmd.AddCommand(newVehicleValuateCommand())

	return cmd
}

func newVehicleValuateCommand() *cobra.Command {
	var (
		vehicleID       string
		showComparables bool
	)

	cmd := &cobra.Command{
		Use:   "valuate",
		Short: "Show the full valuation of one vehicle",
		Long: `Show the warranty, target sale price, competitive price and maximum bid of
one vehicle, together with the comparable listings found for it right now.`,
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

			response, err := a.send(context.Background(), &queries.GetVehicleValuationQuery{
				VehicleID: vehicleID,
				Config:    pricing,
			})
			if err != nil {
				return fmt.Errorf("failed to valuate vehicle: %w", err)
			}

			result, ok := response.(*dtos.VehicleValuationDTO)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			printValuation(result)
			if showComparables {
				printComparables(result.Comparables)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&vehicleID, "id", "", "Candidate vehicle id")
	cmd.Flags().BoolVar(&showComparables, "comparables", false, "List the comparable listings")
	cmd.MarkFlagRequired("id")

	return cmd
}

func printValuation(v *dtos.VehicleValuationDTO) {
	fmt.Printf("Vehicle %s (lot %s)\n", v.VehicleID, v.LotID)
	fmt.Println("================================================")
	fmt.Printf("Model:             %s %s %s\n", v.Brand, v.Series, v.Model)
	if v.RegistrationDate != nil {
		fmt.Printf("Registered:        %s\n", v.RegistrationDate.Format("2006-01-02"))
	} else {
		fmt.Printf("Registered:        unknown\n")
	}
	fmt.Printf("Mileage:           %s\n", formatKm(v.MileageKm))
	fmt.Printf("Fiscal regime:     %s (VAT applies: %t)\n", v.FiscalRegime, v.AppliesVAT)
	fmt.Printf("Net exit price:    %s\n", optionalEuros(v.NetExitPrice))
	fmt.Printf("Damage:            %s\n", formatEuros(v.DamageCost))

	fmt.Println("\nWarranty:")
	fmt.Printf("  Cost:            %s\n", formatEuros(v.Warranty.Cost))
	fmt.Printf("  Gap:             %d months\n", v.Warranty.GapMonths)
	fmt.Printf("  Detail:          %s\n", v.Warranty.Detail)

	fmt.Println("\nPricing:")
	fmt.Printf("  Target price:    %s\n", optionalEuros(v.TargetSalePrice))
	fmt.Printf("  Competitive:     %s\n", optionalEuros(v.CompetitivePrice))
	fmt.Printf("  Max bid:         %s\n", optionalEuros(v.MaxBid))

	fmt.Printf("\nMarket (%s match):\n", v.Strategy)
	if v.Market == nil {
		fmt.Println("  No comparable listings")
		return
	}
	fmt.Printf("  Comparables:     %d\n", v.Market.Count)
	fmt.Printf("  Average:         %s\n", formatEuros(v.Market.AveragePrice))
	fmt.Printf("  Range:           %s - %s\n", formatEuros(v.Market.MinPrice), formatEuros(v.Market.MaxPrice))
	fmt.Printf("  Average mileage: %s\n", formatKm(&v.Market.AverageMileageKm))
	if v.Market.AverageDiscountPercent != nil {
		fmt.Printf("  Avg discount:    %.1f%% off new\n", *v.Market.AverageDiscountPercent)
	}
}

func printComparables(comparables []*dtos.ComparableDTO) {
	if len(comparables) == 0 {
		return
	}

	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "MODEL\tYEAR\tPRICE\tKM\tDAYS\tDROPS\tSTATUS\tDEALER")
	fmt.Fprintln(w, "-----\t----\t-----\t--\t----\t-----\t------\t------")
	for _, c := range comparables {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%d\t%d\t%s\t%s\n",
			c.Model,
			c.Year,
			formatEuros(c.Price),
			formatKm(&c.MileageKm),
			c.DaysListed,
			c.PriceDropCount,
			c.Status,
			c.Dealer,
		)
	}
	w.Flush()
}

func optionalEuros(amount *float64) string {
	if amount == nil {
		return "-"
	}
	return formatEuros(*amount)
}

package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/commands"
)

// NewImportCommand creates the import command
func NewImportCommand() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import an auction lot workbook",
		Long: `Read the first sheet of an auction lot workbook and store every lot as a
candidate vehicle. Rows that cannot be read are reported and skipped.

Examples:
  pricing import --file lotes-junio.xlsx`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(false)
			if err != nil {
				return err
			}
			defer a.Close()

			response, err := a.send(context.Background(), &commands.ImportLotWorkbookCommand{Path: file})
			if err != nil {
				return fmt.Errorf("failed to import workbook: %w", err)
			}

			result, ok := response.(*commands.ImportLotWorkbookResponse)
			if !ok {
				return fmt.Errorf("unexpected response type")
			}

			fmt.Printf("✓ Imported %d vehicles from %s (batch %s)\n", result.Imported, file, result.BatchID)
			if result.Skipped > 0 {
				fmt.Printf("\n%d rows skipped:\n", result.Skipped)
				for _, rowErr := range result.RowErrors {
					fmt.Printf("  • %s\n", rowErr)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&file, "file", "", "Path to the lot workbook (.xlsx)")
	cmd.MarkFlagRequired("file")

	return cmd
}

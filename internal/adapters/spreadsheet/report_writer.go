package spreadsheet

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// Sheet names of an opportunity report
const (
	SummarySheet    = "Summary"
	NotInStockSheet = "Not in stock"
	InStockSheet    = "In stock"
)

var opportunityHeader = []interface{}{
	"Model", "Lot", "Vehicle", "Km", "Target price", "Competitive price",
	"Margin", "Margin %", "Max bid", "Warranty", "Warranty detail",
}

// OpportunityReportWriter renders classified opportunities as an xlsx workbook
type OpportunityReportWriter struct{}

// NewOpportunityReportWriter creates a new writer
func NewOpportunityReportWriter() *OpportunityReportWriter {
	return &OpportunityReportWriter{}
}

// WriteOpportunities writes a summary sheet plus one sheet per bucket to path
func (w *OpportunityReportWriter) WriteOpportunities(ctx context.Context, path string, report *valuation.OpportunityReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummary(f, report, headerStyle); err != nil {
		return err
	}

	buckets := []struct {
		sheet  string
		groups map[string][]*valuation.PricedVehicle
		models []string
	}{
		{NotInStockSheet, report.Groups.NotInStock, report.Groups.NotInStockModels()},
		{InStockSheet, report.Groups.InStock, report.Groups.InStockModels()},
	}
	for _, bucket := range buckets {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := f.NewSheet(bucket.sheet); err != nil {
			return fmt.Errorf("failed to create sheet %q: %w", bucket.sheet, err)
		}
		if err := writeBucket(f, bucket.sheet, bucket.models, bucket.groups, headerStyle); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, report *valuation.OpportunityReport, headerStyle int) error {
	rows := [][]interface{}{
		{"Generated at", report.GeneratedAt.Format("2006-01-02 15:04")},
		{"Transport cost", report.Config.TransportCost()},
		{"Structure cost", report.Config.StructureCost()},
		{"Margin %", report.Config.MarginPercent()},
		{"Not in stock", report.Groups.NotInStockCount()},
		{"In stock", report.Groups.InStockCount()},
		{"Excluded", report.Groups.ExcludedCount()},
	}

	reasons := make([]string, 0, len(report.Groups.Exclusions))
	for reason := range report.Groups.Exclusions {
		reasons = append(reasons, string(reason))
	}
	sort.Strings(reasons)
	for _, reason := range reasons {
		rows = append(rows, []interface{}{"  " + reason, report.Groups.Exclusions[valuation.ExclusionReason(reason)]})
	}

	for i, row := range rows {
		if err := setRow(f, SummarySheet, i+1, row); err != nil {
			return err
		}
	}
	if err := f.SetColStyle(SummarySheet, "A", headerStyle); err != nil {
		return fmt.Errorf("failed to style summary: %w", err)
	}
	return f.SetColWidth(SummarySheet, "A", "A", 20)
}

func writeBucket(
	f *excelize.File,
	sheet string,
	models []string,
	groups map[string][]*valuation.PricedVehicle,
	headerStyle int,
) error {
	if err := setRow(f, sheet, 1, opportunityHeader); err != nil {
		return err
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header of %q: %w", sheet, err)
	}

	row := 2
	for _, model := range models {
		for _, priced := range groups[model] {
			if err := setRow(f, sheet, row, opportunityRow(model, priced)); err != nil {
				return err
			}
			row++
		}
	}
	return f.SetColWidth(sheet, "A", "C", 24)
}

func opportunityRow(model string, priced *valuation.PricedVehicle) []interface{} {
	vehicle := priced.Vehicle()

	var km interface{} = ""
	if value, ok := vehicle.MileageKm(); ok {
		km = value
	}
	var maxBid interface{} = ""
	if value, ok := priced.MaxBid(); ok {
		maxBid = value
	}

	return []interface{}{
		model,
		vehicle.LotID(),
		vehicle.Model(),
		km,
		priced.TargetSalePrice(),
		priced.CompetitivePrice(),
		priced.Margin(),
		decimal.NewFromFloat(priced.MarginPercent()).Round(2).InexactFloat64(),
		maxBid,
		priced.Warranty().Cost(),
		priced.Warranty().Detail(),
	}
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write row %d of %q: %w", row, sheet, err)
	}
	return nil
}

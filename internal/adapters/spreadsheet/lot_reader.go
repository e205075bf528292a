package spreadsheet

import (
	"context"
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/andrescamacho/acquisition-pricing/internal/domain/shared"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// Auction workbook column headers, matched after trimming and upper-casing
const (
	colLot          = "LOTE"
	colBrand        = "MARCA"
	colSeries       = "SERIE"
	colModel        = "MODELO"
	colRegistration = "FECHA MATRICULACIÓN"
	colMileage      = "KM"
	colDamage       = "DAÑO NETO"
	colFiscalRegime = "REG FIS."
	colEquipment    = "% EQUIP"
	colOptions      = "OPCIONES"
	colNetExitPrice = "PRECIO SALIDA NETO"
)

// ErrMissingColumn is returned when the header row lacks a required column
var ErrMissingColumn = errors.New("missing workbook column")

var (
	trailingChassisCode = regexp.MustCompile(`\s*\([^)]*\)\s*$`)
	doorsSuffix         = regexp.MustCompile(`(?i)\d+-puertas`)
	firstNumber         = regexp.MustCompile(`\d+`)
)

var registrationLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"02/01/2006",
	"2/1/2006",
}

// LotWorkbookReader reads auction lot workbooks with excelize.
// Only the first sheet is read; its first row holds the column headers.
type LotWorkbookReader struct{}

// NewLotWorkbookReader creates a new reader
func NewLotWorkbookReader() *LotWorkbookReader {
	return &LotWorkbookReader{}
}

// ReadLots parses every data row of the workbook at path.
// Blank rows are ignored; rows without a model are reported and skipped.
func (r *LotWorkbookReader) ReadLots(ctx context.Context, path string) (*valuation.LotImport, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s: %w", path, valuation.ErrEmptyWorkbook)
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("%s: %w", path, valuation.ErrEmptyWorkbook)
	}

	header := indexHeader(rows[0])
	if _, ok := header[colModel]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumn, colModel)
	}

	lots := &valuation.LotImport{}
	for i, cells := range rows[1:] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rowNumber := i + 2
		if isBlankRow(cells) {
			continue
		}

		row := lotRow{cells: cells, header: header}
		model := row.text(colModel)
		if model == "" {
			lots.RowErrors = append(lots.RowErrors, shared.NewWorkbookRowError(rowNumber, "empty model"))
			continue
		}

		series := row.text(colSeries)
		lots.Rows = append(lots.Rows, valuation.LotRow{
			Row: rowNumber,
			Data: valuation.CandidateVehicleData{
				LotID:            row.text(colLot),
				Brand:            row.text(colBrand),
				Series:           series,
				Model:            NormalizeLotModel(model, series),
				RegistrationDate: row.date(colRegistration),
				MileageKm:        row.mileage(colMileage),
				NetExitPrice:     row.price(colNetExitPrice),
				DamageCost:       row.amount(colDamage),
				FiscalRegime:     row.text(colFiscalRegime),
				EquipmentPercent: equipmentPercent(row.amount(colEquipment)),
				Options:          row.text(colOptions),
			},
		})
	}

	return lots, nil
}

// NormalizeLotModel turns an auction model into the name the market uses:
// "116d (F40)" with series "Serie 1" becomes "Serie 1 116d".
func NormalizeLotModel(model, series string) string {
	normalized := strings.TrimSpace(trailingChassisCode.ReplaceAllString(strings.TrimSpace(model), ""))

	series = strings.TrimSpace(series)
	lower := strings.ToLower(series)
	switch {
	case series == "":
		return normalized
	case strings.Contains(lower, "serie"):
		return series + " " + normalized
	case strings.Contains(lower, "doors") || strings.Contains(lower, "puertas"):
		doors := firstNumber.FindString(lower)
		if doors == "" {
			return normalized
		}
		return fmt.Sprintf("MINI %s Puertas %s", doors, strings.TrimSpace(doorsSuffix.ReplaceAllString(normalized, "")))
	default:
		return normalized
	}
}

// equipmentPercent scales fractions (0.62) to percentages (62)
func equipmentPercent(value float64) float64 {
	if value > 0 && value < 1 {
		return value * 100
	}
	return value
}

func indexHeader(cells []string) map[string]int {
	header := make(map[string]int, len(cells))
	for i, cell := range cells {
		name := strings.ToUpper(strings.TrimSpace(cell))
		if name == "" {
			continue
		}
		if _, exists := header[name]; !exists {
			header[name] = i
		}
	}
	return header
}

func isBlankRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

type lotRow struct {
	cells  []string
	header map[string]int
}

func (r lotRow) text(column string) string {
	i, ok := r.header[column]
	if !ok || i >= len(r.cells) {
		return ""
	}
	return strings.TrimSpace(r.cells[i])
}

// number reads a raw numeric cell, falling back to Spanish-formatted text
func (r lotRow) number(column string) (float64, bool) {
	raw := r.text(column)
	if raw == "" {
		return 0, false
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f, true
	}
	return valuation.ParsePriceValue(raw).Value()
}

func (r lotRow) amount(column string) float64 {
	value, _ := r.number(column)
	return value
}

func (r lotRow) price(column string) *float64 {
	value, ok := r.number(column)
	if !ok || value == 0 {
		return nil
	}
	return &value
}

func (r lotRow) mileage(column string) *int {
	raw := r.text(column)
	if raw == "" {
		return nil
	}
	var km int
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		km = int(math.Trunc(f))
	} else if parsed, ok := valuation.ParseMileageValue(raw).Value(); ok {
		km = parsed
	} else {
		return nil
	}
	if km == 0 {
		return nil
	}
	return &km
}

// date accepts an Excel serial day number or a written date
func (r lotRow) date(column string) *time.Time {
	raw := r.text(column)
	if raw == "" {
		return nil
	}
	if serial, err := strconv.ParseFloat(raw, 64); err == nil {
		if serial <= 0 {
			return nil
		}
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return nil
		}
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		return &day
	}
	for _, layout := range registrationLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
			return &day
		}
	}
	return nil
}

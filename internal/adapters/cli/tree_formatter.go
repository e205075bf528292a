package cli

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/acquisition-pricing/internal/application/valuation/dtos"
	"github.com/andrescamacho/acquisition-pricing/internal/domain/valuation"
)

// TreeFormatter renders opportunity buckets as a model -> vehicle tree
type TreeFormatter struct {
	useColors bool
	useEmojis bool
}

// NewTreeFormatter creates a new tree formatter
func NewTreeFormatter(useColors, useEmojis bool) *TreeFormatter {
	return &TreeFormatter{
		useColors: useColors,
		useEmojis: useEmojis,
	}
}

// FormatBucket renders one bucket under a titled root
func (f *TreeFormatter) FormatBucket(title string, groups []*dtos.ModelGroupDTO) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("%s%s (%d)\n", f.bucketIcon(), title, dtos.CountVehicles(groups)))

	if len(groups) == 0 {
		builder.WriteString("└── (none)\n")
		return builder.String()
	}

	for i, group := range groups {
		isLastGroup := i == len(groups)-1
		builder.WriteString(branch("", isLastGroup))
		builder.WriteString(fmt.Sprintf("%s%s%s (%d)\n", f.bold(), group.Model, f.colorReset(), len(group.Vehicles)))

		childPrefix := "│   "
		if isLastGroup {
			childPrefix = "    "
		}
		for j, vehicle := range group.Vehicles {
			builder.WriteString(branch(childPrefix, j == len(group.Vehicles)-1))
			builder.WriteString(f.formatVehicle(vehicle))
			builder.WriteString("\n")
		}
	}

	return builder.String()
}

func (f *TreeFormatter) formatVehicle(v *dtos.OpportunityDTO) string {
	bid := "-"
	if v.MaxBid != nil {
		bid = formatEuros(*v.MaxBid)
	}
	return fmt.Sprintf("%s%s %s  target %s  market %s  %smargin %s (%s%%)%s  bid %s",
		f.marginIcon(v.MarginPercent),
		v.LotID,
		formatKm(v.MileageKm),
		formatEuros(v.TargetSalePrice),
		formatEuros(v.CompetitivePrice),
		f.marginColor(v.MarginPercent),
		formatEuros(v.Margin),
		decimal.NewFromFloat(v.MarginPercent).StringFixed(1),
		f.colorReset(),
		bid,
	)
}

func branch(prefix string, isLast bool) string {
	if isLast {
		return prefix + "└── "
	}
	return prefix + "├── "
}

func (f *TreeFormatter) bucketIcon() string {
	if !f.useEmojis {
		return ""
	}
	return "🚗 "
}

// marginIcon flags thin and healthy margins
func (f *TreeFormatter) marginIcon(percent float64) string {
	if !f.useEmojis {
		return ""
	}
	switch {
	case percent >= 10:
		return "🟢 "
	case percent >= 5:
		return "🟡 "
	default:
		return "🟠 "
	}
}

func (f *TreeFormatter) marginColor(percent float64) string {
	if !f.useColors {
		return ""
	}
	switch {
	case percent >= 10:
		return "\033[32m" // Green
	case percent >= 5:
		return "\033[33m" // Yellow
	default:
		return "\033[31m" // Red
	}
}

func (f *TreeFormatter) bold() string {
	if !f.useColors {
		return ""
	}
	return "\033[1m"
}

func (f *TreeFormatter) colorReset() string {
	if !f.useColors {
		return ""
	}
	return "\033[0m"
}

// formatEuros prints a whole-euro amount the way Spanish listings do ("27.570 €")
func formatEuros(amount float64) string {
	rounded, _ := decimal.NewFromFloat(amount).Round(0).Float64()
	return valuation.FormatPrice(rounded)
}

func formatKm(km *int) string {
	if km == nil {
		return "? km"
	}
	return valuation.FormatMileage(*km)
}

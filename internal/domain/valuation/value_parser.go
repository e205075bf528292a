package valuation

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// ParsedValue is the tagged outcome of parsing a scraped price or mileage.
// A valid zero ("0 €") and a failed parse are distinguishable; only the
// ParsePrice / ParseMileage boundary collapses Invalid into zero.
type ParsedValue[T int | float64] struct {
	value T
	valid bool
}

// Parsed wraps a successfully parsed value
func Parsed[T int | float64](v T) ParsedValue[T] {
	return ParsedValue[T]{value: v, valid: true}
}

// Invalid marks a value that could not be parsed
func Invalid[T int | float64]() ParsedValue[T] {
	return ParsedValue[T]{}
}

func (p ParsedValue[T]) IsValid() bool {
	return p.valid
}

// Value returns the parsed value and whether parsing succeeded
func (p ParsedValue[T]) Value() (T, bool) {
	return p.value, p.valid
}

// OrZero returns the parsed value, or zero when parsing failed
func (p ParsedValue[T]) OrZero() T {
	if !p.valid {
		var zero T
		return zero
	}
	return p.value
}

// ParsePrice converts a scraped price into a number. Numbers pass through;
// text such as "27.570 €" or "1.234,50€" is normalized from the Spanish locale.
// Empty or unparseable input yields 0.
func ParsePrice(raw any) float64 {
	return ParsePriceValue(raw).OrZero()
}

// ParseMileage converts a scraped mileage into whole kilometres. Text such as
// "45.000 km" is accepted; unparseable input yields 0.
func ParseMileage(raw any) int {
	return ParseMileageValue(raw).OrZero()
}

// ParsePriceValue is the tagged form of ParsePrice.
func ParsePriceValue(raw any) ParsedValue[float64] {
	if text, ok := raw.(string); ok {
		return parsePriceText(text)
	}
	if f, ok := numericValue(raw); ok {
		return Parsed(f)
	}
	return Invalid[float64]()
}

// ParseMileageValue is the tagged form of ParseMileage.
func ParseMileageValue(raw any) ParsedValue[int] {
	if text, ok := raw.(string); ok {
		return parseMileageText(text)
	}
	if f, ok := numericValue(raw); ok {
		return Parsed(int(math.Trunc(f)))
	}
	return Invalid[int]()
}

func parsePriceText(text string) ParsedValue[float64] {
	cleaned := strings.Map(func(r rune) rune {
		if isCurrencySymbol(r) || unicode.IsSpace(r) || r == '.' {
			return -1
		}
		return r
	}, text)
	cleaned = strings.Replace(cleaned, ",", ".", 1)

	prefix := leadingNumber(cleaned, true)
	if prefix == "" {
		return Invalid[float64]()
	}

	f, err := strconv.ParseFloat(prefix, 64)
	if err != nil {
		return Invalid[float64]()
	}
	return Parsed(f)
}

func parseMileageText(text string) ParsedValue[int] {
	lower := strings.ToLower(text)
	lower = strings.ReplaceAll(lower, "km", "")
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '.' {
			return -1
		}
		return r
	}, lower)

	prefix := leadingNumber(cleaned, false)
	if prefix == "" {
		return Invalid[int]()
	}

	n, err := strconv.Atoi(prefix)
	if err != nil {
		return Invalid[int]()
	}
	return Parsed(n)
}

// leadingNumber returns the longest numeric prefix of s ("-12.5abc" -> "-12.5").
// Returns "" when s does not start with a digit (after an optional sign).
func leadingNumber(s string, allowFraction bool) string {
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return ""
	}
	if allowFraction && end < len(s) && s[end] == '.' {
		fracEnd := end + 1
		for fracEnd < len(s) && s[fracEnd] >= '0' && s[fracEnd] <= '9' {
			fracEnd++
		}
		if fracEnd > end+1 {
			end = fracEnd
		}
	}
	return s[:end]
}

func isCurrencySymbol(r rune) bool {
	return r == '€' || r == '$' || r == '£' || unicode.Is(unicode.Sc, r)
}

// numericValue accepts every Go numeric kind plus json.Number
func numericValue(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int8:
		f = float64(v)
	case int16:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case uint:
		f = float64(v)
	case uint8:
		f = float64(v)
	case uint16:
		f = float64(v)
	case uint32:
		f = float64(v)
	case uint64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// FormatPrice renders a price the way Spanish listings print it: "27.570 €", "1.234,5 €".
// ParsePrice(FormatPrice(x)) == x for any finite x.
func FormatPrice(value float64) string {
	return formatLocaleNumber(value) + " €"
}

// FormatMileage renders whole kilometres as "45.000 km".
func FormatMileage(km int) string {
	return formatLocaleNumber(float64(km)) + " km"
}

func formatLocaleNumber(value float64) string {
	sign := ""
	if value < 0 {
		sign = "-"
		value = -value
	}

	text := strconv.FormatFloat(value, 'f', -1, 64)
	intPart, fracPart, hasFrac := strings.Cut(text, ".")

	var grouped strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			grouped.WriteByte('.')
		}
		grouped.WriteRune(r)
	}

	if hasFrac {
		return sign + grouped.String() + "," + fracPart
	}
	return sign + grouped.String()
}

package valuation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	// trimTokenPattern matches a BMW-style version token: optional M, 2-3 digits, letters ("320d", "M135i", "40i").
	trimTokenPattern = regexp.MustCompile(`(?i)\bM?\d{2,3}[a-z]+\b`)

	// premiumCandidatePattern matches a digit run of two or more followed by a letter ("330i", "xDrive30d").
	premiumCandidatePattern = regexp.MustCompile(`(?i)(\d{2,})[a-z]`)
)

// TrimCode is a version token extracted from free-text model names.
// The zero value means "no trim found"; use the ok result of the extractors instead of comparing.
type TrimCode struct {
	raw    string
	digits string
}

func newTrimCode(raw, digits string) TrimCode {
	return TrimCode{raw: raw, digits: digits}
}

// Raw returns the token as it appeared in the model text ("320d")
func (t TrimCode) Raw() string {
	return t.raw
}

// Digits returns the numeric run of the token ("320")
func (t TrimCode) Digits() string {
	return t.digits
}

// EngineCode returns the displacement code carried by the last two digits of the numeric run.
// Series and engine share the run in BMW naming: "320d" is series 3, engine 20; "M135i" is 35; "40d" is 40.
func (t TrimCode) EngineCode() int {
	digits := t.digits
	if len(digits) > 2 {
		digits = digits[len(digits)-2:]
	}
	code, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return code
}

func (t TrimCode) String() string {
	return t.raw
}

// ExtractTrimCode returns the first version token in a model name, used by the partial matcher tier.
func ExtractTrimCode(model string) (TrimCode, bool) {
	match := trimTokenPattern.FindString(model)
	if match == "" {
		return TrimCode{}, false
	}
	return newTrimCode(match, leadingDigits(strings.TrimLeft(match, "Mm"))), true
}

// ExtractPremiumCandidate returns the first digit run followed by a letter, used by the warranty surcharge.
func ExtractPremiumCandidate(model string) (TrimCode, bool) {
	groups := premiumCandidatePattern.FindStringSubmatch(model)
	if groups == nil {
		return TrimCode{}, false
	}
	return newTrimCode(groups[0], groups[1]), true
}

// IsPremiumTrim reports whether a trim carries the warranty surcharge
func IsPremiumTrim(code TrimCode) bool {
	return code.digits != "" && code.EngineCode() >= PremiumEngineCode
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

package models

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// ZeroAmount is the normalized form of a missing or unparsable amount.
const ZeroAmount = "0.00"

// AmountPlaces is the number of fractional digits of a normalized amount.
const AmountPlaces = 2

var (
	// spreadsheet decoration removed before the sign check
	amountNoise = strings.NewReplacer("$", "", ",", "", "'", "", `"`, "")
	parentheses = strings.NewReplacer("(", "", ")", "")

	// sign, integer digits, fraction digits (either form), exponent
	numericPrefix = regexp.MustCompile(`^([+-]?)(?:(\d+)(?:\.(\d*))?|\.(\d+))(?:[eE]([+-]?\d+))?`)
)

// NormalizeAmount turns a spreadsheet monetary cell into a signed decimal
// string with exactly two fractional digits, e.g. "$1,234.56" -> "1234.56"
// and "(31.15)" -> "-31.15".
//
// A parenthesis anywhere in raw, or a leading minus once currency symbols,
// thousands separators and quotes are removed, marks the amount negative.
// Only the leading numeric part of the cleaned text is read; trailing text is
// ignored. Empty or unparsable input yields "0.00" and never an error.
func NormalizeAmount(raw string) string {
	value, ok := ParseAmount(raw)
	if !ok {
		return ZeroAmount
	}
	return value.StringFixed(AmountPlaces)
}

// ParseAmount is NormalizeAmount returning the decimal value. ok is false when
// raw carries no numeric prefix.
func ParseAmount(raw string) (value decimal.Decimal, ok bool) {
	if raw == "" {
		return decimal.Zero, false
	}

	cleaned := amountNoise.Replace(raw)
	negative := strings.Contains(raw, "(") || strings.HasPrefix(cleaned, "-")
	cleaned = parentheses.Replace(cleaned)

	value, ok = parseLeadingDecimal(cleaned)
	if !ok {
		return decimal.Zero, false
	}

	// an explicit minus already made the value negative
	if negative && value.IsPositive() {
		value = value.Neg()
	}
	return value, true
}

// parseLeadingDecimal reads the longest number at the start of s, after
// leading whitespace. Numbers beyond the float64 range are rejected and
// numbers that underflow it read as zero.
func parseLeadingDecimal(s string) (decimal.Decimal, bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	m := numericPrefix.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}

	sign, intPart, fracPart, exponent := m[1], m[2], m[3], m[5]
	if intPart == "" {
		intPart = "0"
		fracPart = m[4]
	}

	var canonical strings.Builder
	if sign == "-" {
		canonical.WriteByte('-')
	}
	canonical.WriteString(intPart)
	if fracPart != "" {
		canonical.WriteByte('.')
		canonical.WriteString(fracPart)
	}
	if exponent != "" {
		canonical.WriteByte('e')
		canonical.WriteString(exponent)
	}

	// Magnitudes are bounded by float64 before building the decimal, whose
	// rescaling cost grows with the exponent.
	f, err := strconv.ParseFloat(canonical.String(), 64)
	if math.IsInf(f, 0) {
		return decimal.Zero, false
	}
	if f == 0 {
		return decimal.Zero, true
	}
	if err != nil {
		return decimal.Zero, false
	}

	value, err := decimal.NewFromString(canonical.String())
	if err != nil {
		return decimal.Zero, false
	}
	return value, true
}

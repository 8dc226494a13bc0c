package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money renders a dollar amount rounded to whole dollars with thousands
// separators, e.g. -1234567.8 -> "-$1,234,568".
func Money(v float64) string {
	s := decimal.NewFromFloat(v).Round(0).StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	s = "$" + group(s)
	if neg && s != "$0" {
		return "-" + s
	}
	return s
}

// PerTonne renders a $/t figure with cents.
func PerTonne(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	if strings.HasPrefix(s, "-") {
		return "-$" + group(strings.TrimPrefix(s, "-"))
	}
	return "$" + group(s)
}

// Percent renders a fraction as a percentage with one decimal, e.g. 0.0825 -> "8.3%".
func Percent(v float64) string {
	return decimal.NewFromFloat(v).Shift(2).StringFixed(1) + "%"
}

// Tonnes renders a mass with thousands separators and no decimals.
func Tonnes(v float64) string {
	s := decimal.NewFromFloat(v).Round(0).StringFixed(0)
	if strings.HasPrefix(s, "-") {
		return "-" + group(strings.TrimPrefix(s, "-")) + " t"
	}
	return group(s) + " t"
}

// group inserts commas into the integer part of an unsigned decimal string.
func group(s string) string {
	intPart, frac, hasFrac := strings.Cut(s, ".")
	if len(intPart) <= 3 {
		return s
	}
	var b strings.Builder
	lead := len(intPart) % 3
	if lead > 0 {
		b.WriteString(intPart[:lead])
	}
	for i := lead; i < len(intPart); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(intPart[i : i+3])
	}
	if hasFrac {
		b.WriteByte('.')
		b.WriteString(frac)
	}
	return b.String()
}

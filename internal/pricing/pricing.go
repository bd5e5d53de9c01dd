package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// groupedDotsRe matches prices whose dots are all thousands groups
// ("1.299", "1.234.567") as opposed to a decimal point ("1299.99").
var groupedDotsRe = regexp.MustCompile(`^\d{1,3}(\.\d{3})+$`)

// Clean parses locale-formatted price text into a decimal. Non-numeric
// characters are stripped, thousands dots removed and the decimal comma
// converted to a point ("1.234,56" -> 1234.56). Without a comma, dots are
// treated as thousands separators only when every dot groups exactly three
// digits ("1.299" -> 1299), so an already canonical "1234.56" passes
// through unchanged. Returns zero on any parse failure or non-positive
// result, never an error.
func Clean(text string) decimal.Decimal {
	var b strings.Builder
	for _, r := range text {
		if (r >= '0' && r <= '9') || r == '.' || r == ',' {
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	switch {
	case strings.Contains(cleaned, ","):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	case groupedDotsRe.MatchString(cleaned):
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	if cleaned == "" {
		return decimal.Zero
	}

	price, err := decimal.NewFromString(cleaned)
	if err != nil || !price.IsPositive() {
		return decimal.Zero
	}

	return price
}

// ParseState parses a plain numeric price from the embedded state script
// ("1299.99"). Zero on failure or non-positive values.
func ParseState(text string) decimal.Decimal {
	price, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil || !price.IsPositive() {
		return decimal.Zero
	}
	return price
}

// Markup is the fixed percentage added to an extracted base price before it
// is treated as final.
type Markup struct {
	Percent decimal.Decimal
}

var hundred = decimal.NewFromInt(100)

// Apply returns base * (1 + Percent/100) rounded to 2 decimal places.
// Callers apply it exactly once, at the point the raw price is accepted as
// valid; an already marked-up value is never fed back in.
func (m Markup) Apply(base decimal.Decimal) decimal.Decimal {
	if !base.IsPositive() {
		return decimal.Zero
	}
	factor := decimal.NewFromInt(1).Add(m.Percent.Div(hundred))
	return base.Mul(factor).Round(2)
}

// Package normalize turns scraped retailer text into numeric values.
//
// Canadian clearance listings mix English and French price formatting:
// "$12.99", "12,99 $", "1 234,50 $" (narrow no-break space as thousands
// separator) all appear in the wild, sometimes inside longer strings like
// "Prix en liquidation 24,99 $".
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// priceRegex finds the first number-like token in a string. Separators are
// kept so the locale can be resolved afterwards.
var priceRegex = regexp.MustCompile(`\d+(?:[ \x{00a0}\x{202f},.]\d+)*`)

var spaceRegex = regexp.MustCompile(`\s+`)

// ParsePrice extracts the first price from a raw string and returns it as a
// float. ok is false when no parseable number is present. The function is
// pure: the same input always yields the same output.
func ParsePrice(raw string) (float64, bool) {
	if raw == "" {
		return 0, false
	}

	// Unify exotic spaces so the regex sees plain separators.
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', ' ', ' ':
			return ' '
		}
		return r
	}, raw)

	found := priceRegex.FindString(cleaned)
	if found == "" {
		return 0, false
	}

	// Spaces inside the match are thousands separators ("1 234,50").
	found = strings.ReplaceAll(found, " ", "")

	lastComma := strings.LastIndex(found, ",")
	lastDot := strings.LastIndex(found, ".")

	switch {
	case lastComma > lastDot:
		// French style: comma is the decimal separator, dots (if any) group
		// thousands.
		found = strings.ReplaceAll(found[:lastComma], ".", "") + "." + found[lastComma+1:]
		found = strings.ReplaceAll(found, ",", "")
	default:
		// English style: strip grouping commas, keep the dot.
		found = strings.ReplaceAll(found, ",", "")
	}

	price, err := strconv.ParseFloat(found, 64)
	if err != nil {
		return 0, false
	}
	return price, true
}

// DiscountPercent derives the rounded percentage saved from a (regular, sale)
// pair. A liquidation price above the regular price is treated as data noise
// and yields ok=false rather than a negative figure.
func DiscountPercent(regular, sale float64) (int, bool) {
	if regular <= 0 || sale <= 0 || sale > regular {
		return 0, false
	}
	return int(math.Round((regular - sale) / regular * 100)), true
}

// CleanText collapses runs of whitespace and trims the result. Scraped card
// text routinely carries newlines and tab indentation from the page markup.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.TrimSpace(spaceRegex.ReplaceAllString(s, " "))
}

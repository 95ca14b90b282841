package daybook

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyMarks = []string{"₹", "Rs.", "Rs", "INR"}

// parseAmount reads an amount written with '.' as the decimal point and any
// digit grouping, Indian ("1,17,000.00") or western ("117,000.00"). A blank
// cell is zero.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.TrimSpace(s)
	for _, m := range currencyMarks {
		clean = strings.TrimPrefix(clean, m)
	}

	clean = strings.ReplaceAll(clean, ",", "")
	clean = strings.ReplaceAll(clean, " ", "")

	if clean == "" || clean == "-" {
		return decimal.Zero, nil
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}

	return d, nil
}

package fiscalia

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a European-formatted amount string.
// Format examples: "1.234,56" -> 1234.56, "1500,50" -> 1500.50, "0,00" -> 0.
func parseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(s, ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")

	return decimal.NewFromString(clean)
}

package utils

import (
	"fmt"
	"math"
	"strings"
)

// FormatKRW formats an amount as Korean won for receipts and the closing
// report, e.g. 1234500 -> "₩1,234,500". Won has no subunit so the amount is
// rounded to whole won; negatives keep their sign in front of the symbol.
func FormatKRW(amount float64) string {
	negative := amount < 0
	whole := int64(math.Round(math.Abs(amount)))

	digits := fmt.Sprintf("%d", whole)
	var groups []string
	for len(digits) > 3 {
		groups = append([]string{digits[len(digits)-3:]}, groups...)
		digits = digits[:len(digits)-3]
	}
	groups = append([]string{digits}, groups...)

	formatted := "₩" + strings.Join(groups, ",")
	if negative {
		return "-" + formatted
	}
	return formatted
}

package util

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseEuroAmount parses a European-formatted amount token such as
// "1.234,56", "-89,00" or the plain "179.00" form. Thousand-separator
// dots are only stripped when a comma decimal part is present;
// otherwise a single dot is kept as the decimal separator.
func ParseEuroAmount(token string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(token)
	if s == "" {
		return decimal.Zero, false
	}

	if strings.Contains(s, ",") {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

// AmountsEqual reports whether two amounts agree within the matching
// tolerance of half a cent.
func AmountsEqual(a, b decimal.Decimal) bool {
	tolerance := decimal.New(5, -3)
	return a.Sub(b).Abs().LessThan(tolerance)
}

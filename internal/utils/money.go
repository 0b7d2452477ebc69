package utils

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// FormatDollars renders whole dollars the way buyers see them: "$15,000".
func FormatDollars(amount int64) string {
	return "$" + humanize.Comma(amount)
}

// FormatCents renders minor units, dropping ".00" for whole amounts.
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	if cents%100 == 0 {
		return sign + FormatDollars(cents/100)
	}
	return fmt.Sprintf("%s$%s.%02d", sign, humanize.Comma(cents/100), cents%100)
}

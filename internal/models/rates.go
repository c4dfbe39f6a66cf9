package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RateTable maps upper-case currency codes to their value relative to a
// fixed pivot unit: rate[x] means 1 pivot unit = rate[x] units of x.
// The table is supplied fresh per evaluation by an external collaborator;
// the core never fetches rates itself.
type RateTable map[string]decimal.Decimal

// NewRateTable builds a rate table with normalized (upper-case) codes.
func NewRateTable(rates map[string]decimal.Decimal) RateTable {
	t := make(RateTable, len(rates))
	for code, rate := range rates {
		t[strings.ToUpper(code)] = rate
	}
	return t
}

// Rate looks up a currency case-insensitively.
func (t RateTable) Rate(code string) (decimal.Decimal, bool) {
	rate, ok := t[strings.ToUpper(code)]
	return rate, ok
}

// Package fx normalizes monetary amounts between currencies using an
// externally supplied rate table.
package fx

import (
	"fmt"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/bobmcallan/tally/internal/models"
)

// Convert converts amount from one currency to another via the table's
// pivot unit: amount / rate[from] * rate[to]. Same-currency conversions
// (case-insensitive) return the amount unchanged so no rounding drift is
// introduced. A missing rate entry is an error, never treated as 1.
func Convert(amount decimal.Decimal, from, to string, rates models.RateTable) (decimal.Decimal, error) {
	if strings.EqualFold(from, to) {
		return amount, nil
	}

	fromRate, ok := rates.Rate(from)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %q", models.ErrUnknownCurrency, strings.ToUpper(from))
	}
	toRate, ok := rates.Rate(to)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: no rate for %q", models.ErrUnknownCurrency, strings.ToUpper(to))
	}
	if fromRate.IsZero() {
		return decimal.Zero, fmt.Errorf("%w: zero rate for %q", models.ErrUnknownCurrency, strings.ToUpper(from))
	}

	return amount.Div(fromRate).Mul(toRate), nil
}

// Round2 rounds to 2 decimal places. Used only at presentation boundaries;
// intermediate calculation steps keep full precision.
func Round2(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(2)
}

// FormatMoney renders an amount with its currency's symbol and fraction
// rules (e.g. "$1,059.84"). Unknown codes fall back to a plain
// "CODE 123.45" rendering.
func FormatMoney(amount decimal.Decimal, code string) string {
	code = strings.ToUpper(code)
	cur := money.GetCurrency(code)
	if cur == nil {
		return fmt.Sprintf("%s %s", code, amount.StringFixed(2))
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), code).Display()
}

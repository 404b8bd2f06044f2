// Package money holds the decimal helpers used for every amount in both desks.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Epsilon absorbs rounding in operator-entered amounts when comparing against a total.
var Epsilon = decimal.RequireFromString("0.0001")

// Parse reads an operator-entered amount. Negative amounts are rejected.
func Parse(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", s)
	}
	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("amount must not be negative")
	}
	return d, nil
}

// Format renders an amount with two decimals and an optional currency symbol.
func Format(symbol string, d decimal.Decimal) string {
	return symbol + d.StringFixed(2)
}

// Covers reports whether paid settles due, allowing for Epsilon.
func Covers(paid, due decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(due.Sub(Epsilon))
}

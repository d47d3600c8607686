package decimal

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Zero is decimal zero
var Zero = decimal.Zero

// FromString parses decimal from string
func FromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}

// MustFromString parses decimal from string, panics on error
func MustFromString(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// ParseAmount parses a money amount as written on an invoice and rounds it
// to the currency's minor units. Thousands separators and surrounding
// whitespace are tolerated; "1,234.50" and "1234.5" parse the same.
func ParseAmount(s string, minorUnits int32) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(strings.ReplaceAll(s, ",", ""))
	if cleaned == "" {
		return Zero, fmt.Errorf("empty amount")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Zero, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.IsNegative() {
		return Zero, fmt.Errorf("negative amount %q", s)
	}

	return Round(d, minorUnits), nil
}

// Round rounds to the given number of minor units (2 for USD, 0 for JPY)
func Round(d decimal.Decimal, minorUnits int32) decimal.Decimal {
	if minorUnits < 0 {
		minorUnits = 0
	}
	return d.Round(minorUnits)
}

// IsPositive returns true if decimal is greater than zero
func IsPositive(d decimal.Decimal) bool {
	return d.GreaterThan(Zero)
}

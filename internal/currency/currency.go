// Package currency holds the static table of currencies invoices may be
// issued in. The table is embedded at build time and never mutated.
package currency

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/rezonia/invoice-api/internal/model"
)

//go:embed currencies.yaml
var currenciesYAML []byte

var table = mustLoad(currenciesYAML)

// Load parses a YAML currency table
func Load(data []byte) ([]model.Currency, error) {
	var currencies []model.Currency
	if err := yaml.Unmarshal(data, &currencies); err != nil {
		return nil, fmt.Errorf("parse currency table: %w", err)
	}

	seen := make(map[string]bool, len(currencies))
	for i, c := range currencies {
		code := strings.ToUpper(strings.TrimSpace(c.Code))
		if len(code) != 3 {
			return nil, fmt.Errorf("currency %d: invalid code %q", i, c.Code)
		}
		if seen[code] {
			return nil, fmt.Errorf("currency %d: duplicate code %s", i, code)
		}
		seen[code] = true
		currencies[i].Code = code
	}

	return currencies, nil
}

func mustLoad(data []byte) []model.Currency {
	currencies, err := Load(data)
	if err != nil {
		panic(err)
	}
	return currencies
}

// All returns a copy of the supported currencies in table order
func All() []model.Currency {
	out := make([]model.Currency, len(table))
	copy(out, table)
	return out
}

// Codes returns the supported currency codes in table order
func Codes() []string {
	codes := make([]string, len(table))
	for i, c := range table {
		codes[i] = c.Code
	}
	return codes
}

// Lookup finds a currency by code, ignoring case
func Lookup(code string) (model.Currency, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range table {
		if c.Code == code {
			return c, true
		}
	}
	return model.Currency{}, false
}

package market

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
)

// The built-in rate book. Amounts in Zones are local currency; Bulk rates
// are reference currency (CNY) per kilogram. Standard-channel step rates are
// per billing increment, so VN's steps are priced per 100 g while the other
// markets bill per 10 g.

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func builtinTariffs() []Tariff {
	return []Tariff{
		{
			Code:           Thailand,
			Currency:       "THB",
			ExchangeRate:   dec("5"),
			IncrementGrams: 10,
			Zones: map[Zone]ZoneRate{
				1: {Base: dec("23"), StepRate: dec("1")},
				2: {Base: dec("28"), StepRate: dec("1.2")},
				3: {Base: dec("34"), StepRate: dec("1.5")},
				4: {Base: dec("45"), StepRate: dec("2")},
			},
			Bulk: map[Channel]BulkRate{
				Land: {PerKg: dec("6.5"), MinKg: dec("10")},
				Air:  {PerKg: dec("14"), MinKg: dec("5")},
				Sea:  {PerKg: dec("3.2"), MinKg: dec("50")},
			},
		},
		{
			Code:           Malaysia,
			Currency:       "MYR",
			ExchangeRate:   dec("0.65"),
			IncrementGrams: 10,
			Zones: map[Zone]ZoneRate{
				1: {Base: dec("4.5"), StepRate: dec("0.15")},
				2: {Base: dec("5.5"), StepRate: dec("0.2")},
				3: {Base: dec("9"), StepRate: dec("0.35")},
			},
			Bulk: map[Channel]BulkRate{
				Land: {PerKg: dec("7"), MinKg: dec("10")},
				Air:  {PerKg: dec("15"), MinKg: dec("5")},
				Sea:  {PerKg: dec("3"), MinKg: dec("50")},
			},
		},
		{
			// No land route is offered to the Philippines.
			Code:           Philippines,
			Currency:       "PHP",
			ExchangeRate:   dec("8"),
			IncrementGrams: 10,
			Zones: map[Zone]ZoneRate{
				1: {Base: dec("40"), StepRate: dec("1.8")},
				2: {Base: dec("50"), StepRate: dec("2.2")},
				3: {Base: dec("75"), StepRate: dec("3")},
			},
			Bulk: map[Channel]BulkRate{
				Air: {PerKg: dec("16"), MinKg: dec("5")},
				Sea: {PerKg: dec("3.5"), MinKg: dec("50")},
			},
		},
		{
			// Legacy tariff: 100 g banding, selling prices rounded up
			// to the nearest 100 dong.
			Code:           Vietnam,
			Currency:       "VND",
			ExchangeRate:   dec("3500"),
			IncrementGrams: 100,
			RoundLocalTo:   100,
			Zones: map[Zone]ZoneRate{
				1: {Base: dec("18000"), StepRate: dec("2500")},
				2: {Base: dec("22000"), StepRate: dec("3000")},
				3: {Base: dec("30000"), StepRate: dec("4000")},
			},
			Bulk: map[Channel]BulkRate{
				Land: {PerKg: dec("5"), MinKg: dec("10")},
				Air:  {PerKg: dec("12"), MinKg: dec("5")},
				Sea:  {PerKg: dec("2.8"), MinKg: dec("50")},
			},
		},
	}
}

// DefaultBook returns the built-in rate book.
func DefaultBook() *Book {
	book, err := NewBook(builtinTariffs())
	if err != nil {
		// The built-in tables are covered by tests; reaching this
		// means the binary itself is broken.
		panic(fmt.Sprintf("built-in rate book invalid: %v", err))
	}
	return book
}

// LoadBook reads a full replacement rate book from a JSON file. The file
// holds an array of tariffs in the same shape as the built-in tables and is
// validated before use.
func LoadBook(path string) (*Book, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rate book: %w", err)
	}
	var tariffs []Tariff
	if err := json.Unmarshal(raw, &tariffs); err != nil {
		return nil, fmt.Errorf("parse rate book %s: %w", path, err)
	}
	book, err := NewBook(tariffs)
	if err != nil {
		return nil, fmt.Errorf("validate rate book %s: %w", path, err)
	}
	return book, nil
}

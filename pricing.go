package tradebook

import "github.com/shopspring/decimal"

// PriceProvider supplies the current per-share price for a ticker
// symbol. A non-positive price is the sentinel for an unrecognized
// symbol.
//
// Note that a price of exactly zero is indistinguishable from a symbol
// the provider does not know; this is the observed contract of the
// boundary and implementations must not return zero for a real quote.
type PriceProvider interface {
	Price(symbol string) Money
}

// PriceFunc adapts an ordinary function to the PriceProvider interface.
type PriceFunc func(symbol string) Money

func (f PriceFunc) Price(symbol string) Money { return f(symbol) }

// StaticPrices is a fixed in-memory price table. It stands in for a
// live market-data feed in the CLI and the demo web UI, and in tests.
type StaticPrices struct {
	currency string
	table    map[string]decimal.Decimal
}

// NewStaticPrices returns a table pre-filled with the demo quotes.
func NewStaticPrices(currency string) *StaticPrices {
	p := &StaticPrices{currency: currency, table: make(map[string]decimal.Decimal)}
	for symbol, price := range map[string]float64{
		"AAPL":  170.00,
		"TSLA":  250.00,
		"GOOGL": 120.00,
		"MSFT":  320.00,
		"AMZN":  130.00,
		"NVDA":  450.00,
	} {
		p.Set(symbol, price)
	}
	return p
}

// Set adds or replaces the quote for a symbol.
func (p *StaticPrices) Set(symbol string, price float64) {
	p.table[normalize(symbol)] = decimal.NewFromFloat(price)
}

// Price returns the table quote, or zero for an unknown symbol.
func (p *StaticPrices) Price(symbol string) Money {
	value, ok := p.table[normalize(symbol)]
	if !ok {
		return M(0, p.currency)
	}
	return M(value, p.currency)
}

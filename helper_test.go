package tradebook

import "time"

// USD is a helper for tests to create dollar money from const
func USD(v float64) Money { return M(v, "USD") }

// countingPrices wraps a provider and counts lookups, to verify the
// short-circuit contracts.
type countingPrices struct {
	PriceProvider
	calls int
}

func (c *countingPrices) Price(symbol string) Money {
	c.calls++
	return c.PriceProvider.Price(symbol)
}

// fixedNow pins the package clock to a fixed instant and returns a
// restore function.
func fixedNow(t time.Time) func() {
	prev := now
	now = func() time.Time { return t }
	return func() { now = prev }
}

package tradebook

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
)

// now is the clock used to timestamp records. Tests substitute it for
// deterministic capture times.
var now = time.Now

// Account manages a single paper-trading account: its cash balance, its
// share holdings and the append-only log of every operation attempt.
//
// Every mutating operation validates its preconditions before touching
// any state, appends exactly one Transaction record whatever the
// outcome, and returns the record together with a sentinel error (nil
// on success). A failed operation leaves balance, holdings and the
// deposit total exactly as they were.
//
// An Account is not safe for concurrent use; callers needing concurrent
// access must serialize externally.
type Account struct {
	id       string
	currency string
	pricer   PriceProvider

	cash     Money
	deposits Money // cumulative successful deposits, the cost basis
	holdings map[string]int64
	log      []Transaction
}

// NewAccount creates an empty account with a zero balance, no holdings
// and an empty log. The currency is fixed for the account's lifetime,
// and prices are looked up through the given provider.
func NewAccount(id, currency string, pricer PriceProvider) *Account {
	return &Account{
		id:       id,
		currency: currency,
		pricer:   pricer,
		cash:     M(0, currency),
		deposits: M(0, currency),
		holdings: make(map[string]int64),
	}
}

// ID returns the account identifier.
func (a *Account) ID() string { return a.id }

// Currency returns the account's currency code.
func (a *Account) Currency() string { return a.currency }

// Pricer returns the account's price provider.
func (a *Account) Pricer() PriceProvider { return a.pricer }

// record appends a transaction to the log and returns it. This is the
// only way the log grows; records are never reordered or mutated.
func (a *Account) record(tx Transaction) Transaction {
	a.log = append(a.log, tx)
	return tx
}

// zero returns a zero cash effect in the account currency.
func (a *Account) zero() Money { return M(0, a.currency) }

// Deposit adds funds to the cash balance and grows the cumulative
// deposit total. The amount must be positive.
func (a *Account) Deposit(amount Money) (Transaction, error) {
	if !amount.IsPositive() {
		return a.record(newDeposit(now(), a.zero(), a.cash, false,
			"Deposit amount must be positive.")), ErrInvalidAmount
	}

	a.cash = a.cash.Add(amount)
	a.deposits = a.deposits.Add(amount)
	return a.record(newDeposit(now(), amount, a.cash, true,
		fmt.Sprintf("Deposited %s", amount))), nil
}

// Withdraw removes funds from the cash balance. The amount must be
// positive and must not exceed the balance. A withdrawal rejected for
// insufficient funds records the negative of the requested amount as
// its cash effect even though the balance did not change.
func (a *Account) Withdraw(amount Money) (Transaction, error) {
	if !amount.IsPositive() {
		return a.record(newWithdraw(now(), a.zero(), a.cash, false,
			"Withdrawal amount must be positive.")), ErrInvalidAmount
	}

	if a.cash.LessThan(amount) {
		return a.record(newWithdraw(now(), amount.Neg(), a.cash, false,
			fmt.Sprintf("Insufficient funds. Available: %s, Requested: %s", a.cash, amount))), ErrInsufficientFunds
	}

	a.cash = a.cash.Sub(amount)
	return a.record(newWithdraw(now(), amount.Neg(), a.cash, true,
		fmt.Sprintf("Withdrew %s", amount))), nil
}

// Buy purchases shares of a symbol at the provider's current price,
// deducting the cost from the cash balance. An invalid quantity never
// triggers a price lookup. A purchase rejected for insufficient funds
// records the negative of the attempted cost as its cash effect.
func (a *Account) Buy(symbol string, quantity int64) (Transaction, error) {
	if quantity <= 0 {
		return a.record(newBuy(now(), symbol, quantity, Money{}, a.zero(), a.cash, false,
			"Quantity must be positive.")), ErrInvalidQuantity
	}

	price := a.pricer.Price(symbol)
	if !price.IsPositive() {
		return a.record(newBuy(now(), symbol, quantity, price, a.zero(), a.cash, false,
			fmt.Sprintf("Invalid or unknown symbol: %s. Cannot get price.", symbol))), ErrUnknownSymbol
	}

	cost := price.Mul(quantity)
	if a.cash.LessThan(cost) {
		return a.record(newBuy(now(), symbol, quantity, price, cost.Neg(), a.cash, false,
			fmt.Sprintf("Insufficient funds to buy %d %s. Cost: %s, Available: %s", quantity, symbol, cost, a.cash))), ErrInsufficientFunds
	}

	a.cash = a.cash.Sub(cost)
	a.holdings[normalize(symbol)] += quantity
	return a.record(newBuy(now(), symbol, quantity, price, cost.Neg(), a.cash, true,
		fmt.Sprintf("Bought %d %s at %s each.", quantity, symbol, price))), nil
}

// Sell sells shares of a symbol at the provider's current price, adding
// the proceeds to the cash balance. Holdings are checked before the
// price lookup, so neither an invalid quantity nor an insufficient
// position ever triggers a price query. A position reaching zero is
// removed from the holdings map entirely.
func (a *Account) Sell(symbol string, quantity int64) (Transaction, error) {
	if quantity <= 0 {
		return a.record(newSell(now(), symbol, quantity, Money{}, a.zero(), a.cash, false,
			"Quantity must be positive.")), ErrInvalidQuantity
	}

	key := normalize(symbol)
	held := a.holdings[key]
	if held < quantity {
		return a.record(newSell(now(), symbol, quantity, Money{}, a.zero(), a.cash, false,
			fmt.Sprintf("Not enough %s shares to sell. Have: %d, Requested: %d", symbol, held, quantity))), ErrInsufficientHoldings
	}

	price := a.pricer.Price(symbol)
	if !price.IsPositive() {
		return a.record(newSell(now(), symbol, quantity, price, a.zero(), a.cash, false,
			fmt.Sprintf("Invalid or unknown symbol: %s. Cannot get price.", symbol))), ErrUnknownSymbol
	}

	proceeds := price.Mul(quantity)
	a.cash = a.cash.Add(proceeds)
	a.holdings[key] -= quantity
	if a.holdings[key] == 0 {
		delete(a.holdings, key)
	}
	return a.record(newSell(now(), symbol, quantity, price, proceeds, a.cash, true,
		fmt.Sprintf("Sold %d %s at %s each.", quantity, symbol, price))), nil
}

// Balance returns the current cash balance.
func (a *Account) Balance() Money { return a.cash }

// DepositTotal returns the cumulative sum of all successful deposits.
// It is the cost basis against which profit/loss is measured and is
// never decreased by withdrawals, buys or sells.
func (a *Account) DepositTotal() Money { return a.deposits }

// Holdings returns a copy of the holdings map. Every symbol present
// maps to a strictly positive quantity; mutating the returned map does
// not affect the account.
func (a *Account) Holdings() map[string]int64 {
	return maps.Clone(a.holdings)
}

// Transactions returns a copy of the append-only transaction log in
// chronological (insertion) order.
func (a *Account) Transactions() []Transaction {
	return slices.Clone(a.log)
}

// PortfolioValue returns the cash balance plus the market value of all
// held positions, using a fresh price lookup per symbol at call time. A
// symbol the provider no longer recognizes contributes zero.
func (a *Account) PortfolioValue() Money {
	total := a.cash
	symbols := make([]string, 0, len(a.holdings))
	for symbol := range a.holdings {
		symbols = append(symbols, symbol)
	}
	slices.Sort(symbols)
	for _, symbol := range symbols {
		price := a.pricer.Price(symbol)
		if !price.IsPositive() {
			continue
		}
		total = total.Add(price.Mul(a.holdings[symbol]))
	}
	return total
}

// ProfitLoss returns the portfolio value minus the cumulative deposit
// total. Positive for profit, negative for loss.
func (a *Account) ProfitLoss() Money {
	return a.PortfolioValue().Sub(a.deposits)
}

// normalize maps a ticker symbol to its holdings key.
func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}

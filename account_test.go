package tradebook

import (
	"errors"
	"testing"
)

func newTestAccount() *Account {
	return NewAccount("user123", "USD", NewStaticPrices("USD"))
}

func TestAccount_Deposit(t *testing.T) {
	a := newTestAccount()

	tx, err := a.Deposit(USD(100))
	if err != nil {
		t.Fatalf("Deposit(100) returned error: %v", err)
	}
	if !a.Balance().Equal(USD(100)) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), USD(100))
	}
	if !a.DepositTotal().Equal(USD(100)) {
		t.Errorf("DepositTotal() = %s, want %s", a.DepositTotal(), USD(100))
	}
	if got := len(a.Transactions()); got != 1 {
		t.Fatalf("len(Transactions()) = %d, want 1", got)
	}
	if !tx.Succeeded() {
		t.Error("record not marked successful")
	}
	if !tx.CashEffect().Equal(USD(100)) {
		t.Errorf("CashEffect() = %s, want %s", tx.CashEffect(), USD(100))
	}
	if !tx.BalanceAfter().Equal(USD(100)) {
		t.Errorf("BalanceAfter() = %s, want %s", tx.BalanceAfter(), USD(100))
	}
}

func TestAccount_Deposit_rejectsNonPositive(t *testing.T) {
	for _, amount := range []float64{0, -5} {
		a := newTestAccount()
		tx, err := a.Deposit(USD(amount))
		if !errors.Is(err, ErrInvalidAmount) {
			t.Errorf("Deposit(%v) error = %v, want ErrInvalidAmount", amount, err)
		}
		if !a.Balance().IsZero() || !a.DepositTotal().IsZero() {
			t.Errorf("Deposit(%v) mutated state", amount)
		}
		if tx.Succeeded() || !tx.CashEffect().IsZero() {
			t.Errorf("Deposit(%v) record = success %v effect %s, want failed with zero effect", amount, tx.Succeeded(), tx.CashEffect())
		}
		if got := len(a.Transactions()); got != 1 {
			t.Errorf("len(Transactions()) = %d, want 1", got)
		}
	}
}

func TestAccount_Withdraw(t *testing.T) {
	a := newTestAccount()
	a.Deposit(USD(100))

	tx, err := a.Withdraw(USD(40))
	if err != nil {
		t.Fatalf("Withdraw(40) returned error: %v", err)
	}
	if !a.Balance().Equal(USD(60)) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), USD(60))
	}
	if !a.DepositTotal().Equal(USD(100)) {
		t.Errorf("DepositTotal() = %s, want %s; withdrawals must not shrink the cost basis", a.DepositTotal(), USD(100))
	}
	if !tx.CashEffect().Equal(USD(-40)) {
		t.Errorf("CashEffect() = %s, want %s", tx.CashEffect(), USD(-40))
	}
}

// A withdrawal rejected for insufficient funds must record the negative
// of the requested amount as its attempted cash effect, while a
// non-positive amount records zero.
func TestAccount_Withdraw_attemptedEffect(t *testing.T) {
	a := newTestAccount()
	a.Deposit(USD(100))

	tx, err := a.Withdraw(USD(250))
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Withdraw(250) error = %v, want ErrInsufficientFunds", err)
	}
	if !a.Balance().Equal(USD(100)) {
		t.Errorf("Balance() = %s, want unchanged %s", a.Balance(), USD(100))
	}
	if !tx.CashEffect().Equal(USD(-250)) {
		t.Errorf("CashEffect() = %s, want attempted %s", tx.CashEffect(), USD(-250))
	}
	if !tx.BalanceAfter().Equal(USD(100)) {
		t.Errorf("BalanceAfter() = %s, want pre-attempt %s", tx.BalanceAfter(), USD(100))
	}

	tx, err = a.Withdraw(USD(0))
	if !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("Withdraw(0) error = %v, want ErrInvalidAmount", err)
	}
	if !tx.CashEffect().IsZero() {
		t.Errorf("Withdraw(0) CashEffect() = %s, want zero", tx.CashEffect())
	}
}

func TestAccount_Buy(t *testing.T) {
	a := newTestAccount()
	a.Deposit(USD(10000))

	tx, err := a.Buy("AAPL", 50)
	if err != nil {
		t.Fatalf("Buy(AAPL, 50) returned error: %v", err)
	}
	if !a.Balance().Equal(USD(1500)) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), USD(1500))
	}
	if got := a.Holdings()["AAPL"]; got != 50 {
		t.Errorf("Holdings()[AAPL] = %d, want 50", got)
	}
	buy, ok := tx.(Buy)
	if !ok {
		t.Fatalf("record type = %T, want Buy", tx)
	}
	if !buy.Price.Equal(USD(170)) {
		t.Errorf("Price = %s, want %s", buy.Price, USD(170))
	}
	if !buy.CashEffect().Equal(USD(-8500)) {
		t.Errorf("CashEffect() = %s, want %s", buy.CashEffect(), USD(-8500))
	}
}

func TestAccount_Buy_insufficientFunds(t *testing.T) {
	a := newTestAccount()
	a.Deposit(USD(100))

	tx, err := a.Buy("AAPL", 50)
	if !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("Buy(AAPL, 50) error = %v, want ErrInsufficientFunds", err)
	}
	if !a.Balance().Equal(USD(100)) {
		t.Errorf("Balance() = %s, want unchanged %s", a.Balance(), USD(100))
	}
	if len(a.Holdings()) != 0 {
		t.Errorf("Holdings() = %v, want empty", a.Holdings())
	}
	if got := len(a.Transactions()); got != 2 {
		t.Fatalf("len(Transactions()) = %d, want 2", got)
	}
	// The attempted cost is recorded even though no mutation occurred.
	if !tx.CashEffect().Equal(USD(-8500)) {
		t.Errorf("CashEffect() = %s, want attempted %s", tx.CashEffect(), USD(-8500))
	}
}

func TestAccount_Buy_unknownSymbol(t *testing.T) {
	a := newTestAccount()
	a.Deposit(USD(1000))

	tx, err := a.Buy("UNKNOWN", 10)
	if !errors.Is(err, ErrUnknownSymbol) {
		t.Fatalf("Buy(UNKNOWN, 10) error = %v, want ErrUnknownSymbol", err)
	}
	if !a.Balance().Equal(USD(1000)) || len(a.Holdings()) != 0 {
		t.Errorf("failed buy mutated state: balance %s holdings %v", a.Balance(), a.Holdings())
	}
	if !tx.CashEffect().IsZero() {
		t.Errorf("CashEffect() = %s, want zero", tx.CashEffect())
	}
}

func TestAccount_Sell(t *testing.T) {
	prices := NewStaticPrices("USD")
	a := NewAccount("user123", "USD", prices)
	a.Deposit(USD(10000))
	a.Buy("AAPL", 50) // @170 -> balance 1500

	prices.Set("AAPL", 180)
	tx, err := a.Sell("AAPL", 20)
	if err != nil {
		t.Fatalf("Sell(AAPL, 20) returned error: %v", err)
	}
	if !a.Balance().Equal(USD(5100)) {
		t.Errorf("Balance() = %s, want %s", a.Balance(), USD(5100))
	}
	if got := a.Holdings()["AAPL"]; got != 30 {
		t.Errorf("Holdings()[AAPL] = %d, want 30", got)
	}
	if !tx.CashEffect().Equal(USD(3600)) {
		t.Errorf("CashEffect() = %s, want %s", tx.CashEffect(), USD(3600))
	}
}

func TestAccount_Sell_removesEmptyPosition(t *testing.T) {
	a := newTestAccount()
	a.Deposit(USD(10000))
	a.Buy("AAPL", 10)

	if _, err := a.Sell("AAPL", 10); err != nil {
		t.Fatalf("Sell(AAPL, 10) returned error: %v", err)
	}
	if _, present := a.Holdings()["AAPL"]; present {
		t.Error("holdings retained a zero-quantity entry")
	}
}

func TestAccount_Sell_insufficientHoldings(t *testing.T) {
	stub := &countingPrices{PriceProvider: NewStaticPrices("USD")}
	a := NewAccount("user123", "USD", stub)
	a.Deposit(USD(10000))
	a.Buy("AAPL", 10)
	stub.calls = 0

	_, err := a.Sell("AAPL", 20)
	if !errors.Is(err, ErrInsufficientHoldings) {
		t.Fatalf("Sell(AAPL, 20) error = %v, want ErrInsufficientHoldings", err)
	}
	if stub.calls != 0 {
		t.Errorf("price lookup called %d times; holdings check must short-circuit pricing", stub.calls)
	}
	if got := a.Holdings()["AAPL"]; got != 10 {
		t.Errorf("Holdings()[AAPL] = %d, want unchanged 10", got)
	}
}

// Invalid quantities must never trigger a price query.
func TestAccount_invalidQuantityShortCircuitsPricing(t *testing.T) {
	stub := &countingPrices{PriceProvider: NewStaticPrices("USD")}
	a := NewAccount("user123", "USD", stub)
	a.Deposit(USD(1000))

	if _, err := a.Buy("AAPL", 0); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Buy(AAPL, 0) error = %v, want ErrInvalidQuantity", err)
	}
	if _, err := a.Sell("AAPL", -3); !errors.Is(err, ErrInvalidQuantity) {
		t.Errorf("Sell(AAPL, -3) error = %v, want ErrInvalidQuantity", err)
	}
	if stub.calls != 0 {
		t.Errorf("price lookup called %d times, want 0", stub.calls)
	}
}

func TestAccount_symbolNormalization(t *testing.T) {
	a := newTestAccount()
	a.Deposit(USD(10000))

	if _, err := a.Buy("aapl", 10); err != nil {
		t.Fatalf("Buy(aapl, 10) returned error: %v", err)
	}
	if got := a.Holdings()["AAPL"]; got != 10 {
		t.Fatalf("Holdings()[AAPL] = %d, want 10", got)
	}
	if _, err := a.Sell("Aapl", 10); err != nil {
		t.Fatalf("Sell(Aapl, 10) returned error: %v", err)
	}
	if len(a.Holdings()) != 0 {
		t.Errorf("Holdings() = %v, want empty", a.Holdings())
	}
}

func TestAccount_PortfolioValue(t *testing.T) {
	prices := NewStaticPrices("USD")
	a := NewAccount("user123", "USD", prices)
	a.Deposit(USD(10000))
	a.Buy("AAPL", 10) // @170 -> balance 8300

	// The valuation must use a fresh lookup, not the purchase price.
	prices.Set("AAPL", 175)
	if got := a.PortfolioValue(); !got.Equal(USD(10050)) {
		t.Errorf("PortfolioValue() = %s, want %s", got, USD(10050))
	}
	if got := a.ProfitLoss(); !got.Equal(USD(50)) {
		t.Errorf("ProfitLoss() = %s, want %s", got, USD(50))
	}
}

func TestAccount_copyIsolation(t *testing.T) {
	a := newTestAccount()
	a.Deposit(USD(10000))
	a.Buy("AAPL", 10)

	holdings := a.Holdings()
	holdings["AAPL"] = 999
	holdings["TSLA"] = 1
	if got := a.Holdings()["AAPL"]; got != 10 {
		t.Errorf("Holdings()[AAPL] = %d after caller mutation, want 10", got)
	}
	if _, present := a.Holdings()["TSLA"]; present {
		t.Error("caller mutation leaked into holdings")
	}

	txs := a.Transactions()
	txs[0] = txs[1]
	if a.Transactions()[0].What() != KindDeposit {
		t.Error("caller mutation leaked into the transaction log")
	}
}

// Every mutating call appends exactly one record, on success and on
// every failure path alike.
func TestAccount_alwaysRecords(t *testing.T) {
	a := newTestAccount()

	steps := []func() (Transaction, error){
		func() (Transaction, error) { return a.Deposit(USD(100)) },
		func() (Transaction, error) { return a.Deposit(USD(-1)) },
		func() (Transaction, error) { return a.Withdraw(USD(0)) },
		func() (Transaction, error) { return a.Withdraw(USD(500)) },
		func() (Transaction, error) { return a.Buy("AAPL", 0) },
		func() (Transaction, error) { return a.Buy("UNKNOWN", 1) },
		func() (Transaction, error) { return a.Buy("AAPL", 50) },
		func() (Transaction, error) { return a.Sell("AAPL", 5) },
		func() (Transaction, error) { return a.Sell("MSFT", 5) },
	}
	for i, step := range steps {
		step()
		if got := len(a.Transactions()); got != i+1 {
			t.Fatalf("after step %d: len(Transactions()) = %d, want %d", i, got, i+1)
		}
	}
}

func TestAccount_invariants(t *testing.T) {
	a := newTestAccount()

	check := func(stage string) {
		t.Helper()
		if a.Balance().IsNegative() {
			t.Errorf("%s: balance %s is negative", stage, a.Balance())
		}
		for symbol, quantity := range a.Holdings() {
			if quantity <= 0 {
				t.Errorf("%s: holdings[%s] = %d, want > 0", stage, symbol, quantity)
			}
		}
	}

	a.Deposit(USD(1000))
	check("after deposit")
	a.Buy("GOOGL", 8) // @120 -> 40 left
	check("after buy")
	a.Withdraw(USD(100)) // fails, 40 < 100
	check("after failed withdraw")
	a.Sell("GOOGL", 8)
	check("after sell all")
	a.Withdraw(USD(1000))
	check("after withdraw")
}

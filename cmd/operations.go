package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tradesim/tradebook"
)

// runOperation loads the account, applies an operation, appends the
// resulting record to the ledger and prints the outcome. A rejected
// operation still appends its record; only the exit status differs.
func runOperation(op func(*tradebook.Account) (tradebook.Transaction, error)) subcommands.ExitStatus {
	a, err := loadAccount()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	tx, opErr := op(a)
	if err := appendRecord(tx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	fmt.Println(tx.Note())
	if opErr != nil {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

// --- Deposit Command ---

type depositCmd struct {
	amount float64
}

func (*depositCmd) Name() string     { return "deposit" }
func (*depositCmd) Synopsis() string { return "add funds to the cash balance" }
func (*depositCmd) Usage() string {
	return `tb deposit -a <amount>

  Adds funds to the cash balance and to the cumulative deposit total.
`
}

func (c *depositCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "a", 0, "Amount to deposit")
}

func (c *depositCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runOperation(func(a *tradebook.Account) (tradebook.Transaction, error) {
		return a.Deposit(tradebook.M(c.amount, *accountCurrency))
	})
}

// --- Withdraw Command ---

type withdrawCmd struct {
	amount float64
}

func (*withdrawCmd) Name() string     { return "withdraw" }
func (*withdrawCmd) Synopsis() string { return "remove funds from the cash balance" }
func (*withdrawCmd) Usage() string {
	return `tb withdraw -a <amount>

  Removes funds from the cash balance. The amount may not exceed the balance.
`
}

func (c *withdrawCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.amount, "a", 0, "Amount to withdraw")
}

func (c *withdrawCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return runOperation(func(a *tradebook.Account) (tradebook.Transaction, error) {
		return a.Withdraw(tradebook.M(c.amount, *accountCurrency))
	})
}

// --- Buy Command ---

type buyCmd struct {
	symbol   string
	quantity int64
}

func (*buyCmd) Name() string     { return "buy" }
func (*buyCmd) Synopsis() string { return "purchase shares to open or add to a position" }
func (*buyCmd) Usage() string {
	return `tb buy -s <symbol> -q <quantity>

  Purchases shares of a symbol at the current price. The total cost is
  debited from the cash balance.
`
}

func (c *buyCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
}

func (c *buyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return runOperation(func(a *tradebook.Account) (tradebook.Transaction, error) {
		return a.Buy(c.symbol, c.quantity)
	})
}

// --- Sell Command ---

type sellCmd struct {
	symbol   string
	quantity int64
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "sell shares to trim or close a position" }
func (*sellCmd) Usage() string {
	return `tb sell -s <symbol> -q <quantity>

  Sells shares of a symbol at the current price. The proceeds are
  credited to the cash balance.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.symbol, "s", "", "Ticker symbol")
	f.Int64Var(&c.quantity, "q", 0, "Number of shares")
}

func (c *sellCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.symbol == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	return runOperation(func(a *tradebook.Account) (tradebook.Transaction, error) {
		return a.Sell(c.symbol, c.quantity)
	})
}

package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/tradesim/tradebook/renderer"
)

// --- Summary Command ---

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display the account statement" }
func (*summaryCmd) Usage() string {
	return `tb summary

  Displays the account statement: cash balance, deposits, holdings,
  portfolio value and profit/loss.
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {}

func (c *summaryCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAccount()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Statement(a))
	return subcommands.ExitSuccess
}

// --- Holdings Command ---

type holdingsCmd struct{}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "list the open positions" }
func (*holdingsCmd) Usage() string {
	return `tb holdings

  Lists the open positions with their current price and market value.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := loadAccount()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Holdings(a))
	return subcommands.ExitSuccess
}

// --- History Command ---

type historyCmd struct {
	head int
	tail int
}

func (*historyCmd) Name() string     { return "history" }
func (*historyCmd) Synopsis() string { return "list all records in the ledger" }
func (*historyCmd) Usage() string {
	return `tb history [-head <n>] [-tail <n>]

  Lists the recorded attempts in chronological order, failures included,
  with options for limiting the output.
`
}

func (c *historyCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.head, "head", 0, "Show only the first N records.")
	f.IntVar(&c.tail, "tail", 0, "Show only the last N records.")
}

func (c *historyCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.head > 0 && c.tail > 0 {
		fmt.Fprintln(os.Stderr, "Error: -head and -tail flags cannot be used together.")
		return subcommands.ExitUsageError
	}

	a, err := loadAccount()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	txs := a.Transactions()
	if c.head > 0 && len(txs) > c.head {
		txs = txs[:c.head]
	}
	if c.tail > 0 && len(txs) > c.tail {
		txs = txs[len(txs)-c.tail:]
	}

	printMarkdown(renderer.History(txs))
	return subcommands.ExitSuccess
}

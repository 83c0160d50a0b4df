// Package cmd implements the tb command line application.
package cmd

import (
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log"
	"os"

	"github.com/google/subcommands"

	"github.com/tradesim/tradebook"
)

// Commands lists all subcommands. A main package registers them on a
// commander and executes the user-selected one.
var Commands = []subcommands.Command{
	&depositCmd{},
	&withdrawCmd{},
	&buyCmd{},
	&sellCmd{},
	&summaryCmd{},
	&holdingsCmd{},
	&historyCmd{},
	&serveCmd{},
	&topicCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var ledgerFile = flag.String("ledger-file", "tradebook.jsonl", "Path to the ledger file containing transaction records (JSONL format)")
var accountID = flag.String("account", "main", "Account identifier")
var accountCurrency = flag.String("currency", "USD", "Account currency code")
var quotesURL = flag.String("quotes-url", "", "URL of a JSON quote feed. Empty uses the built-in demo prices")
var quotesPath = flag.String("quotes-path", tradebook.DefaultQuotePath, "JSONPath template locating a symbol's price in the quote feed")

// pricer returns the price provider selected by the global flags.
func pricer() tradebook.PriceProvider {
	if *quotesURL != "" {
		return &tradebook.QuoteFeed{URL: *quotesURL, Path: *quotesPath, Currency: *accountCurrency}
	}
	return tradebook.NewStaticPrices(*accountCurrency)
}

// loadAccount rebuilds the account by replaying the ledger file.
func loadAccount() (*tradebook.Account, error) {
	f, err := os.Open(*ledgerFile)
	if errors.Is(err, fs.ErrNotExist) {
		log.Println("warning, ledger file does not exist, starting with an empty account")
		return tradebook.NewAccount(*accountID, *accountCurrency, pricer()), nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	txs, err := tradebook.DecodeLog(f)
	if err != nil {
		return nil, fmt.Errorf("reading ledger %q: %w", *ledgerFile, err)
	}
	return tradebook.Replay(*accountID, *accountCurrency, pricer(), txs)
}

// appendRecord appends a single record to the ledger file, creating it
// if it doesn't exist.
func appendRecord(tx tradebook.Transaction) error {
	f, err := os.OpenFile(*ledgerFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening ledger file %q: %w", *ledgerFile, err)
	}
	defer f.Close()

	if err := tradebook.EncodeTransaction(f, tx); err != nil {
		return fmt.Errorf("writing to ledger file %q: %w", *ledgerFile, err)
	}
	return nil
}

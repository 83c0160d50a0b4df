package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"
	"github.com/tradesim/tradebook"
)

// History renders a transaction log to a markdown table, one row per
// recorded attempt, failures included.
func History(txs []tradebook.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)

	doc.H1("Transaction History")

	table := md.TableSet{
		Header: []string{"Date", "Kind", "Detail", "Effect", "Balance", "Status"},
		Rows:   [][]string{},
	}
	for _, tx := range txs {
		status := "ok"
		if !tx.Succeeded() {
			status = "failed"
		}
		table.Rows = append(table.Rows, []string{
			tx.When().Format("2006-01-02 15:04:05"),
			string(tx.What()),
			Transaction(tx),
			tx.CashEffect().SignedString(),
			tx.BalanceAfter().String(),
			status,
		})
	}
	doc.Table(table)

	return doc.String()
}

// Transaction renders a transaction to a one line string. Rejected
// attempts read as rejections, not as completed actions.
func Transaction(tx tradebook.Transaction) string {
	switch v := tx.(type) {
	case tradebook.Buy:
		if !v.Succeeded() {
			return fmt.Sprintf("Buy %d %s rejected", v.Quantity, v.Symbol)
		}
		return fmt.Sprintf("%d %s @ %s", v.Quantity, v.Symbol, v.Price)
	case tradebook.Sell:
		if !v.Succeeded() {
			return fmt.Sprintf("Sell %d %s rejected", v.Quantity, v.Symbol)
		}
		return fmt.Sprintf("%d %s @ %s", v.Quantity, v.Symbol, v.Price)
	case tradebook.Deposit:
		if !v.Succeeded() {
			return "Deposit rejected"
		}
		return fmt.Sprintf("Deposited %s", v.CashEffect())
	case tradebook.Withdraw:
		if !v.Succeeded() {
			// The attempted amount is on record for funds rejections only.
			if v.CashEffect().IsZero() {
				return "Withdrawal rejected"
			}
			return fmt.Sprintf("Withdrawal of %s rejected", v.CashEffect().Neg())
		}
		return fmt.Sprintf("Withdrew %s", v.CashEffect().Neg())
	default:
		return string(tx.What())
	}
}

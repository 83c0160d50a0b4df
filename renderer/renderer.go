// Package renderer turns ledger state into markdown reports.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
	"text/template"

	"github.com/tradesim/tradebook"
)

//go:embed *.md
var templates embed.FS

// statementData feeds the statement and holdings templates.
type statementData struct {
	ID             string
	Currency       string
	Balance        string
	DepositTotal   string
	PortfolioValue string
	ProfitLoss     string
	Holdings       []holdingRow
	Records        int
}

type holdingRow struct {
	Symbol   string
	Quantity int64
	Price    string
	Value    string
}

// Statement renders a full account statement to a markdown string.
func Statement(a *tradebook.Account) string {
	partials := map[string]string{
		"statement_holdings": "statement_holdings.md",
	}
	return renderTemplate("statement", "statement.md", partials, newStatementData(a))
}

// Holdings renders the open positions to a markdown string.
func Holdings(a *tradebook.Account) string {
	return renderTemplate("holdings", "holdings.md", nil, newStatementData(a))
}

func newStatementData(a *tradebook.Account) statementData {
	d := statementData{
		ID:             a.ID(),
		Currency:       a.Currency(),
		Balance:        a.Balance().String(),
		DepositTotal:   a.DepositTotal().String(),
		PortfolioValue: a.PortfolioValue().String(),
		ProfitLoss:     a.ProfitLoss().SignedString(),
		Records:        len(a.Transactions()),
	}

	holdings := a.Holdings()
	symbols := make([]string, 0, len(holdings))
	for s := range holdings {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)

	pricer := a.Pricer()
	for _, s := range symbols {
		row := holdingRow{Symbol: s, Quantity: holdings[s], Price: "-", Value: "-"}
		if price := pricer.Price(s); price.IsPositive() {
			row.Price = price.String()
			row.Value = price.Mul(holdings[s]).String()
		}
		d.Holdings = append(d.Holdings, row)
	}
	return d
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

package tradebook

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// EncodeTransaction marshals a single record to JSON and writes it to
// the writer, followed by a newline, in JSONL format.
func EncodeTransaction(w io.Writer, tx Transaction) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write transaction: %w", err)
	}
	return nil
}

// EncodeLog persists a transaction log to an io.Writer in JSONL format,
// one record per line, in its original order.
func EncodeLog(w io.Writer, txs []Transaction) error {
	for _, tx := range txs {
		if err := EncodeTransaction(w, tx); err != nil {
			return err
		}
	}
	return nil
}

// DecodeLog reads a stream of JSONL records, decodes each line into the
// appropriate record struct, and returns them in file order.
func DecodeLog(r io.Reader) ([]Transaction, error) {
	var txs []Transaction
	scanner := bufio.NewScanner(r)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(lineBytes) == 0 {
			continue // Skip empty lines
		}

		var identifier struct {
			Kind Kind `json:"kind"`
		}
		if err := json.Unmarshal(lineBytes, &identifier); err != nil {
			return nil, fmt.Errorf("could not identify record in line %q: %w", string(lineBytes), err)
		}

		var decodedTx Transaction

		switch identifier.Kind {
		case KindDeposit, KindWithdraw:
			var temp baseRec
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			if identifier.Kind == KindDeposit {
				decodedTx = Deposit{temp}
			} else {
				decodedTx = Withdraw{temp}
			}
		case KindBuy, KindSell:
			// Use a temporary type that has all possible fields.
			var temp struct {
				baseRec
				Symbol   string `json:"symbol"`
				Quantity int64  `json:"quantity"`
				Price    Money  `json:"price"`
			}
			if err := json.Unmarshal(lineBytes, &temp); err != nil {
				return nil, err
			}
			rec := shareRec{baseRec: temp.baseRec, Symbol: temp.Symbol, Quantity: temp.Quantity, Price: temp.Price}
			if identifier.Kind == KindBuy {
				decodedTx = Buy{rec}
			} else {
				decodedTx = Sell{rec}
			}
		default:
			return nil, fmt.Errorf("unknown record kind: %q", identifier.Kind)
		}

		txs = append(txs, decodedTx)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading from input: %w", err)
	}

	return txs, nil
}

// Replay rebuilds an account from a previously persisted transaction
// log. Only successful records mutate state; failed ones are kept in
// the log untouched, preserving the audit trail. Every record's
// recorded balance is cross-checked against the replayed balance, so a
// tampered or truncated file is detected instead of silently producing
// a wrong account.
func Replay(id, currency string, pricer PriceProvider, txs []Transaction) (*Account, error) {
	a := NewAccount(id, currency, pricer)

	for i, tx := range txs {
		if tx.Succeeded() {
			switch v := tx.(type) {
			case Deposit:
				a.cash = a.cash.Add(v.Effect)
				a.deposits = a.deposits.Add(v.Effect)
			case Withdraw:
				a.cash = a.cash.Add(v.Effect) // effect is negative
			case Buy:
				a.cash = a.cash.Add(v.Effect)
				a.holdings[normalize(v.Symbol)] += v.Quantity
			case Sell:
				key := normalize(v.Symbol)
				if a.holdings[key] < v.Quantity {
					return nil, fmt.Errorf("record %d: sell of %d %s exceeds replayed position %d", i, v.Quantity, v.Symbol, a.holdings[key])
				}
				a.cash = a.cash.Add(v.Effect)
				a.holdings[key] -= v.Quantity
				if a.holdings[key] == 0 {
					delete(a.holdings, key)
				}
			default:
				return nil, fmt.Errorf("record %d: unsupported record type %T", i, tx)
			}
		}

		// A record's balance-after is the balance at append time,
		// mutated or not, so it must match on both outcomes.
		if !a.cash.Equal(tx.BalanceAfter()) {
			return nil, fmt.Errorf("record %d: replayed balance %s does not match recorded balance %s", i, a.cash, tx.BalanceAfter())
		}
		if a.cash.IsNegative() {
			return nil, fmt.Errorf("record %d: replayed balance %s is negative", i, a.cash)
		}
		a.log = append(a.log, tx)
	}
	return a, nil
}

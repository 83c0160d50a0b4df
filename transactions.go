package tradebook

import (
	"time"
)

// Kind is a typed string for identifying transaction records.
type Kind string

// Record kinds used for identifying transactions.
const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindBuy      Kind = "buy"
	KindSell     Kind = "sell"
)

// Transaction defines the common interface for the immutable records
// appended to an account log. Exactly one record is appended per
// operation attempt, whether it succeeded or not.
type Transaction interface {
	What() Kind            // What returns the kind of the record (e.g., "buy", "sell").
	When() time.Time       // When returns the capture time of the attempt.
	CashEffect() Money     // CashEffect returns the signed amount by which cash changed (or would have, for funds failures).
	BalanceAfter() Money   // BalanceAfter returns the cash balance at the moment the record was appended.
	Succeeded() bool       // Succeeded reports the outcome of the attempt.
	Note() string          // Note returns the human-readable explanation of the outcome.
	Equal(Transaction) bool
}

// baseRec holds the fields shared by every record kind.
type baseRec struct {
	Command Kind      `json:"kind"`
	Time    time.Time `json:"time"`
	Effect  Money     `json:"effect"`
	After   Money     `json:"after"`
	Success bool      `json:"success"`
	Message string    `json:"message"`
}

func (t baseRec) What() Kind          { return t.Command }
func (t baseRec) When() time.Time     { return t.Time }
func (t baseRec) CashEffect() Money   { return t.Effect }
func (t baseRec) BalanceAfter() Money { return t.After }
func (t baseRec) Succeeded() bool     { return t.Success }
func (t baseRec) Note() string        { return t.Message }

// equal compares field by field; Money and time.Time are not reliably
// comparable with ==.
func (t baseRec) equal(o baseRec) bool {
	return t.Command == o.Command &&
		t.Time.Equal(o.Time) &&
		t.Effect.Equal(o.Effect) &&
		t.After.Equal(o.After) &&
		t.Success == o.Success &&
		t.Message == o.Message
}

// MarshalJSON implements the json.Marshaler interface for baseRec.
func (t baseRec) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("kind", t.Command)
	w.Append("time", t.Time)
	w.Append("effect", t.Effect)
	w.Append("after", t.After)
	w.Append("success", t.Success)
	w.Append("message", t.Message)
	return w.MarshalJSON()
}

// shareRec is a component for share-based records (buy, sell).
type shareRec struct {
	baseRec
	Symbol   string `json:"symbol"`
	Quantity int64  `json:"quantity"`
	Price    Money  `json:"price"` // per share; zero when no price lookup happened
}

func (t shareRec) equal(o shareRec) bool {
	return t.baseRec.equal(o.baseRec) &&
		t.Symbol == o.Symbol &&
		t.Quantity == o.Quantity &&
		t.Price.Equal(o.Price)
}

// MarshalJSON implements the json.Marshaler interface for shareRec.
func (t shareRec) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.EmbedFrom(t.baseRec)
	w.Append("symbol", t.Symbol)
	w.Append("quantity", t.Quantity)
	w.Optional("price", t.Price)
	return w.MarshalJSON()
}

// Deposit records a cash deposit attempt.
type Deposit struct {
	baseRec
}

func newDeposit(when time.Time, effect, after Money, success bool, message string) Deposit {
	return Deposit{baseRec{Command: KindDeposit, Time: when, Effect: effect, After: after, Success: success, Message: message}}
}

func (t Deposit) Equal(other Transaction) bool {
	o, ok := other.(Deposit)
	return ok && t.baseRec.equal(o.baseRec)
}

// Withdraw records a cash withdrawal attempt.
//
// A withdrawal rejected for insufficient funds still records the
// negative of the requested amount as its cash effect: the attempted
// effect is kept for audit purposes even though no mutation occurred.
type Withdraw struct {
	baseRec
}

func newWithdraw(when time.Time, effect, after Money, success bool, message string) Withdraw {
	return Withdraw{baseRec{Command: KindWithdraw, Time: when, Effect: effect, After: after, Success: success, Message: message}}
}

func (t Withdraw) Equal(other Transaction) bool {
	o, ok := other.(Withdraw)
	return ok && t.baseRec.equal(o.baseRec)
}

// Buy records a share purchase attempt. A purchase rejected for
// insufficient funds records the negative of the attempted cost as its
// cash effect, like Withdraw.
type Buy struct {
	shareRec
}

func newBuy(when time.Time, symbol string, quantity int64, price, effect, after Money, success bool, message string) Buy {
	return Buy{shareRec{
		baseRec:  baseRec{Command: KindBuy, Time: when, Effect: effect, After: after, Success: success, Message: message},
		Symbol:   symbol,
		Quantity: quantity,
		Price:    price,
	}}
}

func (t Buy) Equal(other Transaction) bool {
	o, ok := other.(Buy)
	return ok && t.shareRec.equal(o.shareRec)
}

// Sell records a share sale attempt.
type Sell struct {
	shareRec
}

func newSell(when time.Time, symbol string, quantity int64, price, effect, after Money, success bool, message string) Sell {
	return Sell{shareRec{
		baseRec:  baseRec{Command: KindSell, Time: when, Effect: effect, After: after, Success: success, Message: message},
		Symbol:   symbol,
		Quantity: quantity,
		Price:    price,
	}}
}

func (t Sell) Equal(other Transaction) bool {
	o, ok := other.(Sell)
	return ok && t.shareRec.equal(o.shareRec)
}

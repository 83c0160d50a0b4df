// Package web exposes a tradebook account over a small JSON API with a
// single page demo UI.
package web

import (
	_ "embed"
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tradesim/tradebook"
)

//go:embed index.html
var indexHTML []byte

// Server serializes access to a single account. Every record produced
// by an operation, failed attempts included, is handed to the sink
// before the response goes out.
type Server struct {
	mu      sync.Mutex
	account *tradebook.Account
	sink    func(tradebook.Transaction) error
}

// New returns a Server around the given account. sink may be nil if
// records need no persistence.
func New(account *tradebook.Account, sink func(tradebook.Transaction) error) *Server {
	return &Server{account: account, sink: sink}
}

// Handler returns the HTTP handler serving the UI and the API.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/api/status", s.handleStatus)
	r.Get("/api/transactions", s.handleTransactions)
	r.Post("/api/deposit", s.handleCash(func(a *tradebook.Account, m tradebook.Money) (tradebook.Transaction, error) { return a.Deposit(m) }))
	r.Post("/api/withdraw", s.handleCash(func(a *tradebook.Account, m tradebook.Money) (tradebook.Transaction, error) { return a.Withdraw(m) }))
	r.Post("/api/buy", s.handleShares(func(a *tradebook.Account, sym string, qty int64) (tradebook.Transaction, error) { return a.Buy(sym, qty) }))
	r.Post("/api/sell", s.handleShares(func(a *tradebook.Account, sym string, qty int64) (tradebook.Transaction, error) { return a.Sell(sym, qty) }))

	return r
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// statusResponse is the account snapshot returned by GET /api/status.
type statusResponse struct {
	ID             string           `json:"id"`
	Currency       string           `json:"currency"`
	Balance        tradebook.Money  `json:"balance"`
	Deposits       tradebook.Money  `json:"deposits"`
	Holdings       map[string]int64 `json:"holdings"`
	PortfolioValue tradebook.Money  `json:"portfolio_value"`
	ProfitLoss     tradebook.Money  `json:"profit_loss"`
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	resp := statusResponse{
		ID:             s.account.ID(),
		Currency:       s.account.Currency(),
		Balance:        s.account.Balance(),
		Deposits:       s.account.DepositTotal(),
		Holdings:       s.account.Holdings(),
		PortfolioValue: s.account.PortfolioValue(),
		ProfitLoss:     s.account.ProfitLoss(),
	}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	txs := s.account.Transactions()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, txs)
}

// outcomeResponse reports the result of an operation attempt. A
// rejected attempt is still a 200: the rejection was recorded in the
// ledger like any other attempt.
type outcomeResponse struct {
	Success bool                  `json:"success"`
	Message string                `json:"message"`
	Balance tradebook.Money       `json:"balance"`
	Record  tradebook.Transaction `json:"record"`
}

func (s *Server) handleCash(op func(*tradebook.Account, tradebook.Money) (tradebook.Transaction, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Amount float64 `json:"amount"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s.apply(w, func(a *tradebook.Account) (tradebook.Transaction, error) {
			return op(a, tradebook.M(req.Amount, a.Currency()))
		})
	}
}

func (s *Server) handleShares(op func(*tradebook.Account, string, int64) (tradebook.Transaction, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Symbol   string `json:"symbol"`
			Quantity int64  `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid request body", http.StatusBadRequest)
			return
		}
		s.apply(w, func(a *tradebook.Account) (tradebook.Transaction, error) {
			return op(a, req.Symbol, req.Quantity)
		})
	}
}

// apply runs an operation under the lock, persists the record, and
// writes the outcome.
func (s *Server) apply(w http.ResponseWriter, op func(*tradebook.Account) (tradebook.Transaction, error)) {
	s.mu.Lock()
	tx, err := op(s.account)
	balance := s.account.Balance()
	s.mu.Unlock()

	if s.sink != nil {
		if serr := s.sink(tx); serr != nil {
			log.Printf("record sink: %v", serr)
			http.Error(w, "failed to persist record", http.StatusInternalServerError)
			return
		}
	}

	writeJSON(w, http.StatusOK, outcomeResponse{
		Success: err == nil,
		Message: tx.Note(),
		Balance: balance,
		Record:  tx,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("write response: %v", err)
	}
}

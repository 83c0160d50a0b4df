package web

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/tradesim/tradebook"
)

// doJSON posts a JSON body and decodes the JSON response, failing the
// test on an unexpected status code.
func doJSON(t *testing.T, c *http.Client, method, url string, body any, wantCode int, out any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatal(err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.Do(req)
	if err != nil {
		t.Fatalf("request error: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantCode {
		t.Fatalf("code=%d want=%d", resp.StatusCode, wantCode)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
}

type amount struct {
	Amount float64 `json:"amount"`
}

type outcome struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Balance amount `json:"balance"`
}

type status struct {
	ID             string           `json:"id"`
	Currency       string           `json:"currency"`
	Balance        amount           `json:"balance"`
	Deposits       amount           `json:"deposits"`
	Holdings       map[string]int64 `json:"holdings"`
	PortfolioValue amount           `json:"portfolio_value"`
	ProfitLoss     amount           `json:"profit_loss"`
}

func TestServerFlowAndRecordSink(t *testing.T) {
	var sunk []tradebook.Transaction

	a := tradebook.NewAccount("user123", "USD", tradebook.NewStaticPrices("USD"))
	s := New(a, func(tx tradebook.Transaction) error {
		sunk = append(sunk, tx)
		return nil
	})
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()
	cli := ts.Client()

	// Deposit, then buy.
	var out outcome
	doJSON(t, cli, "POST", ts.URL+"/api/deposit", map[string]any{"amount": 10000}, 200, &out)
	if !out.Success || out.Balance.Amount != 10000 {
		t.Fatalf("deposit outcome: %+v", out)
	}
	doJSON(t, cli, "POST", ts.URL+"/api/buy", map[string]any{"symbol": "AAPL", "quantity": 50}, 200, &out)
	if !out.Success || out.Balance.Amount != 1500 {
		t.Fatalf("buy outcome: %+v", out)
	}

	// A rejected withdrawal is still a 200 with the recorded message.
	doJSON(t, cli, "POST", ts.URL+"/api/withdraw", map[string]any{"amount": 9000}, 200, &out)
	if out.Success {
		t.Fatal("overdrawn withdrawal must not succeed")
	}
	if !strings.Contains(out.Message, "Insufficient funds") {
		t.Errorf("message = %q", out.Message)
	}
	if out.Balance.Amount != 1500 {
		t.Errorf("balance after rejection = %v, want 1500", out.Balance.Amount)
	}

	// Status reflects the account.
	var st status
	doJSON(t, cli, "GET", ts.URL+"/api/status", nil, 200, &st)
	if st.ID != "user123" || st.Currency != "USD" {
		t.Errorf("status identity: %+v", st)
	}
	if st.Holdings["AAPL"] != 50 {
		t.Errorf("holdings = %v, want AAPL:50", st.Holdings)
	}
	if st.PortfolioValue.Amount != 10000 || st.ProfitLoss.Amount != 0 {
		t.Errorf("valuation: %+v", st)
	}

	// The log has one record per attempt, the rejection included.
	var txs []json.RawMessage
	doJSON(t, cli, "GET", ts.URL+"/api/transactions", nil, 200, &txs)
	if len(txs) != 3 {
		t.Fatalf("log length = %d, want 3", len(txs))
	}

	// Every record reached the sink.
	if len(sunk) != 3 {
		t.Errorf("sink received %d records, want 3", len(sunk))
	}
	if sunk[2].Succeeded() {
		t.Error("third sunk record should be the failed withdrawal")
	}
}

func TestServerBadRequest(t *testing.T) {
	a := tradebook.NewAccount("user123", "USD", tradebook.NewStaticPrices("USD"))
	ts := httptest.NewServer(New(a, nil).Handler())
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/deposit", "application/json", strings.NewReader("{bad json}"))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("code=%d want=400", resp.StatusCode)
	}
	// A malformed request must not leave a record behind.
	if n := len(a.Transactions()); n != 0 {
		t.Errorf("log length = %d after bad request, want 0", n)
	}
}

func TestServerIndex(t *testing.T) {
	a := tradebook.NewAccount("user123", "USD", tradebook.NewStaticPrices("USD"))
	ts := httptest.NewServer(New(a, nil).Handler())
	defer ts.Close()

	resp, err := ts.Client().Get(ts.URL + "/")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("code=%d want=200", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestServerSinkFailure(t *testing.T) {
	a := tradebook.NewAccount("user123", "USD", tradebook.NewStaticPrices("USD"))
	ts := httptest.NewServer(New(a, func(tradebook.Transaction) error {
		return errors.New("disk full")
	}).Handler())
	defer ts.Close()

	resp, err := ts.Client().Post(ts.URL+"/api/deposit", "application/json", strings.NewReader(`{"amount": 100}`))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusInternalServerError {
		t.Fatalf("code=%d want=500", resp.StatusCode)
	}
}

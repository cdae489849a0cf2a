package ledger

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Nike682631/robinhood/internal/credentials"
	"github.com/Nike682631/robinhood/internal/testutil"

	apperrors "github.com/Nike682631/robinhood/internal/errors"
)

func decimalFromString(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("bad decimal literal %q: %v", s, err)
	}
	return d
}

func TestFetchHoldings_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.URL.Path != "/api/portfolio" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("missing or wrong Authorization header: %q", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"ticker": "AAPL", "quantity": 10, "current_price": 150.0, "total_value": 1500.0},
			{"ticker": "TSLA", "quantity": 2, "current_price": 248.5, "total_value": 497.0},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "test-token"}, server.Client())
	holdings, err := c.FetchHoldings(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(holdings) != 2 {
		t.Fatalf("expected 2 holdings, got %d", len(holdings))
	}

	if holdings[0].Ticker != "AAPL" || holdings[0].Quantity != 10 {
		t.Errorf("first holding mismatch: %+v", holdings[0])
	}
	if !holdings[0].CurrentPrice.Equal(decimalFromString(t, "150")) {
		t.Errorf("expected current_price 150, got %s", holdings[0].CurrentPrice)
	}
	if !holdings[1].TotalValue.Equal(decimalFromString(t, "497")) {
		t.Errorf("expected total_value 497, got %s", holdings[1].TotalValue)
	}
}

func TestFetchHoldings_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Invalid token"})
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "stale-token"}, server.Client())
	_, err := c.FetchHoldings(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrUnauthenticated)
}

func TestFetchHoldings_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "test-token"}, server.Client())
	_, err := c.FetchHoldings(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrRemoteUnavailable)
}

func TestFetchHoldings_MalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"not": "a list"}`)
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "test-token"}, server.Client())
	_, err := c.FetchHoldings(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrMalformedResponse)
}

func TestFetchHoldings_NoSession(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls++
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{}, server.Client())
	_, err := c.FetchHoldings(context.Background())
	testutil.AssertAppError(t, err, apperrors.ErrUnauthenticated)
	if calls != 0 {
		t.Errorf("expected no HTTP calls without a session, got %d", calls)
	}
}

func TestFetchTransactions_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/transactions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode([]map[string]any{
			{"ticker": "AAPL", "quantity": 5, "action": "buy", "price": 150.0, "timestamp": 1735700000},
			{"ticker": "AAPL", "quantity": 2, "action": "sell", "price": 155.0, "timestamp": 1735700060},
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "test-token"}, server.Client())
	transactions, err := c.FetchTransactions(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(transactions) != 2 {
		t.Fatalf("expected 2 transactions, got %d", len(transactions))
	}

	if transactions[0].Action != Buy || transactions[1].Action != Sell {
		t.Errorf("action mismatch: %+v", transactions)
	}
	want := time.Unix(1735700000, 0).UTC()
	if !transactions[0].Timestamp.Equal(want) {
		t.Errorf("expected timestamp %v, got %v", want, transactions[0].Timestamp)
	}
	if transactions[1].Timestamp.Before(transactions[0].Timestamp.Time) {
		t.Errorf("timestamps should be non-decreasing")
	}
}

func TestSubmitTrade_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.URL.Path != "/api/trade" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		if body["ticker"] != "AAPL" || body["action"] != "buy" {
			t.Errorf("unexpected body: %v", body)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"message": "Successfully bought 5 shares of AAPL at $150.00 per share",
		})
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "test-token"}, server.Client())
	result, err := c.SubmitTrade(context.Background(), TradeOrder{Ticker: "AAPL", Quantity: 5, Action: Buy})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Message != "Successfully bought 5 shares of AAPL at $150.00 per share" {
		t.Errorf("unexpected message: %q", result.Message)
	}
}

func TestSubmitTrade_Rejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "Insufficient stocks to sell"})
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "test-token"}, server.Client())
	_, err := c.SubmitTrade(context.Background(), TradeOrder{Ticker: "AAPL", Quantity: 100, Action: Sell})
	testutil.AssertAppError(t, err, apperrors.ErrInvalidOrder)
	if err.Error() != "Insufficient stocks to sell" {
		t.Errorf("expected the remote rejection text, got %q", err.Error())
	}
}

func TestSubmitTrade_Unauthorized(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "stale-token"}, server.Client())
	_, err := c.SubmitTrade(context.Background(), TradeOrder{Ticker: "AAPL", Quantity: 1, Action: Buy})
	testutil.AssertAppError(t, err, apperrors.ErrUnauthenticated)
}

func TestQueryQuote_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/query" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.URL.Query().Get("ticker") != "AAPL" {
			t.Errorf("unexpected ticker param: %q", r.URL.Query().Get("ticker"))
		}
		if r.Header.Get("Authorization") != "" {
			t.Errorf("quote lookup should not send a credential")
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"name": "Apple Inc.", "symbol": "AAPL", "price": 189.84})
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "test-token"}, server.Client())
	quote, err := c.QueryQuote(context.Background(), "AAPL")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if quote.Symbol != "AAPL" || quote.Name != "Apple Inc." {
		t.Errorf("quote mismatch: %+v", quote)
	}
}

func TestQueryQuote_NotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "No data found for ticker: ZZZZ"})
	}))
	defer server.Close()

	c := NewClient(server.URL, credentials.Static{Token: "test-token"}, server.Client())
	_, err := c.QueryQuote(context.Background(), "ZZZZ")
	testutil.AssertAppError(t, err, apperrors.ErrQuoteNotFound)
}

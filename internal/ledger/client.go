// Package ledger provides the HTTP client for the remote ledger service,
// which owns the authoritative portfolio and transaction records and accepts
// trade orders.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/Nike682631/robinhood/internal/credentials"
	apperrors "github.com/Nike682631/robinhood/internal/errors"
)

// Client communicates with the remote ledger service. Every call is a single
// attempt; retry policy, if any, belongs to the caller.
type Client struct {
	baseURL    string
	creds      credentials.Accessor
	httpClient *http.Client
}

// NewClient creates a new ledger service client.
func NewClient(baseURL string, creds credentials.Accessor, httpClient *http.Client) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		creds:      creds,
		httpClient: httpClient,
	}
}

// FetchHoldings retrieves the current portfolio.
func (c *Client) FetchHoldings(ctx context.Context) ([]Holding, error) {
	resp, err := c.authorizedGet(ctx, "/api/portfolio")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var holdings []Holding
	if err := json.NewDecoder(resp.Body).Decode(&holdings); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedResponse, fmt.Errorf("decoding portfolio response: %w", err))
	}
	return holdings, nil
}

// FetchTransactions retrieves the transaction history, oldest first.
func (c *Client) FetchTransactions(ctx context.Context) ([]Transaction, error) {
	resp, err := c.authorizedGet(ctx, "/api/transactions")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var transactions []Transaction
	if err := json.NewDecoder(resp.Body).Decode(&transactions); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedResponse, fmt.Errorf("decoding transactions response: %w", err))
	}
	return transactions, nil
}

// SubmitTrade sends a trade order. A rejection of the order content (unknown
// ticker, insufficient holdings) surfaces as ErrInvalidOrder carrying the
// service's message; anything else non-auth is ErrRemoteUnavailable.
func (c *Client) SubmitTrade(ctx context.Context, order TradeOrder) (*TradeResult, error) {
	token, err := c.creds.Credential(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(order)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInvalidOrder, fmt.Errorf("marshaling trade order: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/trade", strings.NewReader(string(body)))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("submitting trade: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusUnauthorized:
		return nil, apperrors.ErrUnauthenticated
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return nil, apperrors.WithMessage(apperrors.ErrInvalidOrder, c.remoteMessage(resp, "Trade rejected by ledger service"))
	default:
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("submitting trade: unexpected status %d", resp.StatusCode))
	}

	var result TradeResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedResponse, fmt.Errorf("decoding trade response: %w", err))
	}
	return &result, nil
}

// QueryQuote looks up a single symbol. The query endpoint is public: no
// credential is attached. Unknown symbols surface as ErrQuoteNotFound.
func (c *Client) QueryQuote(ctx context.Context, ticker string) (*Quote, error) {
	endpoint := c.baseURL + "/api/query?ticker=" + url.QueryEscape(ticker)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("creating request: %w", err))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("querying quote: %w", err))
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decode
	case resp.StatusCode == http.StatusNotFound:
		return nil, apperrors.WithMessage(apperrors.ErrQuoteNotFound, c.remoteMessage(resp, "No data found for ticker: "+ticker))
	default:
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("querying quote: unexpected status %d", resp.StatusCode))
	}

	var quote Quote
	if err := json.NewDecoder(resp.Body).Decode(&quote); err != nil {
		return nil, apperrors.Wrap(apperrors.ErrMalformedResponse, fmt.Errorf("decoding quote response: %w", err))
	}
	return &quote, nil
}

func (c *Client) authorizedGet(ctx context.Context, path string) (*http.Response, error) {
	token, err := c.creds.Credential(ctx)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("fetching %s: %w", path, err))
	}
	return resp, nil
}

func (c *Client) checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusOK:
		return nil
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.ErrUnauthenticated
	default:
		return apperrors.Wrap(apperrors.ErrRemoteUnavailable, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}
}

// remoteMessage extracts the service's {"error": ...} body, falling back to
// the given default when the body is absent or unreadable.
func (c *Client) remoteMessage(resp *http.Response, fallback string) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil || body.Error == "" {
		return fallback
	}
	return body.Error
}

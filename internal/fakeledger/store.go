package fakeledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	apperrors "github.com/Nike682631/robinhood/internal/errors"
	"github.com/Nike682631/robinhood/internal/ledger"
)

// Listing is a tradeable symbol known to the fake ledger.
type Listing struct {
	Name  string
	Price decimal.Decimal
}

// Record is one executed trade as stored, with the service-assigned ID.
type Record struct {
	ID        string
	Ticker    string
	Quantity  int64
	Action    ledger.Action
	Price     decimal.Decimal
	Timestamp time.Time
}

// Store is the fake ledger's in-memory book: a seeded price table plus
// per-user holdings and transaction history.
type Store struct {
	mu       sync.Mutex
	listings map[string]Listing
	holdings map[string]map[string]int64
	history  map[string][]Record

	now func() time.Time // test hook
}

// NewStore creates a store over the given price table.
func NewStore(listings map[string]Listing) *Store {
	if listings == nil {
		listings = map[string]Listing{}
	}
	return &Store{
		listings: listings,
		holdings: map[string]map[string]int64{},
		history:  map[string][]Record{},
		now:      time.Now,
	}
}

// DefaultListings returns the demo price table.
func DefaultListings() map[string]Listing {
	return map[string]Listing{
		"AAPL":  {Name: "Apple Inc.", Price: decimal.NewFromFloat(189.84)},
		"AMZN":  {Name: "Amazon.com, Inc.", Price: decimal.NewFromFloat(178.22)},
		"GOOGL": {Name: "Alphabet Inc.", Price: decimal.NewFromFloat(165.49)},
		"MSFT":  {Name: "Microsoft Corporation", Price: decimal.NewFromFloat(425.27)},
		"NVDA":  {Name: "NVIDIA Corporation", Price: decimal.NewFromFloat(121.79)},
		"TSLA":  {Name: "Tesla, Inc.", Price: decimal.NewFromFloat(248.50)},
	}
}

// Quote looks up a listing by uppercase ticker.
func (s *Store) Quote(ticker string) (Listing, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.listings[ticker]
	return l, ok
}

// Portfolio returns the user's current positions priced at the latest
// listing price. Tickers absent from the result are zero positions.
func (s *Store) Portfolio(user string) []ledger.Holding {
	s.mu.Lock()
	defer s.mu.Unlock()

	result := []ledger.Holding{}
	for ticker, quantity := range s.holdings[user] {
		price := s.listings[ticker].Price
		result = append(result, ledger.Holding{
			Ticker:       ticker,
			Quantity:     quantity,
			CurrentPrice: price,
			TotalValue:   price.Mul(decimal.NewFromInt(quantity)),
		})
	}
	return result
}

// Transactions returns the user's history in execution order.
func (s *Store) Transactions(user string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	history := s.history[user]
	out := make([]Record, len(history))
	copy(out, history)
	return out
}

// Trade executes a buy or sell at the current listing price, updates the
// position, records the transaction, and returns the confirmation message.
// Positions sold down to zero are pruned.
func (s *Store) Trade(user, ticker string, quantity int64, action ledger.Action) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	listing, ok := s.listings[ticker]
	if !ok {
		return "", apperrors.WithMessage(apperrors.ErrUnknownTicker, "No data found for ticker: "+ticker)
	}

	positions := s.holdings[user]
	if positions == nil {
		positions = map[string]int64{}
		s.holdings[user] = positions
	}

	switch action {
	case ledger.Buy:
		positions[ticker] += quantity
	case ledger.Sell:
		held := positions[ticker]
		if held < quantity {
			return "", apperrors.ErrInsufficientHoldings
		}
		if held == quantity {
			delete(positions, ticker)
		} else {
			positions[ticker] = held - quantity
		}
	default:
		return "", apperrors.WithMessage(apperrors.ErrInvalidOrder, "Invalid request data")
	}

	s.history[user] = append(s.history[user], Record{
		ID:        uuid.NewString(),
		Ticker:    ticker,
		Quantity:  quantity,
		Action:    action,
		Price:     listing.Price,
		Timestamp: s.now().Truncate(time.Second),
	})

	return fmt.Sprintf("Successfully %s %d shares of %s at $%s per share",
		action.Past(), quantity, ticker, listing.Price.StringFixed(2)), nil
}

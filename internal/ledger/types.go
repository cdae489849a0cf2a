package ledger

import (
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// Action is the direction of a trade.
type Action string

const (
	Buy  Action = "buy"
	Sell Action = "sell"
)

// Past returns the past-tense form used in user-facing trade messages.
func (a Action) Past() string {
	if a == Sell {
		return "sold"
	}
	return "bought"
}

// Holding is one row of the portfolio snapshot as reported by the ledger
// service. TotalValue is authoritative; it is never recomputed locally.
type Holding struct {
	Ticker       string          `json:"ticker"`
	Quantity     int64           `json:"quantity"`
	CurrentPrice decimal.Decimal `json:"current_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
}

// Transaction is one immutable executed trade.
type Transaction struct {
	Ticker    string          `json:"ticker"`
	Quantity  int64           `json:"quantity"`
	Action    Action          `json:"action"`
	Price     decimal.Decimal `json:"price"`
	Timestamp UnixTime        `json:"timestamp"`
}

// Quote is the result of a single-symbol lookup.
type Quote struct {
	Name   string          `json:"name"`
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// TradeOrder is a trade submission. It is validated and normalized by the
// sync core before it ever reaches the client, and never persisted.
type TradeOrder struct {
	Ticker   string `json:"ticker" validate:"required,ticker"`
	Quantity int64  `json:"quantity" validate:"required,gt=0"`
	Action   Action `json:"action" validate:"required,trade_action"`
}

// TradeResult is the ledger service's response to an accepted trade.
type TradeResult struct {
	Message string `json:"message"`
}

// UnixTime marshals as unix seconds, the ledger service's wire format for
// transaction timestamps.
type UnixTime struct {
	time.Time
}

// NewUnixTime truncates t to whole seconds, matching the wire precision.
func NewUnixTime(t time.Time) UnixTime {
	return UnixTime{t.Truncate(time.Second)}
}

func (u UnixTime) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatInt(u.Unix(), 10)), nil
}

func (u *UnixTime) UnmarshalJSON(data []byte) error {
	secs, err := strconv.ParseInt(string(data), 10, 64)
	if err != nil {
		return fmt.Errorf("parsing unix timestamp %q: %w", data, err)
	}
	u.Time = time.Unix(secs, 0).UTC()
	return nil
}

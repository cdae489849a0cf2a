// Package portfolio owns the cached view of the user's holdings and
// transaction history and mediates every read and write against it. The
// remote ledger service is the sole authority: local state is only ever
// replaced wholesale from a confirmed refresh, never inferred from a
// submitted order.
package portfolio

import (
	"context"
	"errors"
	"strings"
	"sync"

	playgroundvalidator "github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/Nike682631/robinhood/internal/ledger"
	"github.com/Nike682631/robinhood/internal/notify"
	appvalidator "github.com/Nike682631/robinhood/internal/validator"

	apperrors "github.com/Nike682631/robinhood/internal/errors"
)

// State tracks where each data kind is in its refresh lifecycle.
type State int

const (
	// StateIdle means no refresh has ever been issued: "not yet loaded",
	// distinct from loaded-and-empty.
	StateIdle State = iota
	StateRefreshing
	StateLoaded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRefreshing:
		return "refreshing"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Snapshot is a read-only copy of the core's cached state. A Failed state
// retains the data from the last successful refresh. LastError carries the
// recorded error of whichever data kind is currently Failed; a successful
// refresh clears only its own kind's error, and when both kinds hold one
// the holdings error is reported.
type Snapshot struct {
	Holdings      []ledger.Holding
	HoldingsState State
	History       []ledger.Transaction
	HistoryState  State
	LastError     error
}

// LedgerService is the subset of the ledger client the core depends on.
type LedgerService interface {
	FetchHoldings(ctx context.Context) ([]ledger.Holding, error)
	FetchTransactions(ctx context.Context) ([]ledger.Transaction, error)
	SubmitTrade(ctx context.Context, order ledger.TradeOrder) (*ledger.TradeResult, error)
	QueryQuote(ctx context.Context, ticker string) (*ledger.Quote, error)
}

// Core is the holdings-and-ledger synchronization core. All methods are safe
// for concurrent use; concurrent refreshes of the same data kind share a
// single outbound call.
type Core struct {
	client   LedgerService
	notifier *notify.Channel
	logger   *zap.SugaredLogger
	validate *playgroundvalidator.Validate

	flights singleflight.Group

	mu            sync.Mutex
	holdings      []ledger.Holding
	holdingsState State
	holdingsErr   error
	history       []ledger.Transaction
	historyState  State
	historyErr    error
}

// NewCore creates a sync core over the given ledger service.
func NewCore(client LedgerService, notifier *notify.Channel, logger *zap.SugaredLogger) *Core {
	return &Core{
		client:   client,
		notifier: notifier,
		logger:   logger,
		validate: appvalidator.New(),
	}
}

// Snapshot returns a copy of the current cached state.
func (c *Core) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	snap := Snapshot{
		HoldingsState: c.holdingsState,
		HistoryState:  c.historyState,
		LastError:     c.holdingsErr,
	}
	if snap.LastError == nil {
		snap.LastError = c.historyErr
	}
	if c.holdings != nil {
		snap.Holdings = make([]ledger.Holding, len(c.holdings))
		copy(snap.Holdings, c.holdings)
	}
	if c.history != nil {
		snap.History = make([]ledger.Transaction, len(c.history))
		copy(snap.History, c.history)
	}
	return snap
}

// RefreshHoldings replaces the cached holdings from the ledger service.
// A call issued while a holdings refresh is already in flight does not issue
// a second request; it waits for and returns the in-flight result. On
// failure the previous holdings are preserved and LastError is set.
func (c *Core) RefreshHoldings(ctx context.Context) error {
	_, err, _ := c.flights.Do("holdings", func() (interface{}, error) {
		c.setRefreshing(&c.holdingsState)

		// An in-flight refresh runs to completion even if the caller that
		// started it loses interest.
		holdings, err := c.client.FetchHoldings(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.holdingsState = StateFailed
			c.holdingsErr = err
			c.logger.Warnw("holdings refresh failed", "error", err)
			return nil, err
		}
		if holdings == nil {
			holdings = []ledger.Holding{}
		}
		c.holdings = holdings
		c.holdingsState = StateLoaded
		c.holdingsErr = nil
		return nil, nil
	})
	return err
}

// RefreshHistory replaces the cached transaction history from the ledger
// service, with the same in-flight de-duplication and failure semantics as
// RefreshHoldings.
func (c *Core) RefreshHistory(ctx context.Context) error {
	_, err, _ := c.flights.Do("history", func() (interface{}, error) {
		c.setRefreshing(&c.historyState)

		history, err := c.client.FetchTransactions(context.WithoutCancel(ctx))

		c.mu.Lock()
		defer c.mu.Unlock()
		if err != nil {
			c.historyState = StateFailed
			c.historyErr = err
			c.logger.Warnw("history refresh failed", "error", err)
			return nil, err
		}
		if history == nil {
			history = []ledger.Transaction{}
		}
		c.history = history
		c.historyState = StateLoaded
		c.historyErr = nil
		return nil, nil
	})
	return err
}

// SubmitTrade validates the order locally, normalizes the ticker, submits it,
// and on acceptance refreshes both holdings and history before returning, so
// the snapshot reflects the trade by the time the call completes. Every
// outcome publishes a notification.
func (c *Core) SubmitTrade(ctx context.Context, order ledger.TradeOrder) (*ledger.TradeResult, error) {
	order.Ticker = strings.TrimSpace(order.Ticker)

	if err := c.validate.Struct(order); err != nil {
		appErr := apperrors.WithMessage(apperrors.ErrInvalidOrder, orderProblem(err))
		c.notifier.Publish(appErr.Message, notify.SeverityError)
		return nil, appErr
	}

	// Symbol identity is case-insensitive; the wire format is uppercase.
	order.Ticker = strings.ToUpper(order.Ticker)

	result, err := c.client.SubmitTrade(ctx, order)
	if err != nil {
		c.logger.Warnw("trade submission failed", "ticker", order.Ticker, "action", order.Action, "error", err)
		c.notifier.Publish(userMessage(err), notify.SeverityError)
		return nil, err
	}

	c.logger.Infow("trade accepted", "ticker", order.Ticker, "action", order.Action, "quantity", order.Quantity)

	// The two refreshes are independent and may complete in either order.
	// Their failures are recorded on the snapshot, not returned: the trade
	// itself already succeeded.
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_ = c.RefreshHoldings(ctx)
	}()
	go func() {
		defer wg.Done()
		_ = c.RefreshHistory(ctx)
	}()
	wg.Wait()

	c.notifier.Publish(result.Message, notify.SeveritySuccess)
	return result, nil
}

// LookupQuote fetches a single symbol's quote. It has no effect on the
// snapshot or the pending notification.
func (c *Core) LookupQuote(ctx context.Context, ticker string) (*ledger.Quote, error) {
	ticker = strings.ToUpper(strings.TrimSpace(ticker))
	if ticker == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidOrder, "Ticker is required")
	}
	return c.client.QueryQuote(ctx, ticker)
}

// Notification returns the pending transient message, if any.
func (c *Core) Notification() (notify.Notification, bool) {
	return c.notifier.Current()
}

// DismissNotification clears the pending transient message.
func (c *Core) DismissNotification() {
	c.notifier.Dismiss()
}

func (c *Core) setRefreshing(state *State) {
	c.mu.Lock()
	*state = StateRefreshing
	c.mu.Unlock()
}

// orderProblem turns a validation failure into the user-facing message for
// the notification and error.
func orderProblem(err error) string {
	var fieldErrs playgroundvalidator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		switch fieldErrs[0].Field() {
		case "Ticker":
			return "Ticker must be a valid stock symbol"
		case "Quantity":
			return "Quantity must be a positive whole number"
		case "Action":
			return "Action must be buy or sell"
		}
	}
	return "Invalid trade order"
}

func userMessage(err error) string {
	if appErr := apperrors.From(err); appErr != nil {
		return appErr.Message
	}
	return "Error executing trade"
}

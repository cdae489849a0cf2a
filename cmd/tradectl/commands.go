package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/Nike682631/robinhood/internal/ledger"
	"github.com/Nike682631/robinhood/internal/notify"
	"github.com/Nike682631/robinhood/internal/portfolio"
)

func newQuoteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quote TICKER",
		Short: "Look up a symbol's current quote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			core, err := newCore()
			if err != nil {
				return err
			}

			quote, err := core.LookupQuote(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s (%s): $%s\n", quote.Name, quote.Symbol, quote.Price.StringFixed(2))
			return nil
		},
	}
}

func newPortfolioCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "portfolio",
		Short: "Show current holdings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := newCore()
			if err != nil {
				return err
			}

			if err := core.RefreshHoldings(cmd.Context()); err != nil {
				return err
			}

			snap := core.Snapshot()
			if len(snap.Holdings) == 0 {
				fmt.Println("No holdings.")
				return nil
			}
			for _, h := range snap.Holdings {
				fmt.Printf("%-6s %6d @ $%-10s total $%s\n",
					h.Ticker, h.Quantity, h.CurrentPrice.StringFixed(2), h.TotalValue.StringFixed(2))
			}
			return nil
		},
	}
}

func newHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show transaction history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			core, err := newCore()
			if err != nil {
				return err
			}

			if err := core.RefreshHistory(cmd.Context()); err != nil {
				return err
			}

			snap := core.Snapshot()
			if len(snap.History) == 0 {
				fmt.Println("No transactions.")
				return nil
			}
			for _, t := range snap.History {
				fmt.Printf("%s  %-4s %6d %-6s @ $%s\n",
					t.Timestamp.Format(time.RFC3339), t.Action, t.Quantity, t.Ticker, t.Price.StringFixed(2))
			}
			return nil
		},
	}
}

func newTradeCmd(action ledger.Action) *cobra.Command {
	return &cobra.Command{
		Use:   string(action) + " TICKER QUANTITY",
		Short: fmt.Sprintf("Submit a %s order", action),
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			quantity, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid quantity %q", args[1])
			}

			core, err := newCore()
			if err != nil {
				return err
			}

			_, submitErr := core.SubmitTrade(cmd.Context(), ledger.TradeOrder{
				Ticker:   args[0],
				Quantity: quantity,
				Action:   action,
			})

			// Render the outcome the way a UI would: from the notification.
			if n, ok := core.Notification(); ok {
				prefix := "OK"
				if n.Severity == notify.SeverityError {
					prefix = "FAILED"
				}
				fmt.Printf("%s: %s\n", prefix, n.Message)
				core.DismissNotification()
			}
			if submitErr != nil {
				return submitErr
			}

			snap := core.Snapshot()
			if snap.HoldingsState == portfolio.StateLoaded {
				fmt.Println("Holdings after trade:")
				for _, h := range snap.Holdings {
					fmt.Printf("  %-6s %6d @ $%s\n", h.Ticker, h.Quantity, h.CurrentPrice.StringFixed(2))
				}
			}
			return nil
		},
	}
}

// Command tradectl is a demo command-line front end for the sync core. It
// plays the presentation layer's role: triggering refreshes, submitting
// trades, and rendering whatever state the core exposes.
package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/Nike682631/robinhood/internal/config"
	"github.com/Nike682631/robinhood/internal/credentials"
	"github.com/Nike682631/robinhood/internal/ledger"
	"github.com/Nike682631/robinhood/internal/logger"
	"github.com/Nike682631/robinhood/internal/notify"
	"github.com/Nike682631/robinhood/internal/portfolio"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "tradectl",
		Short:         "Query quotes and trade against the ledger service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		newQuoteCmd(),
		newPortfolioCmd(),
		newHistoryCmd(),
		newTradeCmd(ledger.Buy),
		newTradeCmd(ledger.Sell),
	)

	return cmd
}

// newCore builds the sync core from environment configuration.
func newCore() (*portfolio.Core, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireLedgerBaseURL(); err != nil {
		return nil, err
	}

	session := credentials.NewSession(cfg.SessionSecret, cfg.SessionUser, cfg.SessionExpiry)
	client := ledger.NewClient(cfg.LedgerBaseURL, session, &http.Client{Timeout: cfg.RequestTimeout})

	return portfolio.NewCore(client, &notify.Channel{}, logger.New(cfg.Env)), nil
}

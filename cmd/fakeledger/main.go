// Command fakeledger runs the in-memory stand-in for the remote ledger
// service, for local development against the sync core.
package main

import (
	"fmt"
	"os"

	"github.com/Nike682631/robinhood/internal/config"
	"github.com/Nike682631/robinhood/internal/fakeledger"
	"github.com/Nike682631/robinhood/internal/logger"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(cfg.Env)
	defer func() { _ = log.Sync() }()

	store := fakeledger.NewStore(fakeledger.DefaultListings())
	server := fakeledger.NewServer(store, cfg.SessionSecret, log)

	log.Infof("Fake ledger listening on port %s", cfg.Port)
	return server.Run(":" + cfg.Port)
}

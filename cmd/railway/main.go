// Command railway is the operator's text menu over the booking ledger.
// It uses the same configuration and storage as the HTTP server.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"

	"github.com/iliyamo/railway-ledger/internal/app"
	"github.com/iliyamo/railway-ledger/internal/cli"
	"github.com/iliyamo/railway-ledger/internal/config"
	"github.com/iliyamo/railway-ledger/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	publisher, closePublisher := app.NewPublisher(cfg)
	defer closePublisher()

	ledger := service.NewLedger(store, service.WithEvents(publisher))
	if err := cli.NewMenu(ledger, os.Stdin, os.Stdout).Run(ctx); err != nil && ctx.Err() == nil {
		log.Printf("menu: %v", err)
	}
}

package main // Entry point of the HTTP API

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/railway-ledger/internal/app"
	"github.com/iliyamo/railway-ledger/internal/config"
	"github.com/iliyamo/railway-ledger/internal/handler"
	"github.com/iliyamo/railway-ledger/internal/metrics"
	"github.com/iliyamo/railway-ledger/internal/middleware"
	"github.com/iliyamo/railway-ledger/internal/queue"
	"github.com/iliyamo/railway-ledger/internal/router"
	"github.com/iliyamo/railway-ledger/internal/service"
)

func main() {
	cfg, err := config.Load() // Load environment config
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A store that cannot be loaded is fatal: serving from empty tables
	// would overwrite the saved state on the first write.
	store, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer closeStore()

	collector := metrics.NewCollector()
	publisher, closePublisher := app.NewPublisher(cfg)
	defer closePublisher()

	ledger := service.NewLedger(store,
		service.WithEvents(publisher),
		service.WithMetrics(collector),
	)

	if cfg.EventsBackend == config.EventsRabbitMQ {
		go func() {
			if err := queue.StartBookingConsumer(ctx, cfg.AMQPURL, cfg.LogDir); err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("booking-consumer: stopped: %v", err)
			}
		}()
	}

	// Redis is optional for the cache; without it lookups are served
	// straight from the ledger.
	var cacheMW echo.MiddlewareFunc
	if cfg.Cache.Enabled {
		rdb, err := config.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("redis: cache disabled: %v", err)
		} else {
			defer rdb.Close()
			cacheMW = middleware.NewRedisCache(cfg.Cache, rdb)
		}
	}

	var metricsHandler http.Handler
	if cfg.MetricsAddr != "" {
		msrv := collector.Serve(cfg.MetricsAddr)
		defer msrv.Close()
	} else {
		metricsHandler = collector.Handler()
	}

	e := echo.New() // Create Echo instance
	e.HideBanner = true
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	router.RegisterRoutes(e, metricsHandler)
	router.RegisterLedger(e, handler.NewLedgerHandler(ledger), cacheMW)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s, store=%s, events=%s)", addr, cfg.Env, cfg.StoreBackend, cfg.EventsBackend)

	go func() {
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err) // Log and exit if server fails
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

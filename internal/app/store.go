// Package app wires configuration into the ledger's storage and event
// backends.  Both binaries use it so they read and write the same
// state.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"

	"github.com/iliyamo/railway-ledger/internal/config"
	"github.com/iliyamo/railway-ledger/internal/database"
	"github.com/iliyamo/railway-ledger/internal/queue"
	"github.com/iliyamo/railway-ledger/internal/repository"
	"github.com/iliyamo/railway-ledger/internal/service"
)

// OpenStore builds the backend selected by cfg.StoreBackend and loads
// the ledger state from it.  The returned close function releases
// database and Redis connections and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (*repository.Store, func(), error) {
	backend, closeFn, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, func() {}, err
	}
	store := repository.NewStore(backend)
	if err := store.Load(ctx); err != nil {
		closeFn()
		return nil, func() {}, fmt.Errorf("load %s store: %w", cfg.StoreBackend, err)
	}
	log.Printf("store: loaded %v from %s backend", store.Counts(), cfg.StoreBackend)
	return store, closeFn, nil
}

func openBackend(ctx context.Context, cfg *config.Config) (repository.Backend, func(), error) {
	switch cfg.StoreBackend {
	case config.StoreMySQL, config.StorePostgres:
		db, dialect, err := openSQL(cfg)
		if err != nil {
			return nil, nil, err
		}
		b := repository.NewSQLBackend(db, dialect)
		if err := b.Migrate(ctx); err != nil {
			_ = db.Close()
			return nil, nil, fmt.Errorf("migrate: %w", err)
		}
		return b, func() { _ = db.Close() }, nil
	case config.StoreRedis:
		rdb, err := config.NewRedisClient(cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewRedisBackend(rdb, cfg.StoreRedisPrefix), func() { _ = rdb.Close() }, nil
	default:
		return repository.NewFileBackend(cfg.DataDir), func() {}, nil
	}
}

func openSQL(cfg *config.Config) (*sql.DB, repository.Dialect, error) {
	if cfg.StoreBackend == config.StorePostgres {
		db, err := database.OpenPostgres(cfg.DatabaseURL)
		return db, repository.DialectPostgres, err
	}
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	return db, repository.DialectMySQL, err
}

// NewPublisher returns the booking event publisher selected by
// cfg.EventsBackend, or nil when events are disabled.  A NATS
// connection failure is logged and events are disabled rather than
// failing startup.
func NewPublisher(cfg *config.Config) (service.EventPublisher, func()) {
	switch cfg.EventsBackend {
	case config.EventsRabbitMQ:
		return queue.NewAMQPPublisher(cfg.AMQPURL), func() {}
	case config.EventsNATS:
		p, err := queue.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Printf("nats: connect failed, booking events disabled: %v", err)
			return nil, func() {}
		}
		return p, p.Close
	}
	return nil, func() {}
}

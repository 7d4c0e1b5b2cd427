package main

import (
	"context"
	"fmt"
	"log/slog"

	"vacationrental/internal/app/middleware"
	"vacationrental/internal/app/uow"
	"vacationrental/internal/infra/broker/kafka"
	"vacationrental/internal/infra/config"
	mongodb "vacationrental/internal/infra/db/mongo"
	infraoutbox "vacationrental/internal/infra/outbox"
	"vacationrental/internal/infra/storage/memory"
)

// backend bundles the storage-specific ports the application is built on.
type backend struct {
	uowFactory  uow.UoWFactory
	outbox      infraoutbox.Store
	idempotency middleware.IdempotencyStore
	inbox       kafka.Inbox
	ready       func(ctx context.Context) error
	close       func(ctx context.Context) error
}

func openBackend(ctx context.Context, cfg config.Config, logger *slog.Logger) (backend, error) {
	if cfg.Storage == config.StorageMongo {
		return openMongo(ctx, cfg, logger)
	}
	return openMemory(cfg), nil
}

func openMemory(cfg config.Config) backend {
	store := memory.NewStore()
	return backend{
		uowFactory:  memory.NewUnitOfWorkFactory(store),
		outbox:      store.Outbox,
		idempotency: memory.NewIdempotencyStore(cfg.IdempotencyTTL),
		inbox:       kafka.NewMemoryInbox(),
		ready:       func(context.Context) error { return nil },
		close:       func(context.Context) error { return nil },
	}
}

func openMongo(ctx context.Context, cfg config.Config, logger *slog.Logger) (backend, error) {
	client, err := mongodb.New(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		return backend{}, err
	}
	logger.Info("mongo connected", "database", cfg.MongoDB)
	counters := mongodb.NewCounters(client.DB)
	bookings := mongodb.NewBookingRepository(client.DB, counters)
	outboxStore := mongodb.NewOutboxStore(client.DB)
	idempotency := mongodb.NewIdempotencyStore(client.DB, cfg.IdempotencyTTL)
	inbox := mongodb.NewInboxStore(client.DB, cfg.KafkaConsumerGroup)
	if err := ensureIndexes(ctx, bookings, outboxStore, idempotency, inbox); err != nil {
		_ = client.Close(ctx)
		return backend{}, err
	}
	logger.Info("mongo indexes ensured")
	return backend{
		uowFactory: mongodb.Factory{
			DB:           client.DB,
			RentalsRepo:  mongodb.NewRentalRepository(client.DB, counters),
			BookingsRepo: bookings,
			OutboxStore:  outboxStore,
		},
		outbox:      outboxStore,
		idempotency: idempotency,
		inbox:       inbox,
		ready:       client.Ping,
		close:       client.Close,
	}, nil
}

type indexer interface {
	EnsureIndexes(ctx context.Context) error
}

func ensureIndexes(ctx context.Context, indexers ...indexer) error {
	for _, ix := range indexers {
		if err := ix.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("ensure mongo indexes: %w", err)
		}
	}
	return nil
}

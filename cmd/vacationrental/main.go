package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"vacationrental/internal/infra/broker/kafka"
	"vacationrental/internal/infra/config"
	ginserver "vacationrental/internal/infra/http/gin"
	"vacationrental/internal/infra/obs"
	infraoutbox "vacationrental/internal/infra/outbox"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Warn("cannot read .env", "error", err)
	}
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	logger := obs.NewLogger(cfg.Env, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("service stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("service stopped")
}

func run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	store, err := openBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := store.close(closeCtx); err != nil {
			logger.Warn("backend close failed", "error", err)
		}
	}()

	producer, closeProducer, err := newProducer(cfg, logger)
	if err != nil {
		return err
	}
	defer closeProducer()

	worker := infraoutbox.NewWorker(store.outbox, producer, logger.With("component", "outbox"))
	worker.Interval = cfg.OutboxPollInterval
	worker.Backoff = cfg.RetryBackoff
	worker.TopicPrefix = cfg.KafkaTopicPrefix

	app := buildApplication(cfg, logger, store, worker)
	server := ginserver.NewServer(cfg, obs.Middleware{Logger: logger}, obs.HealthHandlers{Ready: store.ready}, app.handlers)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server starting", "addr", cfg.HTTPAddr, "storage", cfg.Storage)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	g.Go(func() error {
		return ignoreCancel(worker.Run(gctx))
	})
	if cfg.KafkaEnabled() && cfg.KafkaConsumerGroup != "" {
		consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.KafkaConsumerGroup, nil, kafka.NewEventLog(store.inbox, logger.With("component", "event-log")))
		if err != nil {
			return err
		}
		defer consumer.Close()
		g.Go(func() error {
			return ignoreCancel(consumer.Run(gctx, eventTopics(cfg.KafkaTopicPrefix)))
		})
	}
	return g.Wait()
}

// newProducer falls back to logging events when no brokers are configured.
func newProducer(cfg config.Config, logger *slog.Logger) (infraoutbox.Producer, func(), error) {
	if !cfg.KafkaEnabled() {
		logger.Info("no Kafka brokers configured, events are logged only")
		return infraoutbox.LogProducer{Logger: logger}, func() {}, nil
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, nil)
	if err != nil {
		return nil, nil, err
	}
	return producer, func() {
		if err := producer.Close(); err != nil {
			logger.Warn("kafka producer close failed", "error", err)
		}
	}, nil
}

func eventTopics(prefix string) []string {
	return []string{prefix + "rental.events.v1", prefix + "booking.events.v1"}
}

func ignoreCancel(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/oksasatya/farm-registry/config"
	"github.com/oksasatya/farm-registry/internal/infrastructure/events"
	pginfra "github.com/oksasatya/farm-registry/internal/infrastructure/postgres"
	"github.com/oksasatya/farm-registry/pkg/helpers"
)

// event_worker drains the record-events queue into the audit_events table.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-event-worker", cfg.Env)
	if !cfg.RabbitMQEnabled {
		logger.Info("RABBITMQ_ENABLED=false; event worker disabled")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), cfg.DBMaxConns, cfg.DBMinConns, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	consumer, msgs, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQEventsQueue, 16)
	if err != nil {
		log.Fatalf("failed to consume %s: %v", cfg.RabbitMQEventsQueue, err)
	}
	defer consumer.Close()

	logger.WithField("queue", cfg.RabbitMQEventsQueue).Info("event worker started")
	events.NewAuditConsumer(pginfra.NewAuditRepository(pool), logger).Run(ctx, msgs)
	logger.Info("event worker stopped")
}

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/internal/domain/repository"
)

// ErrMalformed marks a message that can never be stored.
var ErrMalformed = errors.New("malformed event")

// AuditConsumer stores record-change events taken from the queue.
type AuditConsumer struct {
	Repo   repository.AuditRepository
	Logger *logrus.Logger
}

func NewAuditConsumer(repo repository.AuditRepository, logger *logrus.Logger) *AuditConsumer {
	return &AuditConsumer{Repo: repo, Logger: logger}
}

// Handle decodes one message body and inserts it. Inserts are idempotent on
// the event id, so redelivery is safe.
func (c *AuditConsumer) Handle(ctx context.Context, body []byte) error {
	var e entity.Event
	if err := json.Unmarshal(body, &e); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if e.ID == "" || e.Type == "" || e.EntityID == "" {
		return fmt.Errorf("%w: missing id, type or entity id", ErrMalformed)
	}
	return c.Repo.Insert(ctx, e)
}

// Run acks stored messages, drops malformed ones and requeues the rest. It
// returns when ctx is done or the delivery channel closes.
func (c *AuditConsumer) Run(ctx context.Context, msgs <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-msgs:
			if !ok {
				return
			}
			c.deliver(ctx, msg)
		}
	}
}

func (c *AuditConsumer) deliver(ctx context.Context, msg amqp.Delivery) {
	err := c.Handle(ctx, msg.Body)
	switch {
	case err == nil:
		_ = msg.Ack(false)
	case errors.Is(err, ErrMalformed):
		c.Logger.WithError(err).WithField("type", msg.Type).Warn("dropping event")
		_ = msg.Nack(false, false)
	default:
		c.Logger.WithError(err).WithField("type", msg.Type).Error("store event failed; requeueing")
		_ = msg.Nack(false, true)
	}
}

package events

import (
	"context"
	"time"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
)

const publishTimeout = 2 * time.Second

// jsonPublisher is satisfied by *helpers.RabbitPublisher.
type jsonPublisher interface {
	PublishJSON(ctx context.Context, msgType string, body any) error
}

// Publisher sends record-change events to the audit queue.
type Publisher struct {
	pub jsonPublisher
}

func NewPublisher(pub jsonPublisher) *Publisher {
	return &Publisher{pub: pub}
}

func (p *Publisher) Publish(ctx context.Context, e entity.Event) error {
	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()
	return p.pub.PublishJSON(ctx, e.Type, e)
}

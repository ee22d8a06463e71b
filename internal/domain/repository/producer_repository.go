package repository

import (
	"context"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/pkg/query"
)

// ProducerRepository persists producers. Documents arrive already encoded.
type ProducerRepository interface {
	Create(ctx context.Context, p *entity.Producer) error
	// FindByID returns the producer even when soft-deleted, with its live
	// properties.
	FindByID(ctx context.Context, id string) (*entity.Producer, error)
	Update(ctx context.Context, p *entity.Producer) error
	SoftDelete(ctx context.Context, id string) (*entity.Producer, error)
	// Filter returns one page of live producers and the total match count.
	// Invalid requests yield an error wrapping query.ErrInvalidRequest.
	Filter(ctx context.Context, req query.Request) ([]entity.Producer, int64, error)
}

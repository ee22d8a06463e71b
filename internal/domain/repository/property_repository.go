package repository

import (
	"context"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/pkg/query"
)

type PropertyRepository interface {
	// Create inserts only if the producer is live, else ErrParentNotFound.
	Create(ctx context.Context, p *entity.Property) error
	// FindByID returns the property even when soft-deleted, with its
	// producer and live harvests.
	FindByID(ctx context.Context, id string) (*entity.Property, error)
	// Update writes every column, guarded on a live producer.
	Update(ctx context.Context, p *entity.Property) error
	SoftDelete(ctx context.Context, id string) (*entity.Property, error)
	Filter(ctx context.Context, req query.Request) ([]entity.Property, int64, error)
}

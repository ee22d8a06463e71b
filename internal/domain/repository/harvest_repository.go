package repository

import (
	"context"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
)

type HarvestRepository interface {
	// Create inserts only if the property is live, else ErrParentNotFound.
	Create(ctx context.Context, h *entity.Harvest) error
	// FindByID returns the harvest even when soft-deleted, with its property
	// and live crops.
	FindByID(ctx context.Context, id string) (*entity.Harvest, error)
	// FindAll lists live harvests, optionally restricted to one property.
	FindAll(ctx context.Context, propertyID string) ([]entity.Harvest, error)
	SoftDelete(ctx context.Context, id string) (*entity.Harvest, error)
	Dashboard(ctx context.Context) (*entity.Dashboard, error)
}

type CropRepository interface {
	// Create inserts only if the harvest is live, else ErrParentNotFound.
	Create(ctx context.Context, c *entity.Crop) error
	FindByID(ctx context.Context, id string) (*entity.Crop, error)
	SoftDelete(ctx context.Context, id string) (*entity.Crop, error)
}

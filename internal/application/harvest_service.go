package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	repo "github.com/oksasatya/farm-registry/internal/domain/repository"
	"github.com/oksasatya/farm-registry/internal/domain/shared"
	"github.com/oksasatya/farm-registry/pkg/fieldcrypt"
)

const (
	msgHarvestNotFound = "harvest not found"
	msgCropNotFound    = "crop not found"
)

type HarvestService struct {
	Harvests repo.HarvestRepository
	Crops    repo.CropRepository
	Codec    fieldcrypt.Codec
	Cache    DashboardCache
	Events   EventPublisher
	Logger   *logrus.Logger
}

func NewHarvestService(h repo.HarvestRepository, c repo.CropRepository, codec fieldcrypt.Codec, cache DashboardCache, events EventPublisher, logger *logrus.Logger) *HarvestService {
	return &HarvestService{Harvests: h, Crops: c, Codec: codec, Cache: cache, Events: events, Logger: logger}
}

type CreateHarvestInput struct {
	Year       int
	PropertyID string
}

type AddCropInput struct {
	Name      string
	HarvestID string
}

func (s *HarvestService) recorder() recorder {
	return recorder{events: s.Events, cache: s.Cache, logger: s.Logger}
}

func (s *HarvestService) Create(ctx context.Context, in CreateHarvestInput) (*entity.Harvest, error) {
	if in.Year < entity.MinHarvestYear {
		return nil, shared.NewValidation(fmt.Sprintf("year must be %d or later", entity.MinHarvestYear))
	}
	if !validID(in.PropertyID) {
		return nil, shared.NewNotFound(msgPropertyNotFound)
	}
	h := &entity.Harvest{Year: in.Year, PropertyID: in.PropertyID}
	if err := s.Harvests.Create(ctx, h); err != nil {
		if errors.Is(err, repo.ErrParentNotFound) {
			return nil, shared.NewNotFound(msgPropertyNotFound)
		}
		return nil, shared.Wrap(err, "create harvest")
	}

	rec := s.recorder()
	rec.invalidateDashboard(ctx)
	rec.publish(ctx, "harvest.created", "harvest", h.ID, map[string]any{"year": h.Year, "propertyId": h.PropertyID})
	return h, nil
}

// FindAll lists live harvests, newest year first. An empty propertyID lists
// every harvest.
func (s *HarvestService) FindAll(ctx context.Context, propertyID string) ([]entity.Harvest, error) {
	propertyID = strings.TrimSpace(propertyID)
	if propertyID != "" && !validID(propertyID) {
		return []entity.Harvest{}, nil
	}
	items, err := s.Harvests.FindAll(ctx, propertyID)
	if err != nil {
		return nil, shared.Wrap(err, "list harvests")
	}
	if items == nil {
		items = []entity.Harvest{}
	}
	return items, nil
}

func (s *HarvestService) FindOne(ctx context.Context, id string) (*entity.Harvest, error) {
	if !validID(id) {
		return nil, shared.NewNotFound(msgHarvestNotFound)
	}
	h, err := s.Harvests.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewNotFound(msgHarvestNotFound)
		}
		return nil, shared.Wrap(err, "load harvest")
	}
	if h.IsDeleted() {
		return nil, shared.NewNotFound(msgHarvestNotFound)
	}
	if h.Property != nil {
		if err := revealProducer(s.Codec, h.Property.Producer); err != nil {
			return nil, err
		}
	}
	return h, nil
}

func (s *HarvestService) Remove(ctx context.Context, id string) (*entity.Harvest, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	h, err := s.Harvests.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewNotFound(msgHarvestNotFound)
		}
		return nil, shared.Wrap(err, "delete harvest")
	}

	rec := s.recorder()
	rec.invalidateDashboard(ctx)
	rec.publish(ctx, "harvest.deleted", "harvest", h.ID, nil)
	return h, nil
}

func (s *HarvestService) AddCrop(ctx context.Context, in AddCropInput) (*entity.Crop, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, shared.NewValidation("name is required")
	}
	if !validID(in.HarvestID) {
		return nil, shared.NewNotFound(msgHarvestNotFound)
	}
	c := &entity.Crop{Name: name, HarvestID: in.HarvestID}
	if err := s.Crops.Create(ctx, c); err != nil {
		if errors.Is(err, repo.ErrParentNotFound) {
			return nil, shared.NewNotFound(msgHarvestNotFound)
		}
		return nil, shared.Wrap(err, "create crop")
	}

	rec := s.recorder()
	rec.invalidateDashboard(ctx)
	rec.publish(ctx, "crop.created", "crop", c.ID, map[string]any{"name": c.Name, "harvestId": c.HarvestID})
	return c, nil
}

func (s *HarvestService) FindOneCrop(ctx context.Context, id string) (*entity.Crop, error) {
	if !validID(id) {
		return nil, shared.NewNotFound(msgCropNotFound)
	}
	c, err := s.Crops.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewNotFound(msgCropNotFound)
		}
		return nil, shared.Wrap(err, "load crop")
	}
	if c.IsDeleted() {
		return nil, shared.NewNotFound(msgCropNotFound)
	}
	return c, nil
}

func (s *HarvestService) RemoveCrop(ctx context.Context, id string) (*entity.Crop, error) {
	if _, err := s.FindOneCrop(ctx, id); err != nil {
		return nil, err
	}
	c, err := s.Crops.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewNotFound(msgCropNotFound)
		}
		return nil, shared.Wrap(err, "delete crop")
	}

	rec := s.recorder()
	rec.invalidateDashboard(ctx)
	rec.publish(ctx, "crop.deleted", "crop", c.ID, nil)
	return c, nil
}

// Dashboard serves the aggregate from cache when present. Cache failures only
// cost a recomputation.
func (s *HarvestService) Dashboard(ctx context.Context) (*entity.Dashboard, error) {
	if s.Cache != nil {
		d, ok, err := s.Cache.Get(ctx)
		switch {
		case err != nil && s.Logger != nil:
			s.Logger.WithError(err).Warn("dashboard cache read failed")
		case ok:
			return d, nil
		}
	}

	d, err := s.Harvests.Dashboard(ctx)
	if err != nil {
		return nil, shared.Wrap(err, "compute dashboard")
	}
	if d.CropsByType == nil {
		d.CropsByType = []entity.CropCount{}
	}
	if d.CropsByState == nil {
		d.CropsByState = []entity.StateCount{}
	}
	if s.Cache != nil {
		if err := s.Cache.Set(ctx, d); err != nil && s.Logger != nil {
			s.Logger.WithError(err).Warn("dashboard cache write failed")
		}
	}
	return d, nil
}

package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	repo "github.com/oksasatya/farm-registry/internal/domain/repository"
	"github.com/oksasatya/farm-registry/internal/domain/shared"
	"github.com/oksasatya/farm-registry/pkg/fieldcrypt"
	"github.com/oksasatya/farm-registry/pkg/query"
)

const (
	msgPropertyNotFound = "property not found"
	msgAreasExceeded    = "the sum of agricultural and vegetation areas cannot exceed the total area"
)

const (
	defaultSearchSize = 10
	maxSearchSize     = 50
)

type PropertyService struct {
	Repo   repo.PropertyRepository
	Codec  fieldcrypt.Codec
	Index  PropertyIndex
	Cache  DashboardCache
	Events EventPublisher
	Logger *logrus.Logger
}

func NewPropertyService(r repo.PropertyRepository, codec fieldcrypt.Codec, index PropertyIndex, cache DashboardCache, events EventPublisher, logger *logrus.Logger) *PropertyService {
	return &PropertyService{Repo: r, Codec: codec, Index: index, Cache: cache, Events: events, Logger: logger}
}

type CreatePropertyInput struct {
	Name             string
	City             string
	State            string
	TotalArea        int
	AgriculturalArea int
	VegetationArea   int
	ProducerID       string
}

// UpdatePropertyInput is a partial update; nil fields keep their value.
type UpdatePropertyInput struct {
	Name             *string
	City             *string
	State            *string
	TotalArea        *int
	AgriculturalArea *int
	VegetationArea   *int
	ProducerID       *string
}

type PropertyFilter struct {
	Name   string
	City   string
	State  string
	Orders map[string]string
	Page   int
	Limit  int
}

func (s *PropertyService) recorder() recorder {
	return recorder{events: s.Events, cache: s.Cache, logger: s.Logger}
}

// checkProperty validates the fields of a property about to be written.
func checkProperty(p *entity.Property) error {
	switch {
	case p.Name == "":
		return shared.NewValidation("name is required")
	case p.City == "":
		return shared.NewValidation("city is required")
	case len(p.State) != 2:
		return shared.NewValidation("state must be a two-letter code")
	case p.TotalArea < 1:
		return shared.NewValidation("total area must be at least 1")
	case p.AgriculturalArea < 0 || p.VegetationArea < 0:
		return shared.NewValidation("areas cannot be negative")
	case !p.AreasFit():
		return shared.NewValidation(msgAreasExceeded)
	}
	return nil
}

func (s *PropertyService) Create(ctx context.Context, in CreatePropertyInput) (*entity.Property, error) {
	p := &entity.Property{
		Name:             strings.TrimSpace(in.Name),
		City:             strings.TrimSpace(in.City),
		State:            strings.ToUpper(strings.TrimSpace(in.State)),
		TotalArea:        in.TotalArea,
		AgriculturalArea: in.AgriculturalArea,
		VegetationArea:   in.VegetationArea,
		ProducerID:       in.ProducerID,
	}
	if err := checkProperty(p); err != nil {
		return nil, err
	}
	if !validID(p.ProducerID) {
		return nil, shared.NewNotFound(msgProducerNotFound)
	}
	if err := s.Repo.Create(ctx, p); err != nil {
		if errors.Is(err, repo.ErrParentNotFound) {
			return nil, shared.NewNotFound(msgProducerNotFound)
		}
		return nil, shared.Wrap(err, "create property")
	}

	out, err := s.FindOne(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, out, "property.created")
	return out, nil
}

func (s *PropertyService) Filter(ctx context.Context, f PropertyFilter) (query.Page[entity.Property], error) {
	filters := map[string]string{
		"name":  f.Name,
		"city":  f.City,
		"state": strings.ToUpper(strings.TrimSpace(f.State)),
	}
	items, total, err := s.Repo.Filter(ctx, query.Request{Filters: filters, Orders: f.Orders, Page: f.Page, Limit: f.Limit})
	if err != nil {
		return query.Page[entity.Property]{}, filterError(err, "properties")
	}
	for i := range items {
		if err := revealProducer(s.Codec, items[i].Producer); err != nil {
			return query.Page[entity.Property]{}, err
		}
	}
	return query.NewPage(items, total, f.Page, f.Limit), nil
}

func (s *PropertyService) FindOne(ctx context.Context, id string) (*entity.Property, error) {
	if !validID(id) {
		return nil, shared.NewNotFound(msgPropertyNotFound)
	}
	p, err := s.Repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewNotFound(msgPropertyNotFound)
		}
		return nil, shared.Wrap(err, "load property")
	}
	if p.IsDeleted() {
		return nil, shared.NewNotFound(msgPropertyNotFound)
	}
	if err := revealProducer(s.Codec, p.Producer); err != nil {
		return nil, err
	}
	return p, nil
}

// Update merges the supplied fields into the live property and rechecks the
// area invariant on the merged result.
func (s *PropertyService) Update(ctx context.Context, id string, in UpdatePropertyInput) (*entity.Property, error) {
	p, err := s.FindOne(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		p.Name = strings.TrimSpace(*in.Name)
	}
	if in.City != nil {
		p.City = strings.TrimSpace(*in.City)
	}
	if in.State != nil {
		p.State = strings.ToUpper(strings.TrimSpace(*in.State))
	}
	if in.TotalArea != nil {
		p.TotalArea = *in.TotalArea
	}
	if in.AgriculturalArea != nil {
		p.AgriculturalArea = *in.AgriculturalArea
	}
	if in.VegetationArea != nil {
		p.VegetationArea = *in.VegetationArea
	}
	if in.ProducerID != nil {
		if !validID(*in.ProducerID) {
			return nil, shared.NewNotFound(msgProducerNotFound)
		}
		p.ProducerID = *in.ProducerID
	}
	if err := checkProperty(p); err != nil {
		return nil, err
	}

	if err := s.Repo.Update(ctx, p); err != nil {
		switch {
		case errors.Is(err, repo.ErrParentNotFound):
			return nil, shared.NewNotFound(msgProducerNotFound)
		case errors.Is(err, repo.ErrNotFound):
			return nil, shared.NewNotFound(msgPropertyNotFound)
		}
		return nil, shared.Wrap(err, "update property")
	}

	out, err := s.FindOne(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	s.afterWrite(ctx, out, "property.updated")
	return out, nil
}

func (s *PropertyService) Remove(ctx context.Context, id string) (*entity.Property, error) {
	if _, err := s.FindOne(ctx, id); err != nil {
		return nil, err
	}
	p, err := s.Repo.SoftDelete(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, shared.NewNotFound(msgPropertyNotFound)
		}
		return nil, shared.Wrap(err, "delete property")
	}

	rec := s.recorder()
	if s.Index != nil {
		if err := s.Index.Delete(ctx, p.ID); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("property_id", p.ID).Warn("unindex property failed")
		}
	}
	rec.invalidateDashboard(ctx)
	rec.publish(ctx, "property.deleted", "property", p.ID, nil)
	return p, nil
}

// Search runs a full-text query over the property index. Without an index
// configured it finds nothing.
func (s *PropertyService) Search(ctx context.Context, q string, size int) ([]entity.PropertySearchHit, error) {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil, shared.NewValidation("q is required")
	}
	if size <= 0 {
		size = defaultSearchSize
	}
	if size > maxSearchSize {
		size = maxSearchSize
	}
	if s.Index == nil {
		return []entity.PropertySearchHit{}, nil
	}
	hits, err := s.Index.Search(ctx, q, size)
	if err != nil {
		return nil, shared.Wrap(err, "search properties")
	}
	if hits == nil {
		hits = []entity.PropertySearchHit{}
	}
	return hits, nil
}

func (s *PropertyService) afterWrite(ctx context.Context, p *entity.Property, event string) {
	rec := s.recorder()
	if s.Index != nil {
		if err := s.Index.Index(ctx, p); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("property_id", p.ID).Warn("index property failed")
		}
	}
	rec.invalidateDashboard(ctx)
	rec.publish(ctx, event, "property", p.ID, map[string]any{
		"name":       p.Name,
		"state":      p.State,
		"producerId": p.ProducerID,
	})
}

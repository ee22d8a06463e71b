package application

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/pkg/query"
)

type mockProducerRepo struct{ mock.Mock }

func (m *mockProducerRepo) Create(ctx context.Context, p *entity.Producer) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProducerRepo) FindByID(ctx context.Context, id string) (*entity.Producer, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Producer)
	return p, args.Error(1)
}

func (m *mockProducerRepo) Update(ctx context.Context, p *entity.Producer) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProducerRepo) SoftDelete(ctx context.Context, id string) (*entity.Producer, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Producer)
	return p, args.Error(1)
}

func (m *mockProducerRepo) Filter(ctx context.Context, req query.Request) ([]entity.Producer, int64, error) {
	args := m.Called(ctx, req)
	items, _ := args.Get(0).([]entity.Producer)
	return items, args.Get(1).(int64), args.Error(2)
}

type mockPropertyRepo struct{ mock.Mock }

func (m *mockPropertyRepo) Create(ctx context.Context, p *entity.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) FindByID(ctx context.Context, id string) (*entity.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Error(1)
}

func (m *mockPropertyRepo) Update(ctx context.Context, p *entity.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockPropertyRepo) SoftDelete(ctx context.Context, id string) (*entity.Property, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*entity.Property)
	return p, args.Error(1)
}

func (m *mockPropertyRepo) Filter(ctx context.Context, req query.Request) ([]entity.Property, int64, error) {
	args := m.Called(ctx, req)
	items, _ := args.Get(0).([]entity.Property)
	return items, args.Get(1).(int64), args.Error(2)
}

type mockHarvestRepo struct{ mock.Mock }

func (m *mockHarvestRepo) Create(ctx context.Context, h *entity.Harvest) error {
	return m.Called(ctx, h).Error(0)
}

func (m *mockHarvestRepo) FindByID(ctx context.Context, id string) (*entity.Harvest, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*entity.Harvest)
	return h, args.Error(1)
}

func (m *mockHarvestRepo) FindAll(ctx context.Context, propertyID string) ([]entity.Harvest, error) {
	args := m.Called(ctx, propertyID)
	items, _ := args.Get(0).([]entity.Harvest)
	return items, args.Error(1)
}

func (m *mockHarvestRepo) SoftDelete(ctx context.Context, id string) (*entity.Harvest, error) {
	args := m.Called(ctx, id)
	h, _ := args.Get(0).(*entity.Harvest)
	return h, args.Error(1)
}

func (m *mockHarvestRepo) Dashboard(ctx context.Context) (*entity.Dashboard, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(*entity.Dashboard)
	return d, args.Error(1)
}

type mockCropRepo struct{ mock.Mock }

func (m *mockCropRepo) Create(ctx context.Context, c *entity.Crop) error {
	return m.Called(ctx, c).Error(0)
}

func (m *mockCropRepo) FindByID(ctx context.Context, id string) (*entity.Crop, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Crop)
	return c, args.Error(1)
}

func (m *mockCropRepo) SoftDelete(ctx context.Context, id string) (*entity.Crop, error) {
	args := m.Called(ctx, id)
	c, _ := args.Get(0).(*entity.Crop)
	return c, args.Error(1)
}

type mockAdminRepo struct{ mock.Mock }

func (m *mockAdminRepo) Create(ctx context.Context, a *entity.Admin) error {
	return m.Called(ctx, a).Error(0)
}

func (m *mockAdminRepo) GetByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	args := m.Called(ctx, email)
	a, _ := args.Get(0).(*entity.Admin)
	return a, args.Error(1)
}

type mockCache struct{ mock.Mock }

func (m *mockCache) Get(ctx context.Context) (*entity.Dashboard, bool, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).(*entity.Dashboard)
	return d, args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, d *entity.Dashboard) error {
	return m.Called(ctx, d).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockIndex struct{ mock.Mock }

func (m *mockIndex) Index(ctx context.Context, p *entity.Property) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockIndex) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockIndex) Search(ctx context.Context, q string, size int) ([]entity.PropertySearchHit, error) {
	args := m.Called(ctx, q, size)
	hits, _ := args.Get(0).([]entity.PropertySearchHit)
	return hits, args.Error(1)
}

// eventSink records published events in memory.
type eventSink struct {
	events []entity.Event
	err    error
}

func (s *eventSink) Publish(_ context.Context, e entity.Event) error {
	s.events = append(s.events, e)
	return s.err
}

func (s *eventSink) types() []string {
	out := make([]string, 0, len(s.events))
	for _, e := range s.events {
		out = append(out, e.Type)
	}
	return out
}

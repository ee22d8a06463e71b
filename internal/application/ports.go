package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/internal/domain/shared"
	"github.com/oksasatya/farm-registry/pkg/query"
)

// DashboardCache stores the computed dashboard between writes.
type DashboardCache interface {
	Get(ctx context.Context) (*entity.Dashboard, bool, error)
	Set(ctx context.Context, d *entity.Dashboard) error
	Invalidate(ctx context.Context) error
}

// PropertyIndex is the full-text search mirror of live properties.
type PropertyIndex interface {
	Index(ctx context.Context, p *entity.Property) error
	Delete(ctx context.Context, id string) error
	Search(ctx context.Context, q string, size int) ([]entity.PropertySearchHit, error)
}

// EventPublisher emits record-change events for auditing.
type EventPublisher interface {
	Publish(ctx context.Context, e entity.Event) error
}

type actorKey struct{}

// WithActor attaches the authenticated admin id to ctx.
func WithActor(ctx context.Context, adminID string) context.Context {
	return context.WithValue(ctx, actorKey{}, adminID)
}

func ActorFrom(ctx context.Context) string {
	id, _ := ctx.Value(actorKey{}).(string)
	return id
}

// validID reports whether id can address a row. Anything else cannot exist.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// filterError turns a rejected filter request into a validation error and
// anything else into an internal one.
func filterError(err error, what string) error {
	if errors.Is(err, query.ErrInvalidRequest) {
		return shared.NewValidation(strings.TrimPrefix(err.Error(), query.ErrInvalidRequest.Error()+": "))
	}
	return shared.Wrap(err, "filter "+what)
}

// recorder bundles the best-effort side effects shared by the services.
type recorder struct {
	events EventPublisher
	cache  DashboardCache
	logger *logrus.Logger
}

func (r recorder) publish(ctx context.Context, typ, entityName, id string, payload map[string]any) {
	if r.events == nil {
		return
	}
	e := entity.Event{
		ID:         uuid.NewString(),
		Type:       typ,
		Entity:     entityName,
		EntityID:   id,
		ActorID:    ActorFrom(ctx),
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
	if err := r.events.Publish(ctx, e); err != nil && r.logger != nil {
		r.logger.WithError(err).WithField("event", typ).WithField("entity_id", id).Warn("publish event failed")
	}
}

func (r recorder) invalidateDashboard(ctx context.Context) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx); err != nil && r.logger != nil {
		r.logger.WithError(err).Warn("dashboard cache invalidate failed")
	}
}

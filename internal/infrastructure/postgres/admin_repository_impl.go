package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/internal/domain/repository"
)

type AdminRepository struct {
	db DBTX
}

func NewAdminRepository(db DBTX) *AdminRepository {
	return &AdminRepository{db: db}
}

func (r *AdminRepository) Create(ctx context.Context, a *entity.Admin) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO admins (email, password)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`, a.Email, a.Password)
	if err := row.Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*entity.Admin, error) {
	a := &entity.Admin{}
	row := r.db.QueryRow(ctx, `
		SELECT id, email, password, created_at, updated_at
		FROM admins
		WHERE email = $1
	`, email)
	if err := row.Scan(&a.ID, &a.Email, &a.Password, &a.CreatedAt, &a.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select admin: %w", err)
	}
	return a, nil
}

var _ repository.AdminRepository = (*AdminRepository)(nil)

type AuditRepository struct {
	db DBTX
}

func NewAuditRepository(db DBTX) *AuditRepository {
	return &AuditRepository{db: db}
}

// Insert is idempotent on the event id so redelivered messages are harmless.
func (r *AuditRepository) Insert(ctx context.Context, e entity.Event) error {
	payload := e.Payload
	if payload == nil {
		payload = map[string]any{}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode audit payload: %w", err)
	}
	var actor *string
	if e.ActorID != "" {
		actor = &e.ActorID
	}
	if _, err := r.db.Exec(ctx, `
		INSERT INTO audit_events (id, type, entity, entity_id, actor_id, occurred_at, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO NOTHING
	`, e.ID, e.Type, e.Entity, e.EntityID, actor, e.OccurredAt, b); err != nil {
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}

var _ repository.AuditRepository = (*AuditRepository)(nil)

package repository

import (
	"context"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
)

type AdminRepository interface {
	// Create returns ErrDuplicate when the email is taken.
	Create(ctx context.Context, a *entity.Admin) error
	GetByEmail(ctx context.Context, email string) (*entity.Admin, error)
}

// AuditRepository stores record-change events consumed from the queue.
type AuditRepository interface {
	Insert(ctx context.Context, e entity.Event) error
}

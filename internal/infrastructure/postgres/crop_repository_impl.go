package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/internal/domain/repository"
)

const cropColumns = `id, name, harvest_id, created_at, updated_at, deleted_at`

type CropRepository struct {
	db DBTX
}

func NewCropRepository(db DBTX) *CropRepository {
	return &CropRepository{db: db}
}

func cropDest(c *entity.Crop) []any {
	return []any{&c.ID, &c.Name, &c.HarvestID, &c.CreatedAt, &c.UpdatedAt, &c.DeletedAt}
}

func scanCropRow(row pgx.CollectableRow) (entity.Crop, error) {
	var c entity.Crop
	err := row.Scan(cropDest(&c)...)
	return c, err
}

func (r *CropRepository) Create(ctx context.Context, c *entity.Crop) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO crops (name, harvest_id)
		SELECT $1, h.id
		FROM harvests h
		WHERE h.id = $2 AND h.deleted_at IS NULL
		RETURNING id, created_at, updated_at
	`, c.Name, c.HarvestID)
	if err := row.Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrParentNotFound
		}
		return fmt.Errorf("insert crop: %w", err)
	}
	return nil
}

func (r *CropRepository) FindByID(ctx context.Context, id string) (*entity.Crop, error) {
	row := r.db.QueryRow(ctx, `SELECT `+cropColumns+` FROM crops WHERE id = $1`, id)
	var c entity.Crop
	if err := row.Scan(cropDest(&c)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select crop: %w", err)
	}
	return &c, nil
}

func (r *CropRepository) SoftDelete(ctx context.Context, id string) (*entity.Crop, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE crops SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+cropColumns, id)
	var c entity.Crop
	if err := row.Scan(cropDest(&c)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("soft delete crop: %w", err)
	}
	return &c, nil
}

// liveCrops loads the non-deleted crops of the given harvests.
func liveCrops(ctx context.Context, db DBTX, harvestIDs []string) (map[string][]entity.Crop, error) {
	res := make(map[string][]entity.Crop, len(harvestIDs))
	if len(harvestIDs) == 0 {
		return res, nil
	}
	rows, err := db.Query(ctx, `
		SELECT `+cropColumns+`
		FROM crops
		WHERE harvest_id = ANY($1) AND deleted_at IS NULL
		ORDER BY created_at ASC, id ASC
	`, harvestIDs)
	if err != nil {
		return nil, fmt.Errorf("select harvest crops: %w", err)
	}
	crops, err := pgx.CollectRows(rows, scanCropRow)
	if err != nil {
		return nil, fmt.Errorf("scan harvest crops: %w", err)
	}
	for _, c := range crops {
		res[c.HarvestID] = append(res[c.HarvestID], c)
	}
	return res, nil
}

var _ repository.CropRepository = (*CropRepository)(nil)

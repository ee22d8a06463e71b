package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/internal/domain/repository"
)

const harvestColumns = `id, year, property_id, created_at, updated_at, deleted_at`

type HarvestRepository struct {
	db DBTX
}

func NewHarvestRepository(db DBTX) *HarvestRepository {
	return &HarvestRepository{db: db}
}

func harvestDest(h *entity.Harvest) []any {
	return []any{&h.ID, &h.Year, &h.PropertyID, &h.CreatedAt, &h.UpdatedAt, &h.DeletedAt}
}

func scanHarvestRow(row pgx.CollectableRow) (entity.Harvest, error) {
	var h entity.Harvest
	err := row.Scan(harvestDest(&h)...)
	return h, err
}

func scanHarvestWithProperty(row pgx.Row) (entity.Harvest, error) {
	var h entity.Harvest
	prop := &entity.Property{}
	if err := row.Scan(append(harvestDest(&h), propertyDest(prop)...)...); err != nil {
		return entity.Harvest{}, err
	}
	h.Property = prop
	return h, nil
}

func (r *HarvestRepository) Create(ctx context.Context, h *entity.Harvest) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO harvests (year, property_id)
		SELECT $1, p.id
		FROM properties p
		WHERE p.id = $2 AND p.deleted_at IS NULL
		RETURNING id, created_at, updated_at
	`, h.Year, h.PropertyID)
	if err := row.Scan(&h.ID, &h.CreatedAt, &h.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrParentNotFound
		}
		return fmt.Errorf("insert harvest: %w", err)
	}
	return nil
}

func (r *HarvestRepository) FindByID(ctx context.Context, id string) (*entity.Harvest, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+qualify("h", harvestColumns)+`, `+qualify("p", propertyColumns)+`
		FROM harvests h
		JOIN properties p ON p.id = h.property_id
		WHERE h.id = $1
	`, id)
	h, err := scanHarvestWithProperty(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select harvest: %w", err)
	}
	crops, err := liveCrops(ctx, r.db, []string{h.ID})
	if err != nil {
		return nil, err
	}
	h.Crops = crops[h.ID]
	return &h, nil
}

func (r *HarvestRepository) FindAll(ctx context.Context, propertyID string) ([]entity.Harvest, error) {
	sql := `
		SELECT ` + qualify("h", harvestColumns) + `, ` + qualify("p", propertyColumns) + `
		FROM harvests h
		JOIN properties p ON p.id = h.property_id
		WHERE h.deleted_at IS NULL`
	var args []any
	if propertyID != "" {
		sql += ` AND h.property_id = $1`
		args = append(args, propertyID)
	}
	sql += ` ORDER BY h.year DESC, h.created_at DESC, h.id ASC`

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list harvests: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Harvest, error) {
		return scanHarvestWithProperty(row)
	})
	if err != nil {
		return nil, fmt.Errorf("scan harvests: %w", err)
	}

	ids := make([]string, 0, len(out))
	for _, h := range out {
		ids = append(ids, h.ID)
	}
	crops, err := liveCrops(ctx, r.db, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].Crops = crops[out[i].ID]
	}
	return out, nil
}

func (r *HarvestRepository) SoftDelete(ctx context.Context, id string) (*entity.Harvest, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE harvests SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+harvestColumns, id)
	var h entity.Harvest
	if err := row.Scan(harvestDest(&h)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("soft delete harvest: %w", err)
	}
	return &h, nil
}

// Dashboard counts live harvests and crops only.
func (r *HarvestRepository) Dashboard(ctx context.Context) (*entity.Dashboard, error) {
	d := &entity.Dashboard{CropsByType: []entity.CropCount{}, CropsByState: []entity.StateCount{}}
	if err := r.db.QueryRow(ctx, `
		SELECT
			(SELECT count(*) FROM harvests WHERE deleted_at IS NULL),
			(SELECT count(*) FROM crops WHERE deleted_at IS NULL)
	`).Scan(&d.TotalHarvests, &d.TotalCrops); err != nil {
		return nil, fmt.Errorf("count totals: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT name, count(*)
		FROM crops
		WHERE deleted_at IS NULL
		GROUP BY name
		ORDER BY count(*) DESC, name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("crops by type: %w", err)
	}
	byType, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.CropCount, error) {
		var c entity.CropCount
		err := row.Scan(&c.Name, &c.Count)
		return c, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan crops by type: %w", err)
	}
	d.CropsByType = append(d.CropsByType, byType...)

	rows, err = r.db.Query(ctx, `
		SELECT p.state, count(*)
		FROM harvests h
		JOIN properties p ON p.id = h.property_id
		WHERE h.deleted_at IS NULL
		GROUP BY p.state
		ORDER BY count(*) DESC, p.state ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("harvests by state: %w", err)
	}
	byState, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.StateCount, error) {
		var s entity.StateCount
		err := row.Scan(&s.State, &s.Count)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan harvests by state: %w", err)
	}
	d.CropsByState = append(d.CropsByState, byState...)
	return d, nil
}

// liveHarvests loads the non-deleted harvests of the given properties.
func liveHarvests(ctx context.Context, db DBTX, propertyIDs []string) (map[string][]entity.Harvest, error) {
	res := make(map[string][]entity.Harvest, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return res, nil
	}
	rows, err := db.Query(ctx, `
		SELECT `+harvestColumns+`
		FROM harvests
		WHERE property_id = ANY($1) AND deleted_at IS NULL
		ORDER BY year DESC, id ASC
	`, propertyIDs)
	if err != nil {
		return nil, fmt.Errorf("select property harvests: %w", err)
	}
	harvests, err := pgx.CollectRows(rows, scanHarvestRow)
	if err != nil {
		return nil, fmt.Errorf("scan property harvests: %w", err)
	}
	for _, h := range harvests {
		res[h.PropertyID] = append(res[h.PropertyID], h)
	}
	return res, nil
}

var _ repository.HarvestRepository = (*HarvestRepository)(nil)

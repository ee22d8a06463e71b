package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/internal/domain/repository"
	"github.com/oksasatya/farm-registry/pkg/query"
)

const propertyColumns = `id, name, city, state, total_area, agricultural_area, vegetation_area, producer_id, created_at, updated_at, deleted_at`

// PropertySchema whitelists the property filter and order fields. Columns are
// qualified with the "p" alias used by the filter query.
var PropertySchema = query.Schema{
	Filters: []query.Filter{
		{Name: "name", Column: "p.name", Match: query.Contains},
		{Name: "city", Column: "p.city", Match: query.Contains},
		{Name: "state", Column: "p.state", Match: query.Equals},
	},
	Sorts: []query.Sort{
		{Name: "name", Column: "p.name"},
		{Name: "city", Column: "p.city"},
		{Name: "state", Column: "p.state"},
		{Name: "createdAt", Column: "p.created_at"},
	},
	SoftDelete:   "p.deleted_at",
	DefaultOrder: "p.created_at DESC",
	Tiebreak:     "p.id ASC",
}

type PropertyRepository struct {
	db DBTX
}

func NewPropertyRepository(db DBTX) *PropertyRepository {
	return &PropertyRepository{db: db}
}

func propertyDest(p *entity.Property) []any {
	return []any{
		&p.ID, &p.Name, &p.City, &p.State,
		&p.TotalArea, &p.AgriculturalArea, &p.VegetationArea,
		&p.ProducerID, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt,
	}
}

func producerDest(p *entity.Producer) []any {
	return []any{&p.ID, &p.CPFCNPJ, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.DeletedAt}
}

func scanPropertyRow(row pgx.CollectableRow) (entity.Property, error) {
	var p entity.Property
	err := row.Scan(propertyDest(&p)...)
	return p, err
}

// scanPropertyWithProducer reads a properties row joined with its producer.
func scanPropertyWithProducer(row pgx.Row) (entity.Property, error) {
	var p entity.Property
	owner := &entity.Producer{}
	if err := row.Scan(append(propertyDest(&p), producerDest(owner)...)...); err != nil {
		return entity.Property{}, err
	}
	p.Producer = owner
	return p, nil
}

func (r *PropertyRepository) Create(ctx context.Context, p *entity.Property) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO properties (name, city, state, total_area, agricultural_area, vegetation_area, producer_id)
		SELECT $1, $2, $3, $4, $5, $6, pr.id
		FROM producers pr
		WHERE pr.id = $7 AND pr.deleted_at IS NULL
		RETURNING id, created_at, updated_at
	`, p.Name, p.City, p.State, p.TotalArea, p.AgriculturalArea, p.VegetationArea, p.ProducerID)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrParentNotFound
		}
		return fmt.Errorf("insert property: %w", err)
	}
	return nil
}

func (r *PropertyRepository) FindByID(ctx context.Context, id string) (*entity.Property, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+qualify("p", propertyColumns)+`, `+qualify("pr", producerColumns)+`
		FROM properties p
		JOIN producers pr ON pr.id = p.producer_id
		WHERE p.id = $1
	`, id)
	p, err := scanPropertyWithProducer(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select property: %w", err)
	}
	harvests, err := liveHarvests(ctx, r.db, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Harvests = harvests[p.ID]
	return &p, nil
}

func (r *PropertyRepository) Update(ctx context.Context, p *entity.Property) error {
	row := r.db.QueryRow(ctx, `
		UPDATE properties
		SET name = $2, city = $3, state = $4,
		    total_area = $5, agricultural_area = $6, vegetation_area = $7,
		    producer_id = $8, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		  AND EXISTS (SELECT 1 FROM producers pr WHERE pr.id = $8 AND pr.deleted_at IS NULL)
		RETURNING updated_at
	`, p.ID, p.Name, p.City, p.State, p.TotalArea, p.AgriculturalArea, p.VegetationArea, p.ProducerID)
	err := row.Scan(&p.UpdatedAt)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("update property: %w", err)
	}

	var live bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM properties WHERE id = $1 AND deleted_at IS NULL)`, p.ID).Scan(&live); err != nil {
		return fmt.Errorf("check property: %w", err)
	}
	if live {
		return repository.ErrParentNotFound
	}
	return repository.ErrNotFound
}

func (r *PropertyRepository) SoftDelete(ctx context.Context, id string) (*entity.Property, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE properties SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+propertyColumns, id)
	var p entity.Property
	if err := row.Scan(propertyDest(&p)...); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("soft delete property: %w", err)
	}
	return &p, nil
}

func (r *PropertyRepository) Filter(ctx context.Context, req query.Request) ([]entity.Property, int64, error) {
	q, err := PropertySchema.Build(req)
	if err != nil {
		return nil, 0, err
	}
	window, args := q.Window()
	rows, err := r.db.Query(ctx, `
		SELECT `+qualify("p", propertyColumns)+`, `+qualify("pr", producerColumns)+`
		FROM properties p
		JOIN producers pr ON pr.id = p.producer_id
		WHERE `+q.Where+`
		ORDER BY `+q.OrderBy+`
		`+window, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("filter properties: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Property, error) {
		return scanPropertyWithProducer(row)
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan properties: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM properties p WHERE `+q.Where, q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	ids := make([]string, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	harvests, err := liveHarvests(ctx, r.db, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Harvests = harvests[out[i].ID]
	}
	return out, total, nil
}

var _ repository.PropertyRepository = (*PropertyRepository)(nil)

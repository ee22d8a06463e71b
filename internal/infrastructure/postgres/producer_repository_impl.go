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

const producerColumns = `id, cpf_cnpj, name, created_at, updated_at, deleted_at`

// ProducerSchema whitelists the producer filter and order fields.
var ProducerSchema = query.Schema{
	Filters: []query.Filter{
		{Name: "name", Column: "name", Match: query.Contains},
		{Name: "cpfCnpj", Column: "cpf_cnpj_digest", Match: query.Equals},
	},
	Sorts: []query.Sort{
		{Name: "name", Column: "name"},
		{Name: "cpfCnpj", Column: "cpf_cnpj"},
		{Name: "createdAt", Column: "created_at"},
		{Name: "updatedAt", Column: "updated_at"},
		{Name: "deletedAt", Column: "deleted_at"},
	},
	SoftDelete:   "deleted_at",
	DefaultOrder: "created_at DESC",
	Tiebreak:     "id ASC",
}

type ProducerRepository struct {
	db DBTX
}

func NewProducerRepository(db DBTX) *ProducerRepository {
	return &ProducerRepository{db: db}
}

func scanProducer(row pgx.Row, p *entity.Producer) error {
	return row.Scan(producerDest(p)...)
}

func (r *ProducerRepository) Create(ctx context.Context, p *entity.Producer) error {
	row := r.db.QueryRow(ctx, `
		INSERT INTO producers (cpf_cnpj, cpf_cnpj_digest, name)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`, p.CPFCNPJ, p.DocumentDigest, p.Name)
	if err := row.Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert producer: %w", err)
	}
	return nil
}

func (r *ProducerRepository) FindByID(ctx context.Context, id string) (*entity.Producer, error) {
	p := &entity.Producer{}
	row := r.db.QueryRow(ctx, `SELECT `+producerColumns+` FROM producers WHERE id = $1`, id)
	if err := scanProducer(row, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select producer: %w", err)
	}
	props, err := r.liveProperties(ctx, []string{p.ID})
	if err != nil {
		return nil, err
	}
	p.Properties = props[p.ID]
	return p, nil
}

func (r *ProducerRepository) Update(ctx context.Context, p *entity.Producer) error {
	row := r.db.QueryRow(ctx, `
		UPDATE producers
		SET cpf_cnpj = $2, cpf_cnpj_digest = $3, name = $4, updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING updated_at
	`, p.ID, p.CPFCNPJ, p.DocumentDigest, p.Name)
	if err := row.Scan(&p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("update producer: %w", err)
	}
	return nil
}

func (r *ProducerRepository) SoftDelete(ctx context.Context, id string) (*entity.Producer, error) {
	p := &entity.Producer{}
	row := r.db.QueryRow(ctx, `
		UPDATE producers SET deleted_at = now()
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING `+producerColumns, id)
	if err := scanProducer(row, p); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("soft delete producer: %w", err)
	}
	return p, nil
}

func (r *ProducerRepository) Filter(ctx context.Context, req query.Request) ([]entity.Producer, int64, error) {
	q, err := ProducerSchema.Build(req)
	if err != nil {
		return nil, 0, err
	}
	window, args := q.Window()
	rows, err := r.db.Query(ctx, `
		SELECT `+producerColumns+`
		FROM producers
		WHERE `+q.Where+`
		ORDER BY `+q.OrderBy+`
		`+window, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("filter producers: %w", err)
	}
	out, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entity.Producer, error) {
		var p entity.Producer
		err := scanProducer(row, &p)
		return p, err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("scan producers: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM producers WHERE `+q.Where, q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count producers: %w", err)
	}

	ids := make([]string, 0, len(out))
	for _, p := range out {
		ids = append(ids, p.ID)
	}
	props, err := r.liveProperties(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	for i := range out {
		out[i].Properties = props[out[i].ID]
	}
	return out, total, nil
}

// liveProperties loads the non-deleted properties of the given producers.
func (r *ProducerRepository) liveProperties(ctx context.Context, producerIDs []string) (map[string][]entity.Property, error) {
	res := make(map[string][]entity.Property, len(producerIDs))
	if len(producerIDs) == 0 {
		return res, nil
	}
	rows, err := r.db.Query(ctx, `
		SELECT `+propertyColumns+`
		FROM properties
		WHERE producer_id = ANY($1) AND deleted_at IS NULL
		ORDER BY created_at DESC, id ASC
	`, producerIDs)
	if err != nil {
		return nil, fmt.Errorf("select producer properties: %w", err)
	}
	props, err := pgx.CollectRows(rows, scanPropertyRow)
	if err != nil {
		return nil, fmt.Errorf("scan producer properties: %w", err)
	}
	for _, p := range props {
		res[p.ProducerID] = append(res[p.ProducerID], p)
	}
	return res, nil
}

var _ repository.ProducerRepository = (*ProducerRepository)(nil)

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/farm-registry/internal/domain/entity"
	"github.com/oksasatya/farm-registry/internal/domain/repository"
	"github.com/oksasatya/farm-registry/pkg/query"
)

var harvestCols = []string{"id", "year", "property_id", "created_at", "updated_at", "deleted_at"}

func joinedPropertyCols() []string {
	return append(append([]string{}, propertyCols...), producerCols...)
}

func sampleProperty() *entity.Property {
	return &entity.Property{
		Name: "Fazenda Boa Vista", City: "Campinas", State: "SP",
		TotalArea: 100, AgriculturalArea: 60, VegetationArea: 30,
		ProducerID: "p-1",
	}
}

func TestPropertyRepository_CreateGuardedOnLiveProducer(t *testing.T) {
	mock := newMock(t)
	repo := NewPropertyRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`INSERT INTO properties .* FROM producers pr WHERE pr.id = \$7 AND pr.deleted_at IS NULL`).
		WithArgs("Fazenda Boa Vista", "Campinas", "SP", 100, 60, 30, "p-1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow("prop-1", now, now))

	p := sampleProperty()
	require.NoError(t, repo.Create(context.Background(), p))
	assert.Equal(t, "prop-1", p.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_CreateWithoutProducerWritesNothing(t *testing.T) {
	mock := newMock(t)
	repo := NewPropertyRepository(mock)

	mock.ExpectQuery(`INSERT INTO properties`).
		WithArgs("Fazenda Boa Vista", "Campinas", "SP", 100, 60, 30, "p-1").
		WillReturnError(pgx.ErrNoRows)

	err := repo.Create(context.Background(), sampleProperty())
	assert.ErrorIs(t, err, repository.ErrParentNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_FindByIDJoinsProducerAndHarvests(t *testing.T) {
	mock := newMock(t)
	repo := NewPropertyRepository(mock)
	now := time.Now()

	mock.ExpectQuery(`FROM properties p JOIN producers pr ON pr.id = p.producer_id WHERE p.id = \$1`).
		WithArgs("prop-1").
		WillReturnRows(pgxmock.NewRows(joinedPropertyCols()).AddRow(
			"prop-1", "Fazenda", "Campinas", "SP", 100, 60, 30, "p-1", now, now, noTime,
			"p-1", "enc", "Ana", now, now, noTime,
		))
	mock.ExpectQuery(`FROM harvests WHERE property_id = ANY\(\$1\)`).
		WithArgs([]string{"prop-1"}).
		WillReturnRows(pgxmock.NewRows(harvestCols).AddRow("h-1", 2023, "prop-1", now, now, noTime))

	p, err := repo.FindByID(context.Background(), "prop-1")
	require.NoError(t, err)
	require.NotNil(t, p.Producer)
	assert.Equal(t, "enc", p.Producer.CPFCNPJ)
	require.Len(t, p.Harvests, 1)
	assert.Equal(t, 2023, p.Harvests[0].Year)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPropertyRepository_UpdateClassifiesMissingRows(t *testing.T) {
	cases := []struct {
		name string
		live bool
		want error
	}{
		{"producer gone", true, repository.ErrParentNotFound},
		{"property gone", false, repository.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mock := newMock(t)
			repo := NewPropertyRepository(mock)
			p := sampleProperty()
			p.ID = "prop-1"

			mock.ExpectQuery(`UPDATE properties`).
				WithArgs("prop-1", p.Name, p.City, p.State, p.TotalArea, p.AgriculturalArea, p.VegetationArea, p.ProducerID).
				WillReturnError(pgx.ErrNoRows)
			mock.ExpectQuery(`SELECT EXISTS`).
				WithArgs("prop-1").
				WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(tc.live))

			err := repo.Update(context.Background(), p)
			assert.ErrorIs(t, err, tc.want)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPropertyRepository_Filter(t *testing.T) {
	mock := newMock(t)
	repo := NewPropertyRepository(mock)
	now := time.Now()

	req := query.Request{Filters: map[string]string{"state": "MG"}, Page: 1, Limit: 10}

	mock.ExpectQuery(`WHERE p.deleted_at IS NULL AND p.state = \$1 ORDER BY p.created_at DESC, p.id ASC LIMIT \$2 OFFSET \$3`).
		WithArgs("MG", 10, 0).
		WillReturnRows(pgxmock.NewRows(joinedPropertyCols()).AddRow(
			"prop-1", "Sitio", "Uberaba", "MG", 10, 5, 5, "p-1", now, now, noTime,
			"p-1", "enc", "Ana", now, now, noTime,
		))
	mock.ExpectQuery(`SELECT count\(\*\) FROM properties p WHERE p.deleted_at IS NULL AND p.state = \$1`).
		WithArgs("MG").
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(1)))
	mock.ExpectQuery(`FROM harvests`).
		WithArgs([]string{"prop-1"}).
		WillReturnRows(pgxmock.NewRows(harvestCols))

	items, total, err := repo.Filter(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "Ana", items[0].Producer.Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

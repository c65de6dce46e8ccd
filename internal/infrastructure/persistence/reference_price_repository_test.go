package persistence

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// newMockReferencePriceRepository creates a GormReferencePriceRepository with a mocked SQL connection
func newMockReferencePriceRepository(t *testing.T) (*GormReferencePriceRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormReferencePriceRepository(gormDB), mock, mockDB
}

func TestGormReferencePriceRepository_FindApplicable(t *testing.T) {
	skuID := uuid.New()
	districtID := uuid.New()
	date := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	t.Run("returns district-scoped price when present", func(t *testing.T) {
		repo, mock, mockDB := newMockReferencePriceRepository(t)
		defer mockDB.Close()

		priceID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "sku_id", "district_id", "price", "active"}).
			AddRow(priceID, skuID, districtID, "1250.00", true)

		mock.ExpectQuery(`SELECT \* FROM "reference_prices" WHERE sku_id = .* district_id = .*`).
			WillReturnRows(rows)

		rp, err := repo.FindApplicable(context.Background(), skuID, []uuid.UUID{districtID}, date)

		require.NoError(t, err)
		assert.Equal(t, priceID, rp.ID)
		require.NotNil(t, rp.DistrictID)
		assert.Equal(t, districtID, *rp.DistrictID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("falls back to the global scope", func(t *testing.T) {
		repo, mock, mockDB := newMockReferencePriceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "reference_prices" WHERE sku_id = .* district_id = .*`).
			WillReturnError(gorm.ErrRecordNotFound)

		priceID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "sku_id", "district_id", "price", "active"}).
			AddRow(priceID, skuID, nil, "1180.00", true)

		mock.ExpectQuery(`SELECT \* FROM "reference_prices" WHERE sku_id = .* district_id IS NULL.*`).
			WillReturnRows(rows)

		rp, err := repo.FindApplicable(context.Background(), skuID, []uuid.UUID{districtID}, date)

		require.NoError(t, err)
		assert.Equal(t, priceID, rp.ID)
		assert.Nil(t, rp.DistrictID)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNoReferencePrice when nothing matches", func(t *testing.T) {
		repo, mock, mockDB := newMockReferencePriceRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "reference_prices"`).
			WillReturnError(gorm.ErrRecordNotFound)

		rp, err := repo.FindApplicable(context.Background(), skuID, nil, date)

		assert.ErrorIs(t, err, shared.ErrNoReferencePrice)
		assert.Nil(t, rp)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormReferencePriceRepository_CountByDistrict(t *testing.T) {
	t.Run("counts active district prices", func(t *testing.T) {
		repo, mock, mockDB := newMockReferencePriceRepository(t)
		defer mockDB.Close()

		districtID := uuid.New()
		rows := sqlmock.NewRows([]string{"count"}).AddRow(3)

		mock.ExpectQuery(`SELECT count\(\*\) FROM "reference_prices" WHERE district_id = .*`).
			WillReturnRows(rows)

		count, err := repo.CountByDistrict(context.Background(), districtID)

		assert.NoError(t, err)
		assert.Equal(t, int64(3), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

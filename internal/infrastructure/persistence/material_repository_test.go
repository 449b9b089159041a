package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/tailor/backend/internal/domain/shared"
)

// newMockMaterialRepository creates a GormMaterialRepository with a mocked SQL connection
func newMockMaterialRepository(t *testing.T) (*GormMaterialRepository, sqlmock.Sqlmock, *sql.DB) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return NewGormMaterialRepository(gormDB), mock, mockDB
}

func materialColumns() []string {
	return []string{"id", "version", "material_type", "quantity_in_stock", "unit_price", "reorder_level"}
}

func TestGormMaterialRepository_FindByID(t *testing.T) {
	t.Run("finds existing material", func(t *testing.T) {
		repo, mock, mockDB := newMockMaterialRepository(t)
		defer mockDB.Close()

		materialID := uuid.New()

		rows := sqlmock.NewRows(materialColumns()).
			AddRow(materialID, 1, "fabric", decimal.NewFromInt(50), decimal.NewFromInt(150), decimal.NewFromInt(10))

		mock.ExpectQuery(`SELECT \* FROM "materials" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(materialID, 1).
			WillReturnRows(rows)

		mat, err := repo.FindByID(context.Background(), materialID)

		assert.NoError(t, err)
		assert.NotNil(t, mat)
		assert.Equal(t, materialID, mat.ID)
		assert.Equal(t, "fabric", mat.MaterialType)
		assert.True(t, mat.QuantityInStock.Equal(decimal.NewFromInt(50)))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing material to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockMaterialRepository(t)
		defer mockDB.Close()

		materialID := uuid.New()

		mock.ExpectQuery(`SELECT \* FROM "materials" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(materialID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		mat, err := repo.FindByID(context.Background(), materialID)

		assert.Nil(t, mat)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMaterialRepository_FindByType(t *testing.T) {
	t.Run("finds material by type name", func(t *testing.T) {
		repo, mock, mockDB := newMockMaterialRepository(t)
		defer mockDB.Close()

		materialID := uuid.New()

		rows := sqlmock.NewRows(materialColumns()).
			AddRow(materialID, 1, "button", decimal.NewFromInt(500), decimal.NewFromInt(2), decimal.NewFromInt(100))

		mock.ExpectQuery(`SELECT \* FROM "materials" WHERE material_type = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("button", 1).
			WillReturnRows(rows)

		mat, err := repo.FindByType(context.Background(), "button")

		assert.NoError(t, err)
		assert.Equal(t, "button", mat.MaterialType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("unknown type maps to not found", func(t *testing.T) {
		repo, mock, mockDB := newMockMaterialRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT \* FROM "materials" WHERE material_type = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("velvet", 1).
			WillReturnError(gorm.ErrRecordNotFound)

		mat, err := repo.FindByType(context.Background(), "velvet")

		assert.Nil(t, mat)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMaterialRepository_FindByTypeForUpdate(t *testing.T) {
	t.Run("locks the row for update", func(t *testing.T) {
		repo, mock, mockDB := newMockMaterialRepository(t)
		defer mockDB.Close()

		materialID := uuid.New()

		rows := sqlmock.NewRows(materialColumns()).
			AddRow(materialID, 1, "fabric", decimal.NewFromInt(50), decimal.NewFromInt(150), decimal.NewFromInt(10))

		mock.ExpectQuery(`SELECT \* FROM "materials" WHERE material_type = \$1 ORDER BY .* LIMIT .* FOR UPDATE`).
			WithArgs("fabric", 1).
			WillReturnRows(rows)

		mat, err := repo.FindByTypeForUpdate(context.Background(), "fabric")

		assert.NoError(t, err)
		assert.Equal(t, "fabric", mat.MaterialType)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMaterialRepository_FindBelowReorderLevel(t *testing.T) {
	t.Run("returns materials at or below the reorder level", func(t *testing.T) {
		repo, mock, mockDB := newMockMaterialRepository(t)
		defer mockDB.Close()

		rows := sqlmock.NewRows(materialColumns()).
			AddRow(uuid.New(), 1, "thread", decimal.NewFromInt(2), decimal.NewFromInt(10), decimal.NewFromInt(5)).
			AddRow(uuid.New(), 1, "zipper", decimal.NewFromInt(0), decimal.NewFromInt(15), decimal.NewFromInt(20))

		mock.ExpectQuery(`SELECT \* FROM "materials" WHERE reorder_level > 0 AND quantity_in_stock <= reorder_level`).
			WillReturnRows(rows)

		materials, err := repo.FindBelowReorderLevel(context.Background())

		assert.NoError(t, err)
		require.Len(t, materials, 2)
		assert.Equal(t, "thread", materials[0].MaterialType)
		assert.True(t, materials[0].IsBelowReorderLevel())
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormMaterialRepository_Count(t *testing.T) {
	t.Run("counts all materials", func(t *testing.T) {
		repo, mock, mockDB := newMockMaterialRepository(t)
		defer mockDB.Close()

		mock.ExpectQuery(`SELECT count\(\*\) FROM "materials"`).
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

		count, err := repo.Count(context.Background(), shared.Filter{})

		assert.NoError(t, err)
		assert.Equal(t, int64(6), count)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tailor/backend/internal/domain/customer"
	"github.com/tailor/backend/internal/domain/shared"
)

func setupLoyaltyEntryTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(&customer.LoyaltyPointsEntry{})
	require.NoError(t, err)

	return db
}

func newLedgerEntry(t *testing.T, customerID uuid.UUID, change, balance int64, createdAt time.Time) *customer.LoyaltyPointsEntry {
	entry, err := customer.NewLoyaltyPointsEntry(customerID, change, balance, customer.LoyaltyTxnPurchase, nil, "")
	require.NoError(t, err)
	entry.CreatedAt = createdAt
	return entry
}

func TestGormLoyaltyEntryRepository_Append(t *testing.T) {
	db := setupLoyaltyEntryTestDB(t)
	repo := NewGormLoyaltyEntryRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	orderID := uuid.New()

	entry, err := customer.NewLoyaltyPointsEntry(customerID, 20, 20, customer.LoyaltyTxnPurchase, &orderID, "Order ORD-2026-0042 delivered")
	require.NoError(t, err)

	require.NoError(t, repo.Append(ctx, entry))

	found, err := repo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, entry.ID, found[0].ID)
	assert.Equal(t, int64(20), found[0].PointsChange)
	assert.Equal(t, customer.LoyaltyTxnPurchase, found[0].TransactionType)
	require.NotNil(t, found[0].OrderID)
	assert.Equal(t, orderID, *found[0].OrderID)
}

func TestGormLoyaltyEntryRepository_FindByCustomer(t *testing.T) {
	db := setupLoyaltyEntryTestDB(t)
	repo := NewGormLoyaltyEntryRepository(db)
	ctx := context.Background()

	customerID := uuid.New()
	otherID := uuid.New()
	base := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, newLedgerEntry(t, customerID, 20, 20, base)))
	require.NoError(t, repo.Append(ctx, newLedgerEntry(t, customerID, 100, 120, base.Add(time.Hour))))
	require.NoError(t, repo.Append(ctx, newLedgerEntry(t, customerID, 35, 155, base.Add(2*time.Hour))))
	require.NoError(t, repo.Append(ctx, newLedgerEntry(t, otherID, 50, 50, base)))

	t.Run("lists entries newest first", func(t *testing.T) {
		entries, err := repo.FindByCustomer(ctx, customerID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, entries, 3)

		assert.Equal(t, int64(35), entries[0].PointsChange)
		assert.Equal(t, int64(100), entries[1].PointsChange)
		assert.Equal(t, int64(20), entries[2].PointsChange)
	})

	t.Run("only returns the requested customer", func(t *testing.T) {
		entries, err := repo.FindByCustomer(ctx, otherID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, otherID, entries[0].CustomerID)
	})

	t.Run("pages through the ledger", func(t *testing.T) {
		filter := shared.Filter{Page: 2, PageSize: 2}
		entries, err := repo.FindByCustomer(ctx, customerID, filter)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, int64(20), entries[0].PointsChange)
	})

	t.Run("unknown customer yields an empty ledger", func(t *testing.T) {
		entries, err := repo.FindByCustomer(ctx, uuid.New(), shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}

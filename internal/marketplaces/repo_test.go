package marketplaces

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	"github.com/margindesk/margindesk-backend/pkg/enums"
)

func setupMarketplacesTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	marketplaces := `
CREATE TABLE IF NOT EXISTS marketplaces (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	feeDefinitions := `
CREATE TABLE IF NOT EXISTS fee_definitions (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  calc_kind TEXT NOT NULL,
  apply_point TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	stores := `
CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  marketplace_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	storeFees := `
CREATE TABLE IF NOT EXISTS store_fees (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  fee_definition_id TEXT NOT NULL,
  value TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (store_id, fee_definition_id)
);`
	listingFees := `
CREATE TABLE IF NOT EXISTS listing_fees (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  listing_id TEXT NOT NULL,
  fee_definition_id TEXT NOT NULL,
  value TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (listing_id, fee_definition_id)
);`
	require.NoError(t, db.Exec(marketplaces).Error)
	require.NoError(t, db.Exec(feeDefinitions).Error)
	require.NoError(t, db.Exec(stores).Error)
	require.NoError(t, db.Exec(storeFees).Error)
	require.NoError(t, db.Exec(listingFees).Error)
	return db
}

func newMarketplace(t *testing.T, db *gorm.DB, userID uuid.UUID, name string) *models.Marketplace {
	t.Helper()
	marketplace := &models.Marketplace{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}
	require.NoError(t, db.Create(marketplace).Error)
	return marketplace
}

func newFeeDefinition(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, kind enums.FeeCalcKind, point enums.FeeApplyPoint) *models.FeeDefinition {
	t.Helper()
	definition := &models.FeeDefinition{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		CalcKind:   kind,
		ApplyPoint: point,
		CreatedAt:  time.Now().UTC(),
	}
	require.NoError(t, db.Create(definition).Error)
	return definition
}

func TestRepositoryStoreWithFees(t *testing.T) {
	db := setupMarketplacesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	marketplace := newMarketplace(t, db, userID, "Shopee")
	commission := newFeeDefinition(t, db, userID, "Commission", enums.FeeCalcPercent, enums.FeeApplyOnDiscountedPrice)
	shipping := newFeeDefinition(t, db, userID, "Shipping subsidy", enums.FeeCalcFixed, enums.FeeApplyOnPrice)

	store := &models.Store{
		ID:            uuid.New(),
		UserID:        userID,
		MarketplaceID: marketplace.ID,
		Name:          "Main store",
	}
	_, err := repo.CreateStore(ctx, store)
	require.NoError(t, err)

	now := time.Now().UTC()
	_, err = repo.SaveStoreFee(ctx, &models.StoreFee{
		ID:              uuid.New(),
		UserID:          userID,
		StoreID:         store.ID,
		FeeDefinitionID: commission.ID,
		Value:           decimal.RequireFromString("0.05"),
		CreatedAt:       now,
	})
	require.NoError(t, err)
	_, err = repo.SaveStoreFee(ctx, &models.StoreFee{
		ID:              uuid.New(),
		UserID:          userID,
		StoreID:         store.ID,
		FeeDefinitionID: shipping.ID,
		Value:           decimal.RequireFromString("2000"),
		CreatedAt:       now.Add(time.Second),
	})
	require.NoError(t, err)

	loaded, err := repo.FindStore(ctx, userID, store.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	require.Len(t, loaded.Fees, 2)
	assert.Equal(t, commission.ID, loaded.Fees[0].FeeDefinitionID)
	require.NotNil(t, loaded.Fees[0].Definition)
	assert.Equal(t, enums.FeeCalcPercent, loaded.Fees[0].Definition.CalcKind)
	assert.True(t, loaded.Fees[0].Value.Equal(decimal.RequireFromString("0.05")))

	count, err := repo.CountStoresOnMarketplace(ctx, userID, marketplace.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	bindings, err := repo.CountFeeDefinitionBindings(ctx, userID, commission.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), bindings)

	foreign, err := repo.FindStore(ctx, uuid.New(), store.ID)
	require.NoError(t, err)
	assert.Nil(t, foreign, "stores must not leak across users")

	fee, err := repo.FindStoreFee(ctx, userID, store.ID, commission.ID)
	require.NoError(t, err)
	require.NotNil(t, fee)
	require.NoError(t, repo.DeleteStoreFee(ctx, userID, fee.ID))

	bindings, err = repo.CountFeeDefinitionBindings(ctx, userID, commission.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), bindings)
}

func TestRepositoryListStoresFiltersByMarketplace(t *testing.T) {
	db := setupMarketplacesTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	shopee := newMarketplace(t, db, userID, "Shopee")
	tokopedia := newMarketplace(t, db, userID, "Tokopedia")

	for _, m := range []*models.Marketplace{shopee, shopee, tokopedia} {
		_, err := repo.CreateStore(ctx, &models.Store{
			ID:            uuid.New(),
			UserID:        userID,
			MarketplaceID: m.ID,
			Name:          "Store on " + m.Name,
		})
		require.NoError(t, err)
	}

	all, err := repo.ListStores(ctx, userID, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	onShopee, err := repo.ListStores(ctx, userID, &shopee.ID)
	require.NoError(t, err)
	assert.Len(t, onShopee, 2)
}

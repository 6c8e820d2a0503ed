package catalog

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
	"github.com/margindesk/margindesk-backend/pkg/pagination"
)

func setupCatalogTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	materials := `
CREATE TABLE IF NOT EXISTS materials (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  total_price TEXT NOT NULL,
  unit_quantity TEXT NOT NULL,
  unit_price TEXT NOT NULL,
  unit_label TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	products := `
CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`
	bomLines := `
CREATE TABLE IF NOT EXISTS bom_lines (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  material_id TEXT NOT NULL,
  quantity TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (product_id, material_id)
);`
	extraCosts := `
CREATE TABLE IF NOT EXISTS extra_costs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  label TEXT NOT NULL,
  amount TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`
	require.NoError(t, db.Exec(materials).Error)
	require.NoError(t, db.Exec(products).Error)
	require.NoError(t, db.Exec(bomLines).Error)
	require.NoError(t, db.Exec(extraCosts).Error)
	return db
}

func newMaterial(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, createdAt time.Time) *models.Material {
	t.Helper()

	material := &models.Material{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		TotalPrice:   decimal.RequireFromString("450000"),
		UnitQuantity: decimal.RequireFromString("100"),
		UnitPrice:    decimal.RequireFromString("4500"),
		UnitLabel:    "meter",
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	require.NoError(t, db.Create(material).Error)
	return material
}

func newProduct(t *testing.T, db *gorm.DB, userID uuid.UUID, name string, createdAt time.Time) *models.Product {
	t.Helper()

	product := &models.Product{
		ID:        uuid.New(),
		UserID:    userID,
		Name:      name,
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
	}
	require.NoError(t, db.Create(product).Error)
	return product
}

func TestRepositoryMaterialFlow(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	otherUserID := uuid.New()

	created := newMaterial(t, db, userID, "Cotton fabric", time.Now().UTC())

	found, err := repo.FindMaterial(ctx, userID, created.ID)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Cotton fabric", found.Name)
	assert.True(t, found.UnitPrice.Equal(decimal.RequireFromString("4500")))

	foreign, err := repo.FindMaterial(ctx, otherUserID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, foreign, "materials must not leak across users")

	found.Name = "Cotton fabric 24s"
	_, err = repo.UpdateMaterial(ctx, found)
	require.NoError(t, err)

	reloaded, err := repo.FindMaterial(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cotton fabric 24s", reloaded.Name)

	require.NoError(t, repo.DeleteMaterial(ctx, userID, created.ID))
	gone, err := repo.FindMaterial(ctx, userID, created.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestRepositoryListMaterialsPaginates(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	oldest := newMaterial(t, db, userID, "Thread", base)
	middle := newMaterial(t, db, userID, "Buttons", base.Add(time.Minute))
	newest := newMaterial(t, db, userID, "Fabric", base.Add(2*time.Minute))
	_ = newMaterial(t, db, uuid.New(), "Someone else's", base.Add(3*time.Minute))

	firstPage, cursor, err := repo.ListMaterials(ctx, userID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	require.Len(t, firstPage, 2)
	assert.Equal(t, newest.ID, firstPage[0].ID)
	assert.Equal(t, middle.ID, firstPage[1].ID)
	require.NotEmpty(t, cursor)

	secondPage, cursor, err := repo.ListMaterials(ctx, userID, pagination.Params{Limit: 2, Cursor: cursor})
	require.NoError(t, err)
	require.Len(t, secondPage, 1)
	assert.Equal(t, oldest.ID, secondPage[0].ID)
	assert.Empty(t, cursor)
}

func TestRepositoryProductComposition(t *testing.T) {
	db := setupCatalogTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()

	userID := uuid.New()
	now := time.Now().UTC()

	product := newProduct(t, db, userID, "Basic tee", now)
	fabric := newMaterial(t, db, userID, "Fabric", now)
	thread := newMaterial(t, db, userID, "Thread", now)

	fabricLine := &models.BOMLine{
		ID:         uuid.New(),
		UserID:     userID,
		ProductID:  product.ID,
		MaterialID: fabric.ID,
		Quantity:   decimal.RequireFromString("1.5"),
		CreatedAt:  now,
	}
	_, err := repo.CreateBOMLine(ctx, fabricLine)
	require.NoError(t, err)

	threadLine := &models.BOMLine{
		ID:         uuid.New(),
		UserID:     userID,
		ProductID:  product.ID,
		MaterialID: thread.ID,
		Quantity:   decimal.RequireFromString("0.2"),
		CreatedAt:  now.Add(time.Second),
	}
	_, err = repo.CreateBOMLine(ctx, threadLine)
	require.NoError(t, err)

	// second row for the same product+material violates the unique index
	_, err = repo.CreateBOMLine(ctx, &models.BOMLine{
		ID:         uuid.New(),
		UserID:     userID,
		ProductID:  product.ID,
		MaterialID: fabric.ID,
		Quantity:   decimal.RequireFromString("2"),
		CreatedAt:  now,
	})
	require.Error(t, err)

	extra := &models.ExtraCost{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: product.ID,
		Label:     "packing",
		Amount:    decimal.RequireFromString("500"),
		CreatedAt: now,
	}
	_, err = repo.CreateExtraCost(ctx, extra)
	require.NoError(t, err)

	detail, err := repo.FindProduct(ctx, userID, product.ID)
	require.NoError(t, err)
	require.NotNil(t, detail)
	require.Len(t, detail.BOMLines, 2)
	assert.Equal(t, fabric.ID, detail.BOMLines[0].MaterialID)
	assert.Equal(t, thread.ID, detail.BOMLines[1].MaterialID)
	require.Len(t, detail.ExtraCosts, 1)
	assert.Equal(t, "packing", detail.ExtraCosts[0].Label)

	refs, err := repo.CountBOMReferences(ctx, userID, fabric.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), refs)

	byMaterial, err := repo.FindBOMLineByMaterial(ctx, userID, product.ID, thread.ID)
	require.NoError(t, err)
	require.NotNil(t, byMaterial)
	assert.Equal(t, threadLine.ID, byMaterial.ID)

	require.NoError(t, repo.DeleteBOMLine(ctx, userID, threadLine.ID))
	refs, err = repo.CountBOMReferences(ctx, userID, thread.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), refs)
}

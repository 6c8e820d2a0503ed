package ads

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
	"github.com/margindesk/margindesk-backend/pkg/pagination"
)

func setupAdsTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{})
	require.NoError(t, err)

	ddl := []string{
		`CREATE TABLE IF NOT EXISTS stores (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  marketplace_id TEXT NOT NULL,
  name TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS products (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  name TEXT NOT NULL,
  sku TEXT,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS ad_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  store_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  campaign TEXT,
  spend NUMERIC NOT NULL,
  gmv NUMERIC NOT NULL,
  orders INTEGER NOT NULL,
  total_sales NUMERIC,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range ddl {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type adsFixture struct {
	svc       Service
	userID    uuid.UUID
	storeID   uuid.UUID
	productID uuid.UUID
}

func buildAdsFixture(t *testing.T) adsFixture {
	t.Helper()

	db := setupAdsTestDB(t)
	svc, err := NewService(NewRepository(db))
	require.NoError(t, err)

	userID := uuid.New()
	store := &models.Store{ID: uuid.New(), UserID: userID, MarketplaceID: uuid.New(), Name: "Main store"}
	require.NoError(t, db.Create(store).Error)
	product := &models.Product{ID: uuid.New(), UserID: userID, Name: "Basic tee"}
	require.NoError(t, db.Create(product).Error)

	return adsFixture{svc: svc, userID: userID, storeID: store.ID, productID: product.ID}
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func TestServiceCreateRecordDerivesMetrics(t *testing.T) {
	f := buildAdsFixture(t)
	ctx := context.Background()

	totalSales := dec("200000")
	record, err := f.svc.CreateRecord(ctx, f.userID, RecordInput{
		StoreID:    f.storeID,
		ProductID:  f.productID,
		Spend:      dec("10000"),
		GMV:        dec("45000"),
		Orders:     3,
		TotalSales: &totalSales,
	})
	require.NoError(t, err)

	require.NotNil(t, record.ROAS)
	assert.True(t, record.ROAS.Equal(dec("4.5")))
	require.NotNil(t, record.AOV)
	assert.True(t, record.AOV.Equal(dec("15000")))
	require.NotNil(t, record.CPA)
	assert.True(t, record.CPA.Equal(dec("3333.33")))
	require.NotNil(t, record.TACoS)
	assert.True(t, record.TACoS.Equal(dec("0.05")))
}

func TestServiceMetricsUndefinedOnZeroDenominators(t *testing.T) {
	f := buildAdsFixture(t)
	ctx := context.Background()

	record, err := f.svc.CreateRecord(ctx, f.userID, RecordInput{
		StoreID:   f.storeID,
		ProductID: f.productID,
		Spend:     dec("0"),
		GMV:       dec("5000"),
		Orders:    0,
	})
	require.NoError(t, err)

	assert.Nil(t, record.ROAS, "zero spend leaves roas undefined")
	assert.Nil(t, record.AOV, "zero orders leaves aov undefined")
	assert.Nil(t, record.CPA, "zero orders leaves cpa undefined")
	assert.Nil(t, record.TACoS, "absent total_sales leaves tacos undefined")
}

func TestServiceRecordValidation(t *testing.T) {
	f := buildAdsFixture(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		input RecordInput
	}{
		{name: "negative spend", input: RecordInput{StoreID: f.storeID, ProductID: f.productID, Spend: dec("-1")}},
		{name: "negative gmv", input: RecordInput{StoreID: f.storeID, ProductID: f.productID, GMV: dec("-1")}},
		{name: "negative orders", input: RecordInput{StoreID: f.storeID, ProductID: f.productID, Orders: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.CreateRecord(ctx, f.userID, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}

	_, err := f.svc.CreateRecord(ctx, f.userID, RecordInput{
		StoreID:   uuid.New(),
		ProductID: f.productID,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeNotFound, typed.Code())
}

func TestServiceAggregateSums(t *testing.T) {
	f := buildAdsFixture(t)
	ctx := context.Background()

	sales1 := dec("100000")
	entries := []RecordInput{
		{StoreID: f.storeID, ProductID: f.productID, Spend: dec("10000"), GMV: dec("40000"), Orders: 2, TotalSales: &sales1},
		{StoreID: f.storeID, ProductID: f.productID, Spend: dec("5000"), GMV: dec("20000"), Orders: 1},
	}
	for _, input := range entries {
		_, err := f.svc.CreateRecord(ctx, f.userID, input)
		require.NoError(t, err)
	}

	agg, err := f.svc.Aggregate(ctx, f.userID, f.storeID, f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), agg.Records)
	assert.True(t, agg.Spend.Equal(dec("15000")))
	assert.True(t, agg.GMV.Equal(dec("60000")))
	assert.Equal(t, int64(3), agg.Orders)
	require.NotNil(t, agg.ROAS)
	assert.True(t, agg.ROAS.Equal(dec("4")))
	require.NotNil(t, agg.CPA)
	assert.True(t, agg.CPA.Equal(dec("5000")))
	require.NotNil(t, agg.TotalSales, "null total_sales rows are skipped by SUM")
	assert.True(t, agg.TotalSales.Equal(dec("100000")))
	require.NotNil(t, agg.TACoS)
	assert.True(t, agg.TACoS.Equal(dec("0.15")))
}

func TestServiceListRecordsPaginates(t *testing.T) {
	f := buildAdsFixture(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := f.svc.CreateRecord(ctx, f.userID, RecordInput{
			StoreID:   f.storeID,
			ProductID: f.productID,
			Spend:     dec("1000"),
			GMV:       dec("3000"),
			Orders:    1,
		})
		require.NoError(t, err)
	}

	page, err := f.svc.ListRecords(ctx, f.userID, f.storeID, f.productID, pagination.Params{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, page.Records, 2)
	require.NotEmpty(t, page.NextCursor)

	rest, err := f.svc.ListRecords(ctx, f.userID, f.storeID, f.productID, pagination.Params{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	assert.Len(t, rest.Records, 1)
	assert.Empty(t, rest.NextCursor)
}

func TestServiceImportCSV(t *testing.T) {
	f := buildAdsFixture(t)
	ctx := context.Background()

	csvBody := "product_id,campaign,spend,gmv,orders,total_sales\n" +
		f.productID.String() + ",Search ads,10000,45000,3,200000\n" +
		f.productID.String() + ",,5000,12000,1,\n"

	result, err := f.svc.ImportCSV(ctx, f.userID, f.storeID, ImportCSVInput{Reader: strings.NewReader(csvBody)})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)

	agg, err := f.svc.Aggregate(ctx, f.userID, f.storeID, f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), agg.Records)
	assert.True(t, agg.Spend.Equal(dec("15000")))
}

func TestServiceImportCSVRejectsBadRows(t *testing.T) {
	f := buildAdsFixture(t)
	ctx := context.Background()

	cases := []struct {
		name string
		body string
	}{
		{
			name: "wrong header",
			body: "product,campaign,spend,gmv,orders,total_sales\n",
		},
		{
			name: "negative spend",
			body: "product_id,campaign,spend,gmv,orders,total_sales\n" +
				f.productID.String() + ",,-5,100,1,\n",
		},
		{
			name: "unknown product",
			body: "product_id,campaign,spend,gmv,orders,total_sales\n" +
				uuid.NewString() + ",,5,100,1,\n",
		},
		{
			name: "bad orders",
			body: "product_id,campaign,spend,gmv,orders,total_sales\n" +
				f.productID.String() + ",,5,100,one,\n",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.ImportCSV(ctx, f.userID, f.storeID, ImportCSVInput{Reader: strings.NewReader(tc.body)})
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}

	// a failed upload inserts nothing
	mixed := "product_id,campaign,spend,gmv,orders,total_sales\n" +
		f.productID.String() + ",,5000,12000,1,\n" +
		f.productID.String() + ",,bad,12000,1,\n"
	_, err := f.svc.ImportCSV(ctx, f.userID, f.storeID, ImportCSVInput{Reader: strings.NewReader(mixed)})
	require.Error(t, err)

	agg, err := f.svc.Aggregate(ctx, f.userID, f.storeID, f.productID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), agg.Records)
}

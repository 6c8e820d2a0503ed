package marketplaces

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/margindesk/margindesk-backend/pkg/enums"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

func buildMarketplacesService(t *testing.T) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupMarketplacesTestDB(t)))
	require.NoError(t, err)
	return svc
}

func TestServiceStoreFeeLifecycle(t *testing.T) {
	svc := buildMarketplacesService(t)
	ctx := context.Background()
	userID := uuid.New()

	marketplace, err := svc.CreateMarketplace(ctx, userID, "Shopee")
	require.NoError(t, err)

	commission, err := svc.CreateFeeDefinition(ctx, userID, FeeDefinitionInput{
		Name:       "Commission",
		CalcKind:   enums.FeeCalcPercent,
		ApplyPoint: enums.FeeApplyOnDiscountedPrice,
	})
	require.NoError(t, err)

	store, err := svc.CreateStore(ctx, userID, CreateStoreInput{
		MarketplaceID: marketplace.ID,
		Name:          "Main store",
	})
	require.NoError(t, err)
	assert.Empty(t, store.Fees)

	// a percent fee takes a rate, not a percentage
	_, err = svc.SetStoreFee(ctx, userID, store.ID, StoreFeeInput{
		FeeDefinitionID: commission.ID,
		Value:           decimal.RequireFromString("5"),
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	withFee, err := svc.SetStoreFee(ctx, userID, store.ID, StoreFeeInput{
		FeeDefinitionID: commission.ID,
		Value:           decimal.RequireFromString("0.05"),
	})
	require.NoError(t, err)
	require.Len(t, withFee.Fees, 1)
	assert.Equal(t, "Commission", withFee.Fees[0].Name)
	assert.True(t, withFee.Fees[0].Value.Equal(decimal.RequireFromString("0.05")))

	// setting the same definition again updates the value in place
	updated, err := svc.SetStoreFee(ctx, userID, store.ID, StoreFeeInput{
		FeeDefinitionID: commission.ID,
		Value:           decimal.RequireFromString("0.08"),
	})
	require.NoError(t, err)
	require.Len(t, updated.Fees, 1)
	assert.True(t, updated.Fees[0].Value.Equal(decimal.RequireFromString("0.08")))

	err = svc.DeleteFeeDefinition(ctx, userID, commission.ID)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code(), "bound definition must not be deletable")

	cleared, err := svc.RemoveStoreFee(ctx, userID, store.ID, commission.ID)
	require.NoError(t, err)
	assert.Empty(t, cleared.Fees)
	require.NoError(t, svc.DeleteFeeDefinition(ctx, userID, commission.ID))
}

func TestServiceDeleteMarketplaceWithStores(t *testing.T) {
	svc := buildMarketplacesService(t)
	ctx := context.Background()
	userID := uuid.New()

	marketplace, err := svc.CreateMarketplace(ctx, userID, "Tokopedia")
	require.NoError(t, err)

	store, err := svc.CreateStore(ctx, userID, CreateStoreInput{
		MarketplaceID: marketplace.ID,
		Name:          "Outlet",
	})
	require.NoError(t, err)

	err = svc.DeleteMarketplace(ctx, userID, marketplace.ID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeConflict, typed.Code())

	require.NoError(t, svc.DeleteStore(ctx, userID, store.ID))
	require.NoError(t, svc.DeleteMarketplace(ctx, userID, marketplace.ID))
}

func TestServiceFeeDefinitionValidation(t *testing.T) {
	svc := buildMarketplacesService(t)
	ctx := context.Background()
	userID := uuid.New()

	cases := []struct {
		name  string
		input FeeDefinitionInput
	}{
		{name: "empty name", input: FeeDefinitionInput{CalcKind: enums.FeeCalcPercent, ApplyPoint: enums.FeeApplyOnPrice}},
		{name: "bad calc kind", input: FeeDefinitionInput{Name: "Fee", CalcKind: "tiered", ApplyPoint: enums.FeeApplyOnPrice}},
		{name: "bad apply point", input: FeeDefinitionInput{Name: "Fee", CalcKind: enums.FeeCalcFixed, ApplyPoint: "on_profit"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateFeeDefinition(ctx, userID, tc.input)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
		})
	}
}

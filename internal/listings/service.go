package listings

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	"github.com/margindesk/margindesk-backend/pkg/enums"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

// Service exposes listing, discount, and fee override operations.
type Service interface {
	CreateListing(ctx context.Context, userID uuid.UUID, input CreateListingInput) (*ListingDTO, error)
	UpdateListingPrice(ctx context.Context, userID, listingID uuid.UUID, listPrice decimal.Decimal) (*ListingDTO, error)
	DeleteListing(ctx context.Context, userID, listingID uuid.UUID) error
	GetListing(ctx context.Context, userID, listingID uuid.UUID) (*ListingDTO, error)
	ListByStore(ctx context.Context, userID, storeID uuid.UUID) ([]ListingDTO, error)

	AddDiscount(ctx context.Context, userID, listingID uuid.UUID, input DiscountInput) (*ListingDTO, error)
	UpdateDiscount(ctx context.Context, userID, listingID, discountID uuid.UUID, input DiscountInput) (*ListingDTO, error)
	RemoveDiscount(ctx context.Context, userID, listingID, discountID uuid.UUID) (*ListingDTO, error)

	SetListingFee(ctx context.Context, userID, listingID uuid.UUID, input ListingFeeInput) (*ListingDTO, error)
	RemoveListingFee(ctx context.Context, userID, listingID, definitionID uuid.UUID) (*ListingDTO, error)
}

// CreateListingInput is the validated payload to list a product in a store.
type CreateListingInput struct {
	StoreID   uuid.UUID
	ProductID uuid.UUID
	ListPrice decimal.Decimal
}

// DiscountInput is a discount payload: a rate in [0,1] for percent, a
// currency amount for fixed.
type DiscountInput struct {
	Kind  enums.DiscountKind
	Value decimal.Decimal
}

// ListingFeeInput overrides a store fee value for one listing.
type ListingFeeInput struct {
	FeeDefinitionID uuid.UUID
	Value           decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs a listings service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("listings repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateListing(ctx context.Context, userID uuid.UUID, input CreateListingInput) (*ListingDTO, error) {
	if input.ListPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list_price must be non-negative")
	}

	store, err := s.repo.FindStore(ctx, userID, input.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	product, err := s.repo.FindProduct(ctx, userID, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	existing, err := s.repo.FindListingByStoreProduct(ctx, userID, input.StoreID, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check listing")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product already listed in this store")
	}

	listing := &models.StoreListing{
		ID:        uuid.New(),
		UserID:    userID,
		StoreID:   input.StoreID,
		ProductID: input.ProductID,
		ListPrice: input.ListPrice,
	}
	if _, err := s.repo.CreateListing(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert listing")
	}
	return s.listingDetail(ctx, userID, listing.ID)
}

func (s *service) UpdateListingPrice(ctx context.Context, userID, listingID uuid.UUID, listPrice decimal.Decimal) (*ListingDTO, error) {
	if listPrice.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "list_price must be non-negative")
	}
	listing, err := s.loadListing(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	listing.ListPrice = listPrice
	if _, err := s.repo.UpdateListing(ctx, listing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update listing")
	}
	return s.listingDetail(ctx, userID, listingID)
}

func (s *service) DeleteListing(ctx context.Context, userID, listingID uuid.UUID) error {
	if _, err := s.loadListing(ctx, userID, listingID); err != nil {
		return err
	}
	if err := s.repo.DeleteListing(ctx, userID, listingID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete listing")
	}
	return nil
}

func (s *service) GetListing(ctx context.Context, userID, listingID uuid.UUID) (*ListingDTO, error) {
	return s.listingDetail(ctx, userID, listingID)
}

func (s *service) ListByStore(ctx context.Context, userID, storeID uuid.UUID) ([]ListingDTO, error) {
	store, err := s.repo.FindStore(ctx, userID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	rows, err := s.repo.ListListingsByStore(ctx, userID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list listings")
	}
	result := make([]ListingDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *NewListingDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) AddDiscount(ctx context.Context, userID, listingID uuid.UUID, input DiscountInput) (*ListingDTO, error) {
	if err := validateDiscount(input); err != nil {
		return nil, err
	}
	if _, err := s.loadListing(ctx, userID, listingID); err != nil {
		return nil, err
	}
	discount := &models.Discount{
		ID:        uuid.New(),
		UserID:    userID,
		ListingID: listingID,
		Kind:      input.Kind,
		Value:     input.Value,
	}
	if _, err := s.repo.CreateDiscount(ctx, discount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert discount")
	}
	return s.listingDetail(ctx, userID, listingID)
}

func (s *service) UpdateDiscount(ctx context.Context, userID, listingID, discountID uuid.UUID, input DiscountInput) (*ListingDTO, error) {
	if err := validateDiscount(input); err != nil {
		return nil, err
	}
	discount, err := s.loadDiscount(ctx, userID, listingID, discountID)
	if err != nil {
		return nil, err
	}
	discount.Kind = input.Kind
	discount.Value = input.Value
	if _, err := s.repo.UpdateDiscount(ctx, discount); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update discount")
	}
	return s.listingDetail(ctx, userID, listingID)
}

func (s *service) RemoveDiscount(ctx context.Context, userID, listingID, discountID uuid.UUID) (*ListingDTO, error) {
	if _, err := s.loadDiscount(ctx, userID, listingID, discountID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteDiscount(ctx, userID, discountID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete discount")
	}
	return s.listingDetail(ctx, userID, listingID)
}

func (s *service) SetListingFee(ctx context.Context, userID, listingID uuid.UUID, input ListingFeeInput) (*ListingDTO, error) {
	if _, err := s.loadListing(ctx, userID, listingID); err != nil {
		return nil, err
	}
	definition, err := s.repo.FindFeeDefinition(ctx, userID, input.FeeDefinitionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load fee definition")
	}
	if definition == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fee definition not found")
	}
	if input.Value.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "value must be non-negative")
	}
	if definition.CalcKind == enums.FeeCalcPercent && input.Value.GreaterThan(decimal.NewFromInt(1)) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "percent fee value must be a rate between 0 and 1")
	}

	fee, err := s.repo.FindListingFee(ctx, userID, listingID, input.FeeDefinitionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing fee")
	}
	if fee == nil {
		fee = &models.ListingFee{
			ID:              uuid.New(),
			UserID:          userID,
			ListingID:       listingID,
			FeeDefinitionID: input.FeeDefinitionID,
		}
	}
	fee.Value = input.Value
	if _, err := s.repo.SaveListingFee(ctx, fee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save listing fee")
	}
	return s.listingDetail(ctx, userID, listingID)
}

func (s *service) RemoveListingFee(ctx context.Context, userID, listingID, definitionID uuid.UUID) (*ListingDTO, error) {
	if _, err := s.loadListing(ctx, userID, listingID); err != nil {
		return nil, err
	}
	fee, err := s.repo.FindListingFee(ctx, userID, listingID, definitionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing fee")
	}
	if fee == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing fee not found")
	}
	if err := s.repo.DeleteListingFee(ctx, userID, fee.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete listing fee")
	}
	return s.listingDetail(ctx, userID, listingID)
}

func (s *service) listingDetail(ctx context.Context, userID, listingID uuid.UUID) (*ListingDTO, error) {
	listing, err := s.loadListing(ctx, userID, listingID)
	if err != nil {
		return nil, err
	}
	return NewListingDTO(listing), nil
}

func (s *service) loadListing(ctx context.Context, userID, listingID uuid.UUID) (*models.StoreListing, error) {
	listing, err := s.repo.FindListing(ctx, userID, listingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing")
	}
	if listing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	return listing, nil
}

func (s *service) loadDiscount(ctx context.Context, userID, listingID, discountID uuid.UUID) (*models.Discount, error) {
	discount, err := s.repo.FindDiscount(ctx, userID, discountID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load discount")
	}
	if discount == nil || discount.ListingID != listingID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "discount not found")
	}
	return discount, nil
}

// validateDiscount enforces the value domain per kind: percent discounts are
// a rate in [0,1], fixed discounts a non-negative currency amount.
func validateDiscount(input DiscountInput) error {
	if !input.Kind.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid discount kind")
	}
	if input.Value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "value must be non-negative")
	}
	if input.Kind == enums.DiscountPercent && input.Value.GreaterThan(decimal.NewFromInt(1)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percent discount value must be a rate between 0 and 1")
	}
	return nil
}

package marketplaces

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	"github.com/margindesk/margindesk-backend/pkg/enums"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

// Service exposes marketplace, fee definition, and store operations.
type Service interface {
	CreateMarketplace(ctx context.Context, userID uuid.UUID, name string) (*MarketplaceDTO, error)
	RenameMarketplace(ctx context.Context, userID, marketplaceID uuid.UUID, name string) (*MarketplaceDTO, error)
	DeleteMarketplace(ctx context.Context, userID, marketplaceID uuid.UUID) error
	ListMarketplaces(ctx context.Context, userID uuid.UUID) ([]MarketplaceDTO, error)

	CreateFeeDefinition(ctx context.Context, userID uuid.UUID, input FeeDefinitionInput) (*FeeDefinitionDTO, error)
	UpdateFeeDefinition(ctx context.Context, userID, definitionID uuid.UUID, input FeeDefinitionInput) (*FeeDefinitionDTO, error)
	DeleteFeeDefinition(ctx context.Context, userID, definitionID uuid.UUID) error
	ListFeeDefinitions(ctx context.Context, userID uuid.UUID) ([]FeeDefinitionDTO, error)

	CreateStore(ctx context.Context, userID uuid.UUID, input CreateStoreInput) (*StoreDTO, error)
	UpdateStore(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error)
	DeleteStore(ctx context.Context, userID, storeID uuid.UUID) error
	GetStore(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error)
	ListStores(ctx context.Context, userID uuid.UUID, marketplaceID *uuid.UUID) ([]StoreDTO, error)

	SetStoreFee(ctx context.Context, userID, storeID uuid.UUID, input StoreFeeInput) (*StoreDTO, error)
	RemoveStoreFee(ctx context.Context, userID, storeID, definitionID uuid.UUID) (*StoreDTO, error)
}

// FeeDefinitionInput is the validated fee rule payload.
type FeeDefinitionInput struct {
	Name       string
	CalcKind   enums.FeeCalcKind
	ApplyPoint enums.FeeApplyPoint
}

// CreateStoreInput is the validated payload to create a store.
type CreateStoreInput struct {
	MarketplaceID uuid.UUID
	Name          string
}

// UpdateStoreInput holds optional mutation values for a store.
type UpdateStoreInput struct {
	Name *string
}

// StoreFeeInput binds a fee definition to a store with a concrete value.
type StoreFeeInput struct {
	FeeDefinitionID uuid.UUID
	Value           decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs a marketplaces service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("marketplaces repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateMarketplace(ctx context.Context, userID uuid.UUID, name string) (*MarketplaceDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	marketplace := &models.Marketplace{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
	}
	created, err := s.repo.CreateMarketplace(ctx, marketplace)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert marketplace")
	}
	return NewMarketplaceDTO(created), nil
}

func (s *service) RenameMarketplace(ctx context.Context, userID, marketplaceID uuid.UUID, name string) (*MarketplaceDTO, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	marketplace, err := s.loadMarketplace(ctx, userID, marketplaceID)
	if err != nil {
		return nil, err
	}
	marketplace.Name = name
	updated, err := s.repo.UpdateMarketplace(ctx, marketplace)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update marketplace")
	}
	return NewMarketplaceDTO(updated), nil
}

func (s *service) DeleteMarketplace(ctx context.Context, userID, marketplaceID uuid.UUID) error {
	if _, err := s.loadMarketplace(ctx, userID, marketplaceID); err != nil {
		return err
	}
	stores, err := s.repo.CountStoresOnMarketplace(ctx, userID, marketplaceID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count stores")
	}
	if stores > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "marketplace still has stores")
	}
	if err := s.repo.DeleteMarketplace(ctx, userID, marketplaceID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete marketplace")
	}
	return nil
}

func (s *service) ListMarketplaces(ctx context.Context, userID uuid.UUID) ([]MarketplaceDTO, error) {
	rows, err := s.repo.ListMarketplaces(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list marketplaces")
	}
	result := make([]MarketplaceDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *NewMarketplaceDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) CreateFeeDefinition(ctx context.Context, userID uuid.UUID, input FeeDefinitionInput) (*FeeDefinitionDTO, error) {
	name, err := validateFeeDefinition(input)
	if err != nil {
		return nil, err
	}
	definition := &models.FeeDefinition{
		ID:         uuid.New(),
		UserID:     userID,
		Name:       name,
		CalcKind:   input.CalcKind,
		ApplyPoint: input.ApplyPoint,
	}
	created, err := s.repo.CreateFeeDefinition(ctx, definition)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert fee definition")
	}
	return NewFeeDefinitionDTO(created), nil
}

func (s *service) UpdateFeeDefinition(ctx context.Context, userID, definitionID uuid.UUID, input FeeDefinitionInput) (*FeeDefinitionDTO, error) {
	name, err := validateFeeDefinition(input)
	if err != nil {
		return nil, err
	}
	definition, err := s.loadFeeDefinition(ctx, userID, definitionID)
	if err != nil {
		return nil, err
	}
	definition.Name = name
	definition.CalcKind = input.CalcKind
	definition.ApplyPoint = input.ApplyPoint
	updated, err := s.repo.UpdateFeeDefinition(ctx, definition)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update fee definition")
	}
	return NewFeeDefinitionDTO(updated), nil
}

func (s *service) DeleteFeeDefinition(ctx context.Context, userID, definitionID uuid.UUID) error {
	if _, err := s.loadFeeDefinition(ctx, userID, definitionID); err != nil {
		return err
	}
	bindings, err := s.repo.CountFeeDefinitionBindings(ctx, userID, definitionID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count fee bindings")
	}
	if bindings > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "fee definition is bound to a store or listing")
	}
	if err := s.repo.DeleteFeeDefinition(ctx, userID, definitionID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete fee definition")
	}
	return nil
}

func (s *service) ListFeeDefinitions(ctx context.Context, userID uuid.UUID) ([]FeeDefinitionDTO, error) {
	rows, err := s.repo.ListFeeDefinitions(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list fee definitions")
	}
	result := make([]FeeDefinitionDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *NewFeeDefinitionDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) CreateStore(ctx context.Context, userID uuid.UUID, input CreateStoreInput) (*StoreDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if _, err := s.loadMarketplace(ctx, userID, input.MarketplaceID); err != nil {
		return nil, err
	}
	store := &models.Store{
		ID:            uuid.New(),
		UserID:        userID,
		MarketplaceID: input.MarketplaceID,
		Name:          name,
	}
	created, err := s.repo.CreateStore(ctx, store)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert store")
	}
	return s.storeDetail(ctx, userID, created.ID)
}

func (s *service) UpdateStore(ctx context.Context, userID, storeID uuid.UUID, input UpdateStoreInput) (*StoreDTO, error) {
	store, err := s.loadStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		store.Name = name
	}
	if _, err := s.repo.UpdateStore(ctx, store); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update store")
	}
	return s.storeDetail(ctx, userID, storeID)
}

func (s *service) DeleteStore(ctx context.Context, userID, storeID uuid.UUID) error {
	if _, err := s.loadStore(ctx, userID, storeID); err != nil {
		return err
	}
	if err := s.repo.DeleteStore(ctx, userID, storeID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete store")
	}
	return nil
}

func (s *service) GetStore(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error) {
	return s.storeDetail(ctx, userID, storeID)
}

func (s *service) ListStores(ctx context.Context, userID uuid.UUID, marketplaceID *uuid.UUID) ([]StoreDTO, error) {
	rows, err := s.repo.ListStores(ctx, userID, marketplaceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stores")
	}
	result := make([]StoreDTO, 0, len(rows))
	for i := range rows {
		result = append(result, *NewStoreDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) SetStoreFee(ctx context.Context, userID, storeID uuid.UUID, input StoreFeeInput) (*StoreDTO, error) {
	if _, err := s.loadStore(ctx, userID, storeID); err != nil {
		return nil, err
	}
	definition, err := s.loadFeeDefinition(ctx, userID, input.FeeDefinitionID)
	if err != nil {
		return nil, err
	}
	if err := validateFeeValue(definition.CalcKind, input.Value); err != nil {
		return nil, err
	}

	fee, err := s.repo.FindStoreFee(ctx, userID, storeID, input.FeeDefinitionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store fee")
	}
	if fee == nil {
		fee = &models.StoreFee{
			ID:              uuid.New(),
			UserID:          userID,
			StoreID:         storeID,
			FeeDefinitionID: input.FeeDefinitionID,
		}
	}
	fee.Value = input.Value
	if _, err := s.repo.SaveStoreFee(ctx, fee); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save store fee")
	}
	return s.storeDetail(ctx, userID, storeID)
}

func (s *service) RemoveStoreFee(ctx context.Context, userID, storeID, definitionID uuid.UUID) (*StoreDTO, error) {
	if _, err := s.loadStore(ctx, userID, storeID); err != nil {
		return nil, err
	}
	fee, err := s.repo.FindStoreFee(ctx, userID, storeID, definitionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store fee")
	}
	if fee == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store fee not found")
	}
	if err := s.repo.DeleteStoreFee(ctx, userID, fee.ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete store fee")
	}
	return s.storeDetail(ctx, userID, storeID)
}

func (s *service) storeDetail(ctx context.Context, userID, storeID uuid.UUID) (*StoreDTO, error) {
	store, err := s.loadStore(ctx, userID, storeID)
	if err != nil {
		return nil, err
	}
	return NewStoreDTO(store), nil
}

func (s *service) loadMarketplace(ctx context.Context, userID, marketplaceID uuid.UUID) (*models.Marketplace, error) {
	marketplace, err := s.repo.FindMarketplace(ctx, userID, marketplaceID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load marketplace")
	}
	if marketplace == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "marketplace not found")
	}
	return marketplace, nil
}

func (s *service) loadFeeDefinition(ctx context.Context, userID, definitionID uuid.UUID) (*models.FeeDefinition, error) {
	definition, err := s.repo.FindFeeDefinition(ctx, userID, definitionID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load fee definition")
	}
	if definition == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "fee definition not found")
	}
	return definition, nil
}

func (s *service) loadStore(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error) {
	store, err := s.repo.FindStore(ctx, userID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	return store, nil
}

func validateFeeDefinition(input FeeDefinitionInput) (string, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if !input.CalcKind.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid calc_kind")
	}
	if !input.ApplyPoint.IsValid() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "invalid apply_point")
	}
	return name, nil
}

// validateFeeValue enforces the value domain per calc kind: percent fees are
// a rate in [0,1], fixed fees a non-negative currency amount.
func validateFeeValue(kind enums.FeeCalcKind, value decimal.Decimal) error {
	if value.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "value must be non-negative")
	}
	if kind == enums.FeeCalcPercent && value.GreaterThan(decimal.NewFromInt(1)) {
		return pkgerrors.New(pkgerrors.CodeValidation, "percent fee value must be a rate between 0 and 1")
	}
	return nil
}

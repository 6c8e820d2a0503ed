package marketplaces

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
)

// Repository wires together marketplace, fee definition, and store persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// CreateMarketplace inserts a new marketplace row.
func (r *Repository) CreateMarketplace(ctx context.Context, marketplace *models.Marketplace) (*models.Marketplace, error) {
	if err := r.db.WithContext(ctx).Create(marketplace).Error; err != nil {
		return nil, err
	}
	return marketplace, nil
}

// UpdateMarketplace saves the full marketplace row.
func (r *Repository) UpdateMarketplace(ctx context.Context, marketplace *models.Marketplace) (*models.Marketplace, error) {
	if err := r.db.WithContext(ctx).Save(marketplace).Error; err != nil {
		return nil, err
	}
	return marketplace, nil
}

// DeleteMarketplace removes the user's marketplace by ID.
func (r *Repository) DeleteMarketplace(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Marketplace{}).Error
}

// FindMarketplace loads a marketplace owned by the user, or nil when absent.
func (r *Repository) FindMarketplace(ctx context.Context, userID, id uuid.UUID) (*models.Marketplace, error) {
	var marketplace models.Marketplace
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&marketplace).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &marketplace, nil
}

// ListMarketplaces returns all the user's marketplaces, newest first.
func (r *Repository) ListMarketplaces(ctx context.Context, userID uuid.UUID) ([]models.Marketplace, error) {
	var rows []models.Marketplace
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CountStoresOnMarketplace counts the user's stores attached to a marketplace.
func (r *Repository) CountStoresOnMarketplace(ctx context.Context, userID, marketplaceID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Store{}).
		Where("marketplace_id = ? AND user_id = ?", marketplaceID, userID).
		Count(&count).Error
	return count, err
}

// CreateFeeDefinition inserts a new fee rule row.
func (r *Repository) CreateFeeDefinition(ctx context.Context, definition *models.FeeDefinition) (*models.FeeDefinition, error) {
	if err := r.db.WithContext(ctx).Create(definition).Error; err != nil {
		return nil, err
	}
	return definition, nil
}

// UpdateFeeDefinition saves the full fee rule row.
func (r *Repository) UpdateFeeDefinition(ctx context.Context, definition *models.FeeDefinition) (*models.FeeDefinition, error) {
	if err := r.db.WithContext(ctx).Save(definition).Error; err != nil {
		return nil, err
	}
	return definition, nil
}

// DeleteFeeDefinition removes the user's fee rule by ID.
func (r *Repository) DeleteFeeDefinition(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.FeeDefinition{}).Error
}

// FindFeeDefinition loads a fee rule owned by the user, or nil when absent.
func (r *Repository) FindFeeDefinition(ctx context.Context, userID, id uuid.UUID) (*models.FeeDefinition, error) {
	var definition models.FeeDefinition
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&definition).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &definition, nil
}

// ListFeeDefinitions returns all the user's fee rules, newest first.
func (r *Repository) ListFeeDefinitions(ctx context.Context, userID uuid.UUID) ([]models.FeeDefinition, error) {
	var rows []models.FeeDefinition
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// CountFeeDefinitionBindings counts store and listing fee rows bound to the rule.
func (r *Repository) CountFeeDefinitionBindings(ctx context.Context, userID, definitionID uuid.UUID) (int64, error) {
	var storeCount int64
	err := r.db.WithContext(ctx).
		Model(&models.StoreFee{}).
		Where("fee_definition_id = ? AND user_id = ?", definitionID, userID).
		Count(&storeCount).Error
	if err != nil {
		return 0, err
	}
	var listingCount int64
	err = r.db.WithContext(ctx).
		Model(&models.ListingFee{}).
		Where("fee_definition_id = ? AND user_id = ?", definitionID, userID).
		Count(&listingCount).Error
	if err != nil {
		return 0, err
	}
	return storeCount + listingCount, nil
}

// CreateStore inserts a new store row.
func (r *Repository) CreateStore(ctx context.Context, store *models.Store) (*models.Store, error) {
	if err := r.db.WithContext(ctx).Create(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// UpdateStore saves the store row without touching fee associations.
func (r *Repository) UpdateStore(ctx context.Context, store *models.Store) (*models.Store, error) {
	if err := r.db.WithContext(ctx).Omit("Fees").Save(store).Error; err != nil {
		return nil, err
	}
	return store, nil
}

// DeleteStore removes the user's store; FK cascades clear its fee rows.
func (r *Repository) DeleteStore(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Store{}).Error
}

// FindStore loads the store with its fee rows and definitions, or nil.
func (r *Repository) FindStore(ctx context.Context, userID, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Preload("Fees", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Fees.Definition").
		Where("id = ? AND user_id = ?", id, userID).
		First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// ListStores returns the user's stores, optionally filtered by marketplace.
func (r *Repository) ListStores(ctx context.Context, userID uuid.UUID, marketplaceID *uuid.UUID) ([]models.Store, error) {
	qb := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if marketplaceID != nil {
		qb = qb.Where("marketplace_id = ?", *marketplaceID)
	}
	var rows []models.Store
	err := qb.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

// FindStoreFee returns the store's row for a fee definition, or nil.
func (r *Repository) FindStoreFee(ctx context.Context, userID, storeID, definitionID uuid.UUID) (*models.StoreFee, error) {
	var fee models.StoreFee
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND fee_definition_id = ? AND user_id = ?", storeID, definitionID, userID).
		First(&fee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

// SaveStoreFee inserts or updates the store fee row.
func (r *Repository) SaveStoreFee(ctx context.Context, fee *models.StoreFee) (*models.StoreFee, error) {
	if err := r.db.WithContext(ctx).Save(fee).Error; err != nil {
		return nil, err
	}
	return fee, nil
}

// DeleteStoreFee removes the user's store fee row by ID.
func (r *Repository) DeleteStoreFee(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.StoreFee{}).Error
}

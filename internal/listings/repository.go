package listings

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
)

// Repository persists listings with their discounts and fee overrides.
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

// CreateListing inserts a new listing row.
func (r *Repository) CreateListing(ctx context.Context, listing *models.StoreListing) (*models.StoreListing, error) {
	if err := r.db.WithContext(ctx).Create(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// UpdateListing saves the listing row without touching associations.
func (r *Repository) UpdateListing(ctx context.Context, listing *models.StoreListing) (*models.StoreListing, error) {
	if err := r.db.WithContext(ctx).Omit("Discounts", "Fees").Save(listing).Error; err != nil {
		return nil, err
	}
	return listing, nil
}

// DeleteListing removes the user's listing; FK cascades clear composition rows.
func (r *Repository) DeleteListing(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.StoreListing{}).Error
}

// FindListing loads the listing with discounts and fee overrides, or nil.
func (r *Repository) FindListing(ctx context.Context, userID, id uuid.UUID) (*models.StoreListing, error) {
	var listing models.StoreListing
	err := r.listingQuery(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// FindListingByStoreProduct loads the listing for a store+product pair, or nil.
func (r *Repository) FindListingByStoreProduct(ctx context.Context, userID, storeID, productID uuid.UUID) (*models.StoreListing, error) {
	var listing models.StoreListing
	err := r.listingQuery(ctx).
		Where("store_id = ? AND product_id = ? AND user_id = ?", storeID, productID, userID).
		First(&listing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &listing, nil
}

// ListListingsByStore returns the store's listings, newest first.
func (r *Repository) ListListingsByStore(ctx context.Context, userID, storeID uuid.UUID) ([]models.StoreListing, error) {
	var rows []models.StoreListing
	err := r.listingQuery(ctx).
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

// FindStore loads a store owned by the user, or nil when absent.
func (r *Repository) FindStore(ctx context.Context, userID, id uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
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

// FindProduct loads a product owned by the user, or nil when absent.
func (r *Repository) FindProduct(ctx context.Context, userID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
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

// CreateDiscount inserts a discount row.
func (r *Repository) CreateDiscount(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if err := r.db.WithContext(ctx).Create(discount).Error; err != nil {
		return nil, err
	}
	return discount, nil
}

// UpdateDiscount saves the full discount row.
func (r *Repository) UpdateDiscount(ctx context.Context, discount *models.Discount) (*models.Discount, error) {
	if err := r.db.WithContext(ctx).Save(discount).Error; err != nil {
		return nil, err
	}
	return discount, nil
}

// DeleteDiscount removes the user's discount by ID.
func (r *Repository) DeleteDiscount(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Discount{}).Error
}

// FindDiscount loads a discount owned by the user, or nil when absent.
func (r *Repository) FindDiscount(ctx context.Context, userID, id uuid.UUID) (*models.Discount, error) {
	var discount models.Discount
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&discount).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &discount, nil
}

// FindListingFee returns the listing's override for a fee definition, or nil.
func (r *Repository) FindListingFee(ctx context.Context, userID, listingID, definitionID uuid.UUID) (*models.ListingFee, error) {
	var fee models.ListingFee
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND fee_definition_id = ? AND user_id = ?", listingID, definitionID, userID).
		First(&fee).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &fee, nil
}

// SaveListingFee inserts or updates the listing fee override.
func (r *Repository) SaveListingFee(ctx context.Context, fee *models.ListingFee) (*models.ListingFee, error) {
	if err := r.db.WithContext(ctx).Save(fee).Error; err != nil {
		return nil, err
	}
	return fee, nil
}

// DeleteListingFee removes the user's listing fee override by ID.
func (r *Repository) DeleteListingFee(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ListingFee{}).Error
}

func (r *Repository) listingQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Fees", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("Fees.Definition")
}

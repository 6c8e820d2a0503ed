package pricing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
)

// Repository loads listings, discounts, and fee values for pricing runs.
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

// FindStore loads a store owned by the user, or nil when absent.
func (r *Repository) FindStore(ctx context.Context, userID, storeID uuid.UUID) (*models.Store, error) {
	var store models.Store
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", storeID, userID).
		First(&store).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &store, nil
}

// FindListing loads a listing owned by the user, or nil when absent.
func (r *Repository) FindListing(ctx context.Context, userID, listingID uuid.UUID) (*models.StoreListing, error) {
	var listing models.StoreListing
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", listingID, userID).
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
	err := r.db.WithContext(ctx).
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

// ListDiscounts returns the listing's discounts in insertion order.
func (r *Repository) ListDiscounts(ctx context.Context, userID, listingID uuid.UUID) ([]models.Discount, error) {
	var discounts []models.Discount
	err := r.db.WithContext(ctx).
		Where("listing_id = ? AND user_id = ?", listingID, userID).
		Order("created_at ASC").
		Find(&discounts).Error
	if err != nil {
		return nil, err
	}
	return discounts, nil
}

// ListStoreFees returns the store's fee values with their definitions.
func (r *Repository) ListStoreFees(ctx context.Context, userID, storeID uuid.UUID) ([]models.StoreFee, error) {
	var fees []models.StoreFee
	err := r.db.WithContext(ctx).
		Preload("Definition").
		Where("store_id = ? AND user_id = ?", storeID, userID).
		Order("created_at ASC").
		Find(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

// ListListingFees returns the listing's fee overrides with their definitions.
func (r *Repository) ListListingFees(ctx context.Context, userID, listingID uuid.UUID) ([]models.ListingFee, error) {
	var fees []models.ListingFee
	err := r.db.WithContext(ctx).
		Preload("Definition").
		Where("listing_id = ? AND user_id = ?", listingID, userID).
		Order("created_at ASC").
		Find(&fees).Error
	if err != nil {
		return nil, err
	}
	return fees, nil
}

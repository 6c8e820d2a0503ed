package costing

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
)

// Repository loads the records a cost rollup needs.
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

// FindProduct loads a product owned by the user, or nil when absent.
func (r *Repository) FindProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", productID, userID).
		First(&product).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &product, nil
}

// ListBOMLines returns the product's BOM lines in insertion order.
func (r *Repository) ListBOMLines(ctx context.Context, userID, productID uuid.UUID) ([]models.BOMLine, error) {
	var lines []models.BOMLine
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Order("created_at ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// MaterialsByIDs resolves the user's materials for the given ids into a map.
func (r *Repository) MaterialsByIDs(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]models.Material, error) {
	result := make(map[uuid.UUID]models.Material, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var materials []models.Material
	err := r.db.WithContext(ctx).
		Where("id IN ? AND user_id = ?", ids, userID).
		Find(&materials).Error
	if err != nil {
		return nil, err
	}
	for _, material := range materials {
		result[material.ID] = material
	}
	return result, nil
}

// ListExtraCosts returns the product's extra costs in insertion order.
func (r *Repository) ListExtraCosts(ctx context.Context, userID, productID uuid.UUID) ([]models.ExtraCost, error) {
	var extras []models.ExtraCost
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND user_id = ?", productID, userID).
		Order("created_at ASC").
		Find(&extras).Error
	if err != nil {
		return nil, err
	}
	return extras, nil
}

package catalog

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	"github.com/margindesk/margindesk-backend/pkg/pagination"
)

// Repository wires together material and product persistence helpers.
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

// CreateMaterial inserts a new material row.
func (r *Repository) CreateMaterial(ctx context.Context, material *models.Material) (*models.Material, error) {
	if err := r.db.WithContext(ctx).Create(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

// UpdateMaterial saves the full material row.
func (r *Repository) UpdateMaterial(ctx context.Context, material *models.Material) (*models.Material, error) {
	if err := r.db.WithContext(ctx).Save(material).Error; err != nil {
		return nil, err
	}
	return material, nil
}

// DeleteMaterial removes the user's material by ID.
func (r *Repository) DeleteMaterial(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Material{}).Error
}

// FindMaterial loads a material owned by the user, or nil when absent.
func (r *Repository) FindMaterial(ctx context.Context, userID, id uuid.UUID) (*models.Material, error) {
	var material models.Material
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&material).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &material, nil
}

// ListMaterials returns one cursor page of the user's materials, newest first.
func (r *Repository) ListMaterials(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Material, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)

	qb, err := r.pageQuery(ctx, userID, params)
	if err != nil {
		return nil, "", err
	}

	var rows []models.Material
	if err := qb.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
}

// CountBOMReferences counts BOM lines pointing at the material across all of
// the user's products.
func (r *Repository) CountBOMReferences(ctx context.Context, userID, materialID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.BOMLine{}).
		Where("material_id = ? AND user_id = ?", materialID, userID).
		Count(&count).Error
	return count, err
}

// CreateProduct inserts a new product row.
func (r *Repository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct saves the product row without touching associations.
func (r *Repository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Omit("BOMLines", "ExtraCosts").Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes the user's product; FK cascades clear composition rows.
func (r *Repository) DeleteProduct(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Product{}).Error
}

// FindProduct loads the product with its composition rows, or nil when absent.
func (r *Repository) FindProduct(ctx context.Context, userID, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Preload("BOMLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("ExtraCosts", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
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

// ListProducts returns one cursor page of the user's products, newest first.
func (r *Repository) ListProducts(ctx context.Context, userID uuid.UUID, params pagination.Params) ([]models.Product, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)

	qb, err := r.pageQuery(ctx, userID, params)
	if err != nil {
		return nil, "", err
	}

	var rows []models.Product
	if err := qb.Find(&rows).Error; err != nil {
		return nil, "", err
	}

	nextCursor := ""
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		last := rows[len(rows)-1]
		nextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return rows, nextCursor, nil
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

// CreateBOMLine inserts a material consumption row.
func (r *Repository) CreateBOMLine(ctx context.Context, line *models.BOMLine) (*models.BOMLine, error) {
	if err := r.db.WithContext(ctx).Create(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// UpdateBOMLine saves the full BOM line row.
func (r *Repository) UpdateBOMLine(ctx context.Context, line *models.BOMLine) (*models.BOMLine, error) {
	if err := r.db.WithContext(ctx).Save(line).Error; err != nil {
		return nil, err
	}
	return line, nil
}

// DeleteBOMLine removes the user's BOM line by ID.
func (r *Repository) DeleteBOMLine(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.BOMLine{}).Error
}

// FindBOMLine loads a BOM line owned by the user, or nil when absent.
func (r *Repository) FindBOMLine(ctx context.Context, userID, id uuid.UUID) (*models.BOMLine, error) {
	var line models.BOMLine
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// FindBOMLineByMaterial returns the line for product+material, or nil.
func (r *Repository) FindBOMLineByMaterial(ctx context.Context, userID, productID, materialID uuid.UUID) (*models.BOMLine, error) {
	var line models.BOMLine
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND material_id = ? AND user_id = ?", productID, materialID, userID).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &line, nil
}

// CreateExtraCost inserts an ad-hoc per-unit cost row.
func (r *Repository) CreateExtraCost(ctx context.Context, extra *models.ExtraCost) (*models.ExtraCost, error) {
	if err := r.db.WithContext(ctx).Create(extra).Error; err != nil {
		return nil, err
	}
	return extra, nil
}

// UpdateExtraCost saves the full extra cost row.
func (r *Repository) UpdateExtraCost(ctx context.Context, extra *models.ExtraCost) (*models.ExtraCost, error) {
	if err := r.db.WithContext(ctx).Save(extra).Error; err != nil {
		return nil, err
	}
	return extra, nil
}

// DeleteExtraCost removes the user's extra cost by ID.
func (r *Repository) DeleteExtraCost(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.ExtraCost{}).Error
}

// FindExtraCost loads an extra cost owned by the user, or nil when absent.
func (r *Repository) FindExtraCost(ctx context.Context, userID, id uuid.UUID) (*models.ExtraCost, error) {
	var extra models.ExtraCost
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&extra).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &extra, nil
}

// pageQuery builds the shared keyset query over (created_at, id) descending.
func (r *Repository) pageQuery(ctx context.Context, userID uuid.UUID, params pagination.Params) (*gorm.DB, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}

	qb := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}
	return qb.Order("created_at DESC").Order("id DESC").Limit(pagination.LimitWithBuffer(params.Limit)), nil
}

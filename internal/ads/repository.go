package ads

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	"github.com/margindesk/margindesk-backend/pkg/pagination"
)

// Repository persists ad records.
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

// CreateRecord inserts one ad record row.
func (r *Repository) CreateRecord(ctx context.Context, record *models.AdRecord) (*models.AdRecord, error) {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// CreateRecords inserts a batch of ad records in one transaction.
func (r *Repository) CreateRecords(ctx context.Context, records []models.AdRecord) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&records).Error
	})
}

// UpdateRecord saves the full ad record row.
func (r *Repository) UpdateRecord(ctx context.Context, record *models.AdRecord) (*models.AdRecord, error) {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteRecord removes the user's ad record by ID.
func (r *Repository) DeleteRecord(ctx context.Context, userID, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.AdRecord{}).Error
}

// FindRecord loads an ad record owned by the user, or nil when absent.
func (r *Repository) FindRecord(ctx context.Context, userID, id uuid.UUID) (*models.AdRecord, error) {
	var record models.AdRecord
	err := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ListRecords returns one cursor page of a store+product pair's records,
// newest first.
func (r *Repository) ListRecords(ctx context.Context, userID, storeID, productID uuid.UUID, params pagination.Params) ([]models.AdRecord, string, error) {
	pageSize := pagination.NormalizeLimit(params.Limit)

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	qb := r.db.WithContext(ctx).
		Where("store_id = ? AND product_id = ? AND user_id = ?", storeID, productID, userID)
	if cursor != nil {
		qb = qb.Where("(created_at < ?) OR (created_at = ? AND id < ?)", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.AdRecord
	err = qb.Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error
	if err != nil {
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

type adSums struct {
	Records    int64
	Spend      decimal.Decimal
	GMV        decimal.Decimal
	Orders     int64
	TotalSales decimal.NullDecimal
}

// SumRecords aggregates a store+product pair's records. total_sales stays
// NULL when no record carries it.
func (r *Repository) SumRecords(ctx context.Context, userID, storeID, productID uuid.UUID) (*adSums, error) {
	var sums adSums
	err := r.db.WithContext(ctx).
		Model(&models.AdRecord{}).
		Select("COUNT(*) AS records, COALESCE(SUM(spend), 0) AS spend, COALESCE(SUM(gmv), 0) AS gmv, COALESCE(SUM(orders), 0) AS orders, SUM(total_sales) AS total_sales").
		Where("store_id = ? AND product_id = ? AND user_id = ?", storeID, productID, userID).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	return &sums, nil
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

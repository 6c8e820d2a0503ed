package decision

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
)

// Repository reads advertising aggregates for grading.
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

type adSums struct {
	Spend      decimal.Decimal
	GMV        decimal.Decimal
	Orders     int64
	TotalSales decimal.NullDecimal
}

// AggregateAds sums the ad records for a store+product pair. Returns nil when
// the pair has no records at all.
func (r *Repository) AggregateAds(ctx context.Context, userID, storeID, productID uuid.UUID) (*AdAggregate, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AdRecord{}).
		Where("store_id = ? AND product_id = ? AND user_id = ?", storeID, productID, userID).
		Count(&count).Error
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, nil
	}

	var sums adSums
	err = r.db.WithContext(ctx).
		Model(&models.AdRecord{}).
		Select("COALESCE(SUM(spend), 0) AS spend, COALESCE(SUM(gmv), 0) AS gmv, COALESCE(SUM(orders), 0) AS orders, SUM(total_sales) AS total_sales").
		Where("store_id = ? AND product_id = ? AND user_id = ?", storeID, productID, userID).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}

	aggregate := &AdAggregate{
		Spend:  sums.Spend,
		GMV:    sums.GMV,
		Orders: sums.Orders,
	}
	if sums.TotalSales.Valid {
		totalSales := sums.TotalSales.Decimal
		aggregate.TotalSales = &totalSales
	}
	return aggregate, nil
}

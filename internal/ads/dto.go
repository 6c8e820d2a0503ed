package ads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
)

// metric display scales: rates carry four places, currency two.
const (
	ratePrecision     = 4
	currencyPrecision = 2
)

// AdRecordDTO is one ad entry with its derived per-record metrics.
// Derived fields are nil when their denominator is zero or absent.
type AdRecordDTO struct {
	ID         uuid.UUID        `json:"id"`
	StoreID    uuid.UUID        `json:"store_id"`
	ProductID  uuid.UUID        `json:"product_id"`
	Campaign   *string          `json:"campaign,omitempty"`
	Spend      decimal.Decimal  `json:"spend"`
	GMV        decimal.Decimal  `json:"gmv"`
	Orders     int64            `json:"orders"`
	TotalSales *decimal.Decimal `json:"total_sales,omitempty"`
	ROAS       *decimal.Decimal `json:"roas,omitempty"`
	AOV        *decimal.Decimal `json:"aov,omitempty"`
	CPA        *decimal.Decimal `json:"cpa,omitempty"`
	TACoS      *decimal.Decimal `json:"tacos,omitempty"`
	CreatedAt  time.Time        `json:"created_at"`
}

// NewAdRecordDTO maps the persisted record and computes its read-side metrics.
func NewAdRecordDTO(record *models.AdRecord) *AdRecordDTO {
	if record == nil {
		return nil
	}
	dto := &AdRecordDTO{
		ID:         record.ID,
		StoreID:    record.StoreID,
		ProductID:  record.ProductID,
		Campaign:   record.Campaign,
		Spend:      record.Spend,
		GMV:        record.GMV,
		Orders:     record.Orders,
		TotalSales: record.TotalSales,
		CreatedAt:  record.CreatedAt,
	}
	dto.ROAS, dto.AOV, dto.CPA, dto.TACoS = deriveMetrics(record.Spend, record.GMV, record.Orders, record.TotalSales)
	return dto
}

// AdAggregateDTO sums a store+product pair's records with the same derived
// metrics computed over the totals.
type AdAggregateDTO struct {
	StoreID    uuid.UUID        `json:"store_id"`
	ProductID  uuid.UUID        `json:"product_id"`
	Records    int64            `json:"records"`
	Spend      decimal.Decimal  `json:"spend"`
	GMV        decimal.Decimal  `json:"gmv"`
	Orders     int64            `json:"orders"`
	TotalSales *decimal.Decimal `json:"total_sales,omitempty"`
	ROAS       *decimal.Decimal `json:"roas,omitempty"`
	AOV        *decimal.Decimal `json:"aov,omitempty"`
	CPA        *decimal.Decimal `json:"cpa,omitempty"`
	TACoS      *decimal.Decimal `json:"tacos,omitempty"`
}

// AdRecordListResult is a cursor page of ad records.
type AdRecordListResult struct {
	Records    []AdRecordDTO `json:"records"`
	NextCursor string        `json:"next_cursor,omitempty"`
}

// ImportResult reports how many CSV rows became records.
type ImportResult struct {
	Imported int `json:"imported"`
}

func deriveMetrics(spend, gmv decimal.Decimal, orders int64, totalSales *decimal.Decimal) (roas, aov, cpa, tacos *decimal.Decimal) {
	if spend.IsPositive() {
		v := gmv.Div(spend).Round(ratePrecision)
		roas = &v
	}
	if orders > 0 {
		ordersDec := decimal.NewFromInt(orders)
		a := gmv.Div(ordersDec).Round(currencyPrecision)
		aov = &a
		c := spend.Div(ordersDec).Round(currencyPrecision)
		cpa = &c
	}
	if totalSales != nil && totalSales.IsPositive() {
		v := spend.Div(*totalSales).Round(ratePrecision)
		tacos = &v
	}
	return roas, aov, cpa, tacos
}

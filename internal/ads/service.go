package ads

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
	"github.com/margindesk/margindesk-backend/pkg/pagination"
)

// Service exposes ad record operations and aggregates.
type Service interface {
	CreateRecord(ctx context.Context, userID uuid.UUID, input RecordInput) (*AdRecordDTO, error)
	UpdateRecord(ctx context.Context, userID, recordID uuid.UUID, input RecordInput) (*AdRecordDTO, error)
	DeleteRecord(ctx context.Context, userID, recordID uuid.UUID) error
	GetRecord(ctx context.Context, userID, recordID uuid.UUID) (*AdRecordDTO, error)
	ListRecords(ctx context.Context, userID, storeID, productID uuid.UUID, params pagination.Params) (*AdRecordListResult, error)
	Aggregate(ctx context.Context, userID, storeID, productID uuid.UUID) (*AdAggregateDTO, error)
	ImportCSV(ctx context.Context, userID, storeID uuid.UUID, input ImportCSVInput) (*ImportResult, error)
}

// RecordInput is the validated ad record payload.
type RecordInput struct {
	StoreID    uuid.UUID
	ProductID  uuid.UUID
	Campaign   *string
	Spend      decimal.Decimal
	GMV        decimal.Decimal
	Orders     int64
	TotalSales *decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs an ads service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ads repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateRecord(ctx context.Context, userID uuid.UUID, input RecordInput) (*AdRecordDTO, error) {
	if err := validateRecord(input); err != nil {
		return nil, err
	}
	if err := s.ensurePair(ctx, userID, input.StoreID, input.ProductID); err != nil {
		return nil, err
	}

	record := &models.AdRecord{
		ID:         uuid.New(),
		UserID:     userID,
		StoreID:    input.StoreID,
		ProductID:  input.ProductID,
		Campaign:   normalizeCampaign(input.Campaign),
		Spend:      input.Spend,
		GMV:        input.GMV,
		Orders:     input.Orders,
		TotalSales: input.TotalSales,
	}
	created, err := s.repo.CreateRecord(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert ad record")
	}
	return NewAdRecordDTO(created), nil
}

func (s *service) UpdateRecord(ctx context.Context, userID, recordID uuid.UUID, input RecordInput) (*AdRecordDTO, error) {
	if err := validateRecord(input); err != nil {
		return nil, err
	}
	record, err := s.loadRecord(ctx, userID, recordID)
	if err != nil {
		return nil, err
	}

	record.Campaign = normalizeCampaign(input.Campaign)
	record.Spend = input.Spend
	record.GMV = input.GMV
	record.Orders = input.Orders
	record.TotalSales = input.TotalSales
	updated, err := s.repo.UpdateRecord(ctx, record)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update ad record")
	}
	return NewAdRecordDTO(updated), nil
}

func (s *service) DeleteRecord(ctx context.Context, userID, recordID uuid.UUID) error {
	if _, err := s.loadRecord(ctx, userID, recordID); err != nil {
		return err
	}
	if err := s.repo.DeleteRecord(ctx, userID, recordID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete ad record")
	}
	return nil
}

func (s *service) GetRecord(ctx context.Context, userID, recordID uuid.UUID) (*AdRecordDTO, error) {
	record, err := s.loadRecord(ctx, userID, recordID)
	if err != nil {
		return nil, err
	}
	return NewAdRecordDTO(record), nil
}

func (s *service) ListRecords(ctx context.Context, userID, storeID, productID uuid.UUID, params pagination.Params) (*AdRecordListResult, error) {
	rows, nextCursor, err := s.repo.ListRecords(ctx, userID, storeID, productID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list ad records")
	}
	result := &AdRecordListResult{
		Records:    make([]AdRecordDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		result.Records = append(result.Records, *NewAdRecordDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) Aggregate(ctx context.Context, userID, storeID, productID uuid.UUID) (*AdAggregateDTO, error) {
	if err := s.ensurePair(ctx, userID, storeID, productID); err != nil {
		return nil, err
	}
	sums, err := s.repo.SumRecords(ctx, userID, storeID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: sum ad records")
	}

	dto := &AdAggregateDTO{
		StoreID:   storeID,
		ProductID: productID,
		Records:   sums.Records,
		Spend:     sums.Spend,
		GMV:       sums.GMV,
		Orders:    sums.Orders,
	}
	var totalSales *decimal.Decimal
	if sums.TotalSales.Valid {
		totalSales = &sums.TotalSales.Decimal
		dto.TotalSales = totalSales
	}
	dto.ROAS, dto.AOV, dto.CPA, dto.TACoS = deriveMetrics(sums.Spend, sums.GMV, sums.Orders, totalSales)
	return dto, nil
}

func (s *service) ensurePair(ctx context.Context, userID, storeID, productID uuid.UUID) error {
	store, err := s.repo.FindStore(ctx, userID, storeID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}
	product, err := s.repo.FindProduct(ctx, userID, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}

func (s *service) loadRecord(ctx context.Context, userID, recordID uuid.UUID) (*models.AdRecord, error) {
	record, err := s.repo.FindRecord(ctx, userID, recordID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load ad record")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "ad record not found")
	}
	return record, nil
}

func validateRecord(input RecordInput) error {
	if input.Spend.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "spend must be non-negative")
	}
	if input.GMV.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "gmv must be non-negative")
	}
	if input.Orders < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "orders must be non-negative")
	}
	if input.TotalSales != nil && input.TotalSales.IsNegative() {
		return pkgerrors.New(pkgerrors.CodeValidation, "total_sales must be non-negative")
	}
	return nil
}

func normalizeCampaign(campaign *string) *string {
	if campaign == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*campaign)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

package ads

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/pkg/db/models"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

// maxImportRows caps one CSV upload.
const maxImportRows = 5000

// importColumns is the required header, in order. total_sales may be blank
// per row; campaign may be blank.
var importColumns = []string{"product_id", "campaign", "spend", "gmv", "orders", "total_sales"}

// ImportCSVInput carries the upload stream for one store.
type ImportCSVInput struct {
	Reader io.Reader
}

// ImportCSV parses marketplace ad-report rows and inserts them atomically.
// Any malformed row fails the whole upload.
func (s *service) ImportCSV(ctx context.Context, userID, storeID uuid.UUID, input ImportCSVInput) (*ImportResult, error) {
	if input.Reader == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv body is required")
	}
	store, err := s.repo.FindStore(ctx, userID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	reader := csv.NewReader(input.Reader)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "csv header is required")
	}
	if err := validateImportHeader(header); err != nil {
		return nil, err
	}

	// validated product ids, so one bad reference fails before any insert
	seenProducts := make(map[uuid.UUID]bool)
	var records []models.AdRecord
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d: malformed csv", line))
		}
		if len(records) >= maxImportRows {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("upload exceeds %d rows", maxImportRows))
		}

		record, err := s.parseImportRow(ctx, userID, storeID, row, line, seenProducts)
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	if err := s.repo.CreateRecords(ctx, records); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert ad records")
	}
	return &ImportResult{Imported: len(records)}, nil
}

func (s *service) parseImportRow(ctx context.Context, userID, storeID uuid.UUID, row []string, line int, seenProducts map[uuid.UUID]bool) (*models.AdRecord, error) {
	if len(row) != len(importColumns) {
		return nil, rowError(line, "wrong column count")
	}

	productID, err := uuid.Parse(strings.TrimSpace(row[0]))
	if err != nil {
		return nil, rowError(line, "invalid product_id")
	}
	if known, checked := seenProducts[productID]; !checked {
		product, err := s.repo.FindProduct(ctx, userID, productID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
		}
		seenProducts[productID] = product != nil
		if product == nil {
			return nil, rowError(line, "unknown product_id")
		}
	} else if !known {
		return nil, rowError(line, "unknown product_id")
	}

	spend, err := parseAmount(row[2])
	if err != nil {
		return nil, rowError(line, "invalid spend")
	}
	gmv, err := parseAmount(row[3])
	if err != nil {
		return nil, rowError(line, "invalid gmv")
	}
	orders, err := strconv.ParseInt(strings.TrimSpace(row[4]), 10, 64)
	if err != nil || orders < 0 {
		return nil, rowError(line, "invalid orders")
	}

	var totalSales *decimal.Decimal
	if trimmed := strings.TrimSpace(row[5]); trimmed != "" {
		value, err := parseAmount(trimmed)
		if err != nil {
			return nil, rowError(line, "invalid total_sales")
		}
		totalSales = &value
	}

	var campaign *string
	if trimmed := strings.TrimSpace(row[1]); trimmed != "" {
		campaign = &trimmed
	}

	return &models.AdRecord{
		ID:         uuid.New(),
		UserID:     userID,
		StoreID:    storeID,
		ProductID:  productID,
		Campaign:   campaign,
		Spend:      spend,
		GMV:        gmv,
		Orders:     orders,
		TotalSales: totalSales,
	}, nil
}

func validateImportHeader(header []string) error {
	if len(header) != len(importColumns) {
		return pkgerrors.New(pkgerrors.CodeValidation, "csv header must be: "+strings.Join(importColumns, ","))
	}
	for i, column := range importColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != column {
			return pkgerrors.New(pkgerrors.CodeValidation, "csv header must be: "+strings.Join(importColumns, ","))
		}
	}
	return nil
}

func parseAmount(value string) (decimal.Decimal, error) {
	parsed, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return decimal.Zero, err
	}
	if parsed.IsNegative() {
		return decimal.Zero, fmt.Errorf("negative amount")
	}
	return parsed, nil
}

func rowError(line int, message string) error {
	return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("row %d: %s", line, message))
}

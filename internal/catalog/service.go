package catalog

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

// unitPricePrecision is the decimal scale persisted for derived unit prices.
const unitPricePrecision = 4

// Service exposes material and product master-data operations.
type Service interface {
	CreateMaterial(ctx context.Context, userID uuid.UUID, input CreateMaterialInput) (*MaterialDTO, error)
	UpdateMaterial(ctx context.Context, userID, materialID uuid.UUID, input UpdateMaterialInput) (*MaterialDTO, error)
	DeleteMaterial(ctx context.Context, userID, materialID uuid.UUID) error
	GetMaterial(ctx context.Context, userID, materialID uuid.UUID) (*MaterialDTO, error)
	ListMaterials(ctx context.Context, userID uuid.UUID, params pagination.Params) (*MaterialListResult, error)

	CreateProduct(ctx context.Context, userID uuid.UUID, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error
	GetProduct(ctx context.Context, userID, productID uuid.UUID) (*ProductDTO, error)
	ListProducts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ProductListResult, error)

	AddBOMLine(ctx context.Context, userID, productID uuid.UUID, input BOMLineInput) (*ProductDTO, error)
	UpdateBOMLine(ctx context.Context, userID, productID, lineID uuid.UUID, quantity decimal.Decimal) (*ProductDTO, error)
	RemoveBOMLine(ctx context.Context, userID, productID, lineID uuid.UUID) error

	AddExtraCost(ctx context.Context, userID, productID uuid.UUID, input ExtraCostInput) (*ProductDTO, error)
	UpdateExtraCost(ctx context.Context, userID, productID, extraID uuid.UUID, input ExtraCostInput) (*ProductDTO, error)
	RemoveExtraCost(ctx context.Context, userID, productID, extraID uuid.UUID) error
}

// CreateMaterialInput holds the validated payload to create a material.
type CreateMaterialInput struct {
	Name         string
	TotalPrice   decimal.Decimal
	UnitQuantity decimal.Decimal
	UnitLabel    string
}

// UpdateMaterialInput holds optional mutation values for a material.
type UpdateMaterialInput struct {
	Name         *string
	TotalPrice   *decimal.Decimal
	UnitQuantity *decimal.Decimal
	UnitLabel    *string
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name string
	SKU  *string
}

// UpdateProductInput holds optional mutation values for a product.
type UpdateProductInput struct {
	Name *string
	SKU  *string
}

// BOMLineInput attaches a material consumption row to a product.
type BOMLineInput struct {
	MaterialID uuid.UUID
	Quantity   decimal.Decimal
}

// ExtraCostInput is an ad-hoc per-unit cost payload.
type ExtraCostInput struct {
	Label  string
	Amount decimal.Decimal
}

type service struct {
	repo *Repository
}

// NewService constructs a catalog service instance.
func NewService(repo *Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// deriveUnitPrice computes the per-unit price a cost rollup consumes.
func deriveUnitPrice(totalPrice, unitQuantity decimal.Decimal) (decimal.Decimal, error) {
	if totalPrice.IsNegative() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "total_price must be non-negative")
	}
	if !unitQuantity.IsPositive() {
		return decimal.Zero, pkgerrors.New(pkgerrors.CodeValidation, "unit_quantity must be positive")
	}
	return totalPrice.Div(unitQuantity).Round(unitPricePrecision), nil
}

func (s *service) CreateMaterial(ctx context.Context, userID uuid.UUID, input CreateMaterialInput) (*MaterialDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	unitLabel := strings.TrimSpace(input.UnitLabel)
	if unitLabel == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_label is required")
	}
	unitPrice, err := deriveUnitPrice(input.TotalPrice, input.UnitQuantity)
	if err != nil {
		return nil, err
	}

	material := &models.Material{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		TotalPrice:   input.TotalPrice,
		UnitQuantity: input.UnitQuantity,
		UnitPrice:    unitPrice,
		UnitLabel:    unitLabel,
	}
	created, err := s.repo.CreateMaterial(ctx, material)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert material")
	}
	return NewMaterialDTO(created), nil
}

func (s *service) UpdateMaterial(ctx context.Context, userID, materialID uuid.UUID, input UpdateMaterialInput) (*MaterialDTO, error) {
	material, err := s.loadMaterial(ctx, userID, materialID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		material.Name = name
	}
	if input.UnitLabel != nil {
		label := strings.TrimSpace(*input.UnitLabel)
		if label == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit_label is required")
		}
		material.UnitLabel = label
	}
	if input.TotalPrice != nil {
		material.TotalPrice = *input.TotalPrice
	}
	if input.UnitQuantity != nil {
		material.UnitQuantity = *input.UnitQuantity
	}
	if input.TotalPrice != nil || input.UnitQuantity != nil {
		unitPrice, err := deriveUnitPrice(material.TotalPrice, material.UnitQuantity)
		if err != nil {
			return nil, err
		}
		material.UnitPrice = unitPrice
	}

	updated, err := s.repo.UpdateMaterial(ctx, material)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update material")
	}
	return NewMaterialDTO(updated), nil
}

func (s *service) DeleteMaterial(ctx context.Context, userID, materialID uuid.UUID) error {
	if _, err := s.loadMaterial(ctx, userID, materialID); err != nil {
		return err
	}
	refs, err := s.repo.CountBOMReferences(ctx, userID, materialID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: count bom references")
	}
	if refs > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "material is referenced by a product bill of materials")
	}
	if err := s.repo.DeleteMaterial(ctx, userID, materialID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete material")
	}
	return nil
}

func (s *service) GetMaterial(ctx context.Context, userID, materialID uuid.UUID) (*MaterialDTO, error) {
	material, err := s.loadMaterial(ctx, userID, materialID)
	if err != nil {
		return nil, err
	}
	return NewMaterialDTO(material), nil
}

func (s *service) ListMaterials(ctx context.Context, userID uuid.UUID, params pagination.Params) (*MaterialListResult, error) {
	rows, nextCursor, err := s.repo.ListMaterials(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list materials")
	}
	result := &MaterialListResult{
		Materials:  make([]MaterialDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for i := range rows {
		result.Materials = append(result.Materials, *NewMaterialDTO(&rows[i]))
	}
	return result, nil
}

func (s *service) CreateProduct(ctx context.Context, userID uuid.UUID, input CreateProductInput) (*ProductDTO, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	product := &models.Product{
		ID:     uuid.New(),
		UserID: userID,
		Name:   name,
		SKU:    normalizeSKU(input.SKU),
	}
	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}
	return s.productDetail(ctx, userID, created.ID)
}

func (s *service) UpdateProduct(ctx context.Context, userID, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
		}
		product.Name = name
	}
	if input.SKU != nil {
		product.SKU = normalizeSKU(input.SKU)
	}
	if _, err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}
	return s.productDetail(ctx, userID, productID)
}

func (s *service) DeleteProduct(ctx context.Context, userID, productID uuid.UUID) error {
	if _, err := s.loadProduct(ctx, userID, productID); err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, userID, productID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, userID, productID uuid.UUID) (*ProductDTO, error) {
	return s.productDetail(ctx, userID, productID)
}

func (s *service) ListProducts(ctx context.Context, userID uuid.UUID, params pagination.Params) (*ProductListResult, error) {
	rows, nextCursor, err := s.repo.ListProducts(ctx, userID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}
	result := &ProductListResult{
		Products:   make([]ProductSummaryDTO, 0, len(rows)),
		NextCursor: nextCursor,
	}
	for _, row := range rows {
		result.Products = append(result.Products, ProductSummaryDTO{
			ID:        row.ID,
			Name:      row.Name,
			SKU:       row.SKU,
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return result, nil
}

func (s *service) AddBOMLine(ctx context.Context, userID, productID uuid.UUID, input BOMLineInput) (*ProductDTO, error) {
	if !input.Quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	if _, err := s.loadProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	material, err := s.repo.FindMaterial(ctx, userID, input.MaterialID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load material")
	}
	if material == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
	}

	existing, err := s.repo.FindBOMLineByMaterial(ctx, userID, productID, input.MaterialID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: check bom line")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "material already on the bill of materials")
	}

	line := &models.BOMLine{
		ID:         uuid.New(),
		UserID:     userID,
		ProductID:  productID,
		MaterialID: input.MaterialID,
		Quantity:   input.Quantity,
	}
	if _, err := s.repo.CreateBOMLine(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert bom line")
	}
	return s.productDetail(ctx, userID, productID)
}

func (s *service) UpdateBOMLine(ctx context.Context, userID, productID, lineID uuid.UUID, quantity decimal.Decimal) (*ProductDTO, error) {
	if !quantity.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}
	line, err := s.loadBOMLine(ctx, userID, productID, lineID)
	if err != nil {
		return nil, err
	}
	line.Quantity = quantity
	if _, err := s.repo.UpdateBOMLine(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update bom line")
	}
	return s.productDetail(ctx, userID, productID)
}

func (s *service) RemoveBOMLine(ctx context.Context, userID, productID, lineID uuid.UUID) error {
	if _, err := s.loadBOMLine(ctx, userID, productID, lineID); err != nil {
		return err
	}
	if err := s.repo.DeleteBOMLine(ctx, userID, lineID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete bom line")
	}
	return nil
}

func (s *service) AddExtraCost(ctx context.Context, userID, productID uuid.UUID, input ExtraCostInput) (*ProductDTO, error) {
	label, err := validateExtraCost(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.loadProduct(ctx, userID, productID); err != nil {
		return nil, err
	}
	extra := &models.ExtraCost{
		ID:        uuid.New(),
		UserID:    userID,
		ProductID: productID,
		Label:     label,
		Amount:    input.Amount,
	}
	if _, err := s.repo.CreateExtraCost(ctx, extra); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert extra cost")
	}
	return s.productDetail(ctx, userID, productID)
}

func (s *service) UpdateExtraCost(ctx context.Context, userID, productID, extraID uuid.UUID, input ExtraCostInput) (*ProductDTO, error) {
	label, err := validateExtraCost(input)
	if err != nil {
		return nil, err
	}
	extra, err := s.loadExtraCost(ctx, userID, productID, extraID)
	if err != nil {
		return nil, err
	}
	extra.Label = label
	extra.Amount = input.Amount
	if _, err := s.repo.UpdateExtraCost(ctx, extra); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update extra cost")
	}
	return s.productDetail(ctx, userID, productID)
}

func (s *service) RemoveExtraCost(ctx context.Context, userID, productID, extraID uuid.UUID) error {
	if _, err := s.loadExtraCost(ctx, userID, productID, extraID); err != nil {
		return err
	}
	if err := s.repo.DeleteExtraCost(ctx, userID, extraID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete extra cost")
	}
	return nil
}

func (s *service) productDetail(ctx context.Context, userID, productID uuid.UUID) (*ProductDTO, error) {
	product, err := s.loadProduct(ctx, userID, productID)
	if err != nil {
		return nil, err
	}
	materialIDs := make([]uuid.UUID, 0, len(product.BOMLines))
	for _, line := range product.BOMLines {
		materialIDs = append(materialIDs, line.MaterialID)
	}
	materials, err := s.repo.MaterialsByIDs(ctx, userID, materialIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load materials")
	}
	return NewProductDTO(product, materials), nil
}

func (s *service) loadMaterial(ctx context.Context, userID, materialID uuid.UUID) (*models.Material, error) {
	material, err := s.repo.FindMaterial(ctx, userID, materialID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load material")
	}
	if material == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "material not found")
	}
	return material, nil
}

func (s *service) loadProduct(ctx context.Context, userID, productID uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProduct(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return product, nil
}

func (s *service) loadBOMLine(ctx context.Context, userID, productID, lineID uuid.UUID) (*models.BOMLine, error) {
	line, err := s.repo.FindBOMLine(ctx, userID, lineID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load bom line")
	}
	if line == nil || line.ProductID != productID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "bom line not found")
	}
	return line, nil
}

func (s *service) loadExtraCost(ctx context.Context, userID, productID, extraID uuid.UUID) (*models.ExtraCost, error) {
	extra, err := s.repo.FindExtraCost(ctx, userID, extraID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load extra cost")
	}
	if extra == nil || extra.ProductID != productID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "extra cost not found")
	}
	return extra, nil
}

func validateExtraCost(input ExtraCostInput) (string, error) {
	label := strings.TrimSpace(input.Label)
	if label == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "label is required")
	}
	if input.Amount.IsNegative() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "amount must be non-negative")
	}
	return label, nil
}

func normalizeSKU(sku *string) *string {
	if sku == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*sku)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

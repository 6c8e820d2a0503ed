package costing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

// Service exposes cost-of-goods computation for a user's products.
type Service interface {
	ProductCost(ctx context.Context, userID, productID uuid.UUID) (*ProductCostDTO, error)
}

// ProductCostDTO is the cost rollup annotated with the product it belongs to.
type ProductCostDTO struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductName string    `json:"product_name"`
	Result
}

type service struct {
	repo   *Repository
	policy MissingMaterialPolicy
}

// NewService constructs a costing service instance.
func NewService(repo *Repository, policy MissingMaterialPolicy) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("costing repository required")
	}
	if !policy.IsValid() {
		return nil, fmt.Errorf("invalid missing-material policy %q", policy)
	}
	return &service{repo: repo, policy: policy}, nil
}

// ProductCost resolves the product's BOM and extra costs and rolls them up.
func (s *service) ProductCost(ctx context.Context, userID, productID uuid.UUID) (*ProductCostDTO, error) {
	product, err := s.repo.FindProduct(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}
	if product == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	lines, err := s.repo.ListBOMLines(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list bom lines")
	}

	materialIDs := make([]uuid.UUID, 0, len(lines))
	for _, line := range lines {
		materialIDs = append(materialIDs, line.MaterialID)
	}
	materials, err := s.repo.MaterialsByIDs(ctx, userID, materialIDs)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load materials")
	}

	extras, err := s.repo.ListExtraCosts(ctx, userID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list extra costs")
	}

	result, err := ComputeCost(lines, materials, extras, s.policy)
	if err != nil {
		return nil, err
	}

	return &ProductCostDTO{
		ProductID:   product.ID,
		ProductName: product.Name,
		Result:      *result,
	}, nil
}

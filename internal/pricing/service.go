package pricing

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/margindesk/margindesk-backend/internal/costing"
	"github.com/margindesk/margindesk-backend/pkg/db/models"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
	"github.com/margindesk/margindesk-backend/pkg/metrics"
)

// Service exposes forward and reverse pricing over a user's listings.
type Service interface {
	CalcListing(ctx context.Context, userID, listingID uuid.UUID) (*ForwardResult, error)
	CalcStoreProduct(ctx context.Context, userID, storeID, productID uuid.UUID) (*ForwardResult, error)
	Reverse(ctx context.Context, userID uuid.UUID, input ReverseInput) (*ReverseResult, error)
}

// ReverseInput identifies the store/product pair and the profit target.
type ReverseInput struct {
	StoreID   uuid.UUID
	ProductID uuid.UUID
	Target    Target
}

type costComputer interface {
	ProductCost(ctx context.Context, userID, productID uuid.UUID) (*costing.ProductCostDTO, error)
}

type service struct {
	repo   *Repository
	costs  costComputer
	engine *metrics.EngineMetrics
}

// NewService constructs a pricing service instance. The engine metrics are
// optional; a nil receiver disables counting.
func NewService(repo *Repository, costs costComputer, engine *metrics.EngineMetrics) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("pricing repository required")
	}
	if costs == nil {
		return nil, fmt.Errorf("cost computer required")
	}
	return &service{repo: repo, costs: costs, engine: engine}, nil
}

// CalcListing runs forward pricing for one listing at its current price.
func (s *service) CalcListing(ctx context.Context, userID, listingID uuid.UUID) (*ForwardResult, error) {
	listing, err := s.repo.FindListing(ctx, userID, listingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing")
	}
	if listing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found")
	}
	return s.calc(ctx, userID, listing)
}

// CalcStoreProduct runs forward pricing for the listing of a store+product pair.
func (s *service) CalcStoreProduct(ctx context.Context, userID, storeID, productID uuid.UUID) (*ForwardResult, error) {
	listing, err := s.repo.FindListingByStoreProduct(ctx, userID, storeID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing")
	}
	if listing == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing not found for store and product")
	}
	return s.calc(ctx, userID, listing)
}

func (s *service) calc(ctx context.Context, userID uuid.UUID, listing *models.StoreListing) (*ForwardResult, error) {
	discounts, err := s.repo.ListDiscounts(ctx, userID, listing.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list discounts")
	}

	fees, err := s.effectiveFees(ctx, userID, listing.StoreID, &listing.ID)
	if err != nil {
		return nil, err
	}

	cost, err := s.costs.ProductCost(ctx, userID, listing.ProductID)
	if err != nil {
		return nil, err
	}

	s.engine.IncComputation("forward")
	return PriceForward(listing.ListPrice, discounts, fees, cost.CostOfGoods)
}

// Reverse solves for the minimum price meeting the target. The listing is
// optional: when the pair has no listing yet, store-level fees apply as-is.
func (s *service) Reverse(ctx context.Context, userID uuid.UUID, input ReverseInput) (*ReverseResult, error) {
	store, err := s.repo.FindStore(ctx, userID, input.StoreID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load store")
	}
	if store == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store not found")
	}

	var listingID *uuid.UUID
	listing, err := s.repo.FindListingByStoreProduct(ctx, userID, input.StoreID, input.ProductID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load listing")
	}
	if listing != nil {
		listingID = &listing.ID
	}

	fees, err := s.effectiveFees(ctx, userID, input.StoreID, listingID)
	if err != nil {
		return nil, err
	}

	cost, err := s.costs.ProductCost(ctx, userID, input.ProductID)
	if err != nil {
		return nil, err
	}

	s.engine.IncComputation("reverse")
	result, err := PriceReverse(cost.CostOfGoods, fees, input.Target)
	if err != nil {
		if typed := pkgerrors.As(err); typed != nil && typed.Code() == pkgerrors.CodeInfeasibleTarget {
			s.engine.IncInfeasibleTarget()
		}
		return nil, err
	}
	return result, nil
}

// effectiveFees resolves the fee set for a store, letting listing-level rows
// override the store value for the same fee definition. Overrides keep the
// store fee's position; listing fees for definitions the store does not carry
// are appended after.
func (s *service) effectiveFees(ctx context.Context, userID, storeID uuid.UUID, listingID *uuid.UUID) ([]FeeLine, error) {
	storeFees, err := s.repo.ListStoreFees(ctx, userID, storeID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list store fees")
	}

	var listingFees []models.ListingFee
	if listingID != nil {
		listingFees, err = s.repo.ListListingFees(ctx, userID, *listingID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list listing fees")
		}
	}

	overrides := make(map[uuid.UUID]models.ListingFee, len(listingFees))
	for _, fee := range listingFees {
		overrides[fee.FeeDefinitionID] = fee
	}

	lines := make([]FeeLine, 0, len(storeFees)+len(listingFees))
	seen := make(map[uuid.UUID]bool, len(storeFees))
	for _, fee := range storeFees {
		if fee.Definition == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "store fee references unknown fee definition").
				WithDetails(map[string]any{"fee_definition_id": fee.FeeDefinitionID})
		}
		value := fee.Value
		if override, ok := overrides[fee.FeeDefinitionID]; ok {
			value = override.Value
		}
		seen[fee.FeeDefinitionID] = true
		lines = append(lines, FeeLine{
			FeeDefinitionID: fee.FeeDefinitionID,
			Name:            fee.Definition.Name,
			CalcKind:        fee.Definition.CalcKind,
			ApplyPoint:      fee.Definition.ApplyPoint,
			Value:           value,
		})
	}

	for _, fee := range listingFees {
		if seen[fee.FeeDefinitionID] {
			continue
		}
		if fee.Definition == nil {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "listing fee references unknown fee definition").
				WithDetails(map[string]any{"fee_definition_id": fee.FeeDefinitionID})
		}
		lines = append(lines, FeeLine{
			FeeDefinitionID: fee.FeeDefinitionID,
			Name:            fee.Definition.Name,
			CalcKind:        fee.Definition.CalcKind,
			ApplyPoint:      fee.Definition.ApplyPoint,
			Value:           fee.Value,
		})
	}

	return lines, nil
}

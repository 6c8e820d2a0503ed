package decision

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/margindesk/margindesk-backend/internal/pricing"
	pkgerrors "github.com/margindesk/margindesk-backend/pkg/errors"
)

// Service grades a store+product pair from its pricing and ad history.
type Service interface {
	Decide(ctx context.Context, userID, storeID, productID uuid.UUID) (*Decision, error)
}

type forwardCalculator interface {
	CalcStoreProduct(ctx context.Context, userID, storeID, productID uuid.UUID) (*pricing.ForwardResult, error)
}

type service struct {
	repo       *Repository
	calculator forwardCalculator
	thresholds Thresholds
}

// NewService constructs a decision service instance.
func NewService(repo *Repository, calculator forwardCalculator, thresholds Thresholds) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("decision repository required")
	}
	if calculator == nil {
		return nil, fmt.Errorf("forward calculator required")
	}
	return &service{repo: repo, calculator: calculator, thresholds: thresholds}, nil
}

// Decide runs forward pricing for the pair, folds in the ad aggregate, and
// classifies the result.
func (s *service) Decide(ctx context.Context, userID, storeID, productID uuid.UUID) (*Decision, error) {
	forward, err := s.calculator.CalcStoreProduct(ctx, userID, storeID, productID)
	if err != nil {
		return nil, err
	}

	ads, err := s.repo.AggregateAds(ctx, userID, storeID, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: aggregate ad records")
	}

	return Evaluate(forward, ads, s.thresholds), nil
}

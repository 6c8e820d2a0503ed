package controllers

import (
	"net/http"

	"github.com/margindesk/margindesk-backend/api/responses"
	"github.com/margindesk/margindesk-backend/api/validators"
	"github.com/margindesk/margindesk-backend/internal/costing"
	"github.com/margindesk/margindesk-backend/pkg/logger"
)

// CostingProductCost rolls the product's bill of materials and extra costs
// into a per-unit cost breakdown.
func CostingProductCost(svc costing.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		cost, err := svc.ProductCost(r.Context(), userID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, cost)
	}
}

package controllers

import (
	"net/http"

	"github.com/margindesk/margindesk-backend/api/responses"
	"github.com/margindesk/margindesk-backend/api/validators"
	"github.com/margindesk/margindesk-backend/internal/decision"
	"github.com/margindesk/margindesk-backend/pkg/logger"
)

// DecisionsEvaluate grades a store/product pair and returns the viability
// verdict with its ordered alerts.
func DecisionsEvaluate(svc decision.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		storeID, err := validators.ParsePathUUID(r, "storeId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := validators.ParsePathUUID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		verdict, err := svc.Decide(r.Context(), userID, storeID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, verdict)
	}
}

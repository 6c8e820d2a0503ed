package controllers

import (
	"net/http"

	"github.com/margindesk/margindesk-backend/api/responses"
	"github.com/margindesk/margindesk-backend/api/validators"
	"github.com/margindesk/margindesk-backend/internal/marketplaces"
	"github.com/margindesk/margindesk-backend/pkg/enums"
	"github.com/margindesk/margindesk-backend/pkg/logger"
)

type marketplaceBody struct {
	Name string `json:"name" validate:"required,max=100"`
}

type feeDefinitionBody struct {
	Name       string `json:"name" validate:"required,max=100"`
	CalcKind   string `json:"calc_kind" validate:"required"`
	ApplyPoint string `json:"apply_point" validate:"required"`
}

func MarketplacesCreate(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body marketplaceBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		marketplace, err := svc.CreateMarketplace(r.Context(), userID, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, marketplace)
	}
}

func MarketplacesRename(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		marketplaceID, err := validators.ParsePathUUID(r, "marketplaceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body marketplaceBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		marketplace, err := svc.RenameMarketplace(r.Context(), userID, marketplaceID, body.Name)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, marketplace)
	}
}

func MarketplacesDelete(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		marketplaceID, err := validators.ParsePathUUID(r, "marketplaceId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMarketplace(r.Context(), userID, marketplaceID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func MarketplacesList(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListMarketplaces(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

func FeeDefinitionsCreate(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body feeDefinitionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		definition, err := svc.CreateFeeDefinition(r.Context(), userID, marketplaces.FeeDefinitionInput{
			Name:       body.Name,
			CalcKind:   enums.FeeCalcKind(body.CalcKind),
			ApplyPoint: enums.FeeApplyPoint(body.ApplyPoint),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, definition)
	}
}

func FeeDefinitionsUpdate(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		definitionID, err := validators.ParsePathUUID(r, "definitionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body feeDefinitionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		definition, err := svc.UpdateFeeDefinition(r.Context(), userID, definitionID, marketplaces.FeeDefinitionInput{
			Name:       body.Name,
			CalcKind:   enums.FeeCalcKind(body.CalcKind),
			ApplyPoint: enums.FeeApplyPoint(body.ApplyPoint),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, definition)
	}
}

func FeeDefinitionsDelete(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		definitionID, err := validators.ParsePathUUID(r, "definitionId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteFeeDefinition(r.Context(), userID, definitionID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func FeeDefinitionsList(svc marketplaces.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListFeeDefinitions(r.Context(), userID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/margindesk/margindesk-backend/api/responses"
	"github.com/margindesk/margindesk-backend/api/validators"
	"github.com/margindesk/margindesk-backend/internal/catalog"
	"github.com/margindesk/margindesk-backend/pkg/logger"
	"github.com/margindesk/margindesk-backend/pkg/pagination"
)

type createMaterialBody struct {
	Name         string          `json:"name" validate:"required,max=200"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	UnitQuantity decimal.Decimal `json:"unit_quantity"`
	UnitLabel    string          `json:"unit_label" validate:"required,max=50"`
}

type updateMaterialBody struct {
	Name         *string          `json:"name,omitempty" validate:"omitempty,max=200"`
	TotalPrice   *decimal.Decimal `json:"total_price,omitempty"`
	UnitQuantity *decimal.Decimal `json:"unit_quantity,omitempty"`
	UnitLabel    *string          `json:"unit_label,omitempty" validate:"omitempty,max=50"`
}

// MaterialsCreate registers a raw material priced per purchasable batch.
func MaterialsCreate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body createMaterialBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.CreateMaterial(r.Context(), userID, catalog.CreateMaterialInput{
			Name:         body.Name,
			TotalPrice:   body.TotalPrice,
			UnitQuantity: body.UnitQuantity,
			UnitLabel:    body.UnitLabel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, material)
	}
}

func MaterialsUpdate(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		materialID, err := validators.ParsePathUUID(r, "materialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateMaterialBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.UpdateMaterial(r.Context(), userID, materialID, catalog.UpdateMaterialInput{
			Name:         body.Name,
			TotalPrice:   body.TotalPrice,
			UnitQuantity: body.UnitQuantity,
			UnitLabel:    body.UnitLabel,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, material)
	}
}

func MaterialsDelete(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		materialID, err := validators.ParsePathUUID(r, "materialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteMaterial(r.Context(), userID, materialID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func MaterialsDetail(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		materialID, err := validators.ParsePathUUID(r, "materialId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		material, err := svc.GetMaterial(r.Context(), userID, materialID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, material)
	}
}

func MaterialsList(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", pagination.DefaultLimit, 1, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		cursor := strings.TrimSpace(r.URL.Query().Get("cursor"))

		list, err := svc.ListMaterials(r.Context(), userID, pagination.Params{Limit: limit, Cursor: cursor})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, list)
	}
}

package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prachya-dev/saithong-backend/api/responses"
	"github.com/prachya-dev/saithong-backend/api/validators"
	stocksvc "github.com/prachya-dev/saithong-backend/internal/stock"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
	"github.com/prachya-dev/saithong-backend/pkg/logger"
)

type assignProductRequest struct {
	ProductID       string `json:"product_id" validate:"required,uuid"`
	InitialQuantity int    `json:"initial_quantity" validate:"min=0"`
	IsAvailable     *bool  `json:"is_available,omitempty"`
}

type mutateStockRequest struct {
	Action string `json:"action" validate:"required"`
	Amount int    `json:"amount"`
}

type availabilityRequest struct {
	IsAvailable bool `json:"is_available"`
}

type transferStockRequest struct {
	FromLocationID string `json:"from_location_id" validate:"required,uuid"`
	ToLocationID   string `json:"to_location_id" validate:"required,uuid"`
	ProductID      string `json:"product_id" validate:"required,uuid"`
	Amount         int    `json:"amount" validate:"required"`
}

func AssignProduct(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload assignProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id"))
			return
		}

		isAvailable := true
		if payload.IsAvailable != nil {
			isAvailable = *payload.IsAvailable
		}

		entry, err := svc.AddProduct(r.Context(), locationID, productID, payload.InitialQuantity, isAvailable)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, entry)
	}
}

func UnassignProduct(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, productID, err := stockPathIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveProduct(r.Context(), locationID, productID); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

func GetStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, productID, err := stockPathIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		quantity, err := svc.GetQuantity(r.Context(), locationID, productID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"location_id": locationID,
			"product_id":  productID,
			"quantity":    quantity,
		})
	}
}

func MutateStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, productID, err := stockPathIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload mutateStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		action, err := enums.ParseStockAction(strings.TrimSpace(payload.Action))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid action"))
			return
		}

		entry, err := svc.Mutate(r.Context(), stocksvc.MutateInput{
			LocationID: locationID,
			ProductID:  productID,
			Amount:     payload.Amount,
			Action:     action,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entry)
	}
}

func SetStockAvailability(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, productID, err := stockPathIDs(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload availabilityRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.SetAvailability(r.Context(), locationID, productID, payload.IsAvailable); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{"is_available": payload.IsAvailable})
	}
}

func TransferStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload transferStockRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		from, err := uuid.Parse(payload.FromLocationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid from_location_id"))
			return
		}
		to, err := uuid.Parse(payload.ToLocationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid to_location_id"))
			return
		}
		productID, err := uuid.Parse(payload.ProductID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product_id"))
			return
		}

		if err := svc.Transfer(r.Context(), stocksvc.TransferInput{
			FromLocationID: from,
			ToLocationID:   to,
			ProductID:      productID,
			Amount:         payload.Amount,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "transferred"})
	}
}

func LowStock(svc stocksvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		locationID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		threshold, err := validators.ParseQueryInt(r, "threshold", 0, 1, 1_000_000)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if threshold == 0 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "query parameter threshold is required"))
			return
		}

		entries, err := svc.LowStock(r.Context(), locationID, threshold)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, entries)
	}
}

func stockPathIDs(r *http.Request) (uuid.UUID, uuid.UUID, error) {
	locationID, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	productID, err := validators.ParsePathUUID(chi.URLParam(r, "productID"), "productID")
	if err != nil {
		return uuid.Nil, uuid.Nil, err
	}
	return locationID, productID, nil
}

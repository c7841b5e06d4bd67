package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/prachya-dev/saithong-backend/api/responses"
	"github.com/prachya-dev/saithong-backend/api/validators"
	checkoutsvc "github.com/prachya-dev/saithong-backend/internal/checkout"
	stocksvc "github.com/prachya-dev/saithong-backend/internal/stock"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
	"github.com/prachya-dev/saithong-backend/pkg/logger"
)

type checkoutLineRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity" validate:"required,min=1"`
}

type resolvePlacementRequest struct {
	CustomerID       string                `json:"customer_id,omitempty" validate:"omitempty,uuid"`
	CustomerProvince string                `json:"customer_province,omitempty"`
	Items            []checkoutLineRequest `json:"items" validate:"required,min=1,dive"`
	ChosenLocationID *string               `json:"chosen_location_id,omitempty" validate:"omitempty,uuid"`
}

type commitPlacementRequest struct {
	Mode       string                `json:"mode" validate:"required"`
	LocationID string                `json:"location_id" validate:"required,uuid"`
	Items      []checkoutLineRequest `json:"items" validate:"required,min=1,dive"`
}

func ResolvePlacement(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload resolvePlacementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input := checkoutsvc.ResolveInput{
			CustomerProvince: strings.TrimSpace(payload.CustomerProvince),
		}
		if payload.CustomerID != "" {
			customerID, err := uuid.Parse(payload.CustomerID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
				return
			}
			input.CustomerID = customerID
		}
		if payload.ChosenLocationID != nil {
			chosenID, err := uuid.Parse(*payload.ChosenLocationID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid chosen location id"))
				return
			}
			input.ChosenLocationID = &chosenID
		}

		items, err := toStockLines(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		input.Items = items

		placement, err := svc.Resolve(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, placement)
	}
}

// CommitPlacement is the authoritative debit: a placement quote is only
// advisory until this endpoint re-validates stock under the ledger's
// transaction.
func CommitPlacement(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload commitPlacementRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		mode, err := enums.ParsePlacementMode(strings.TrimSpace(payload.Mode))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid mode"))
			return
		}
		locationID, err := uuid.Parse(payload.LocationID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid location id"))
			return
		}
		items, err := toStockLines(payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		placement := &checkoutsvc.Placement{Mode: mode}
		switch mode {
		case enums.PlacementModeInStore:
			placement.BoundLocationID = &locationID
		case enums.PlacementModeOnline:
			placement.DeliveryLocationID = &locationID
		}

		if err := svc.Commit(r.Context(), placement, items); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "committed"})
	}
}

func toStockLines(items []checkoutLineRequest) ([]stocksvc.Line, error) {
	lines := make([]stocksvc.Line, 0, len(items))
	for _, item := range items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
		lines = append(lines, stocksvc.Line{ProductID: productID, Quantity: item.Quantity})
	}
	return lines, nil
}

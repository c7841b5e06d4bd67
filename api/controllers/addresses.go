package controllers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/prachya-dev/saithong-backend/api/responses"
	"github.com/prachya-dev/saithong-backend/api/validators"
	"github.com/prachya-dev/saithong-backend/internal/address"
	checkoutsvc "github.com/prachya-dev/saithong-backend/internal/checkout"
	"github.com/prachya-dev/saithong-backend/pkg/db/models"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
	"github.com/prachya-dev/saithong-backend/pkg/logger"
)

type createAddressRequest struct {
	CustomerID    string `json:"customer_id" validate:"required,uuid"`
	Line1         string `json:"line1" validate:"required"`
	SubDistrictID int    `json:"sub_district_id" validate:"required"`
	PostalCode    string `json:"postal_code" validate:"required,len=5"`
	Phone         string `json:"phone,omitempty"`
}

// CreateAddress accepts a leaf sub-district id and derives the full hierarchy
// from the geo index, so a stored address can never hold an inconsistent
// province/district/sub-district triple.
func CreateAddress(svc checkoutsvc.Service, resolver *address.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createAddressRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		customerID, err := uuid.Parse(payload.CustomerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id"))
			return
		}

		leaf, ok := resolver.Index().SubDistrict(payload.SubDistrictID)
		if !ok {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "unknown sub-district").
					WithDetails(map[string]any{"sub_district_id": payload.SubDistrictID}))
			return
		}
		if leaf.PostalCode != strings.TrimSpace(payload.PostalCode) {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "postal code does not match sub-district").
					WithDetails(map[string]any{"expected": leaf.PostalCode}))
			return
		}

		created, err := svc.CreateAddress(r.Context(), &models.DeliveryAddress{
			CustomerID:    customerID,
			Line1:         strings.TrimSpace(payload.Line1),
			ProvinceID:    leaf.ProvinceID,
			DistrictID:    leaf.DistrictID,
			SubDistrictID: leaf.ID,
			Province:      leaf.ProvinceNameTH,
			District:      leaf.DistrictNameTH,
			SubDistrict:   leaf.NameTH,
			PostalCode:    leaf.PostalCode,
			Phone:         strings.TrimSpace(payload.Phone),
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, created)
	}
}

func ListAddresses(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, err := validators.ParseQueryUUID(r, "customer_id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if customerID == uuid.Nil {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "query parameter customer_id is required"))
			return
		}

		addresses, err := svc.ListAddresses(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, addresses)
	}
}

func DeleteAddress(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		if err := svc.RemoveAddress(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}

package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/prachya-dev/saithong-backend/api/responses"
	"github.com/prachya-dev/saithong-backend/internal/address"
	"github.com/prachya-dev/saithong-backend/internal/geo"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
	"github.com/prachya-dev/saithong-backend/pkg/logger"
)

type provinceResponse struct {
	ID     int    `json:"id"`
	NameTH string `json:"name_th"`
	NameEN string `json:"name_en"`
}

type districtResponse struct {
	ID         int    `json:"id"`
	NameTH     string `json:"name_th"`
	NameEN     string `json:"name_en"`
	ProvinceID int    `json:"province_id"`
	Province   string `json:"province"`
}

type subDistrictResponse struct {
	ID         int    `json:"id"`
	NameTH     string `json:"name_th"`
	NameEN     string `json:"name_en"`
	DistrictID int    `json:"district_id"`
	ProvinceID int    `json:"province_id"`
	PostalCode string `json:"postal_code"`
}

type postalCandidateResponse struct {
	SubDistrictID int    `json:"sub_district_id"`
	DistrictID    int    `json:"district_id"`
	ProvinceID    int    `json:"province_id"`
	SubDistrict   string `json:"sub_district"`
	District      string `json:"district"`
	Province      string `json:"province"`
	PostalCode    string `json:"postal_code"`
}

func GeoProvinces(resolver *address.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, toProvinceResponses(resolver.ListProvinces()))
	}
}

func GeoDistricts(resolver *address.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		provinceID, err := parsePathInt(r, "provinceID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toDistrictResponses(resolver.ListDistricts(provinceID)))
	}
}

func GeoSubDistricts(resolver *address.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		districtID, err := parsePathInt(r, "districtID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, toSubDistrictResponses(resolver.ListSubDistricts(districtID)))
	}
}

func GeoPostalCandidates(resolver *address.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := strings.TrimSpace(chi.URLParam(r, "code"))
		if len(code) != 5 {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "postal code must be 5 digits"))
			return
		}
		responses.WriteSuccess(w, toCandidateResponses(resolver.CandidatesForPostalCode(code)))
	}
}

// GeoSearch matches provinces and districts by partial Thai or Latin name.
// A province_id narrows the district results to that province.
func GeoSearch(resolver *address.Resolver, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := strings.TrimSpace(r.URL.Query().Get("q"))
		if query == "" {
			responses.WriteError(r.Context(), logg, w,
				pkgerrors.New(pkgerrors.CodeValidation, "query parameter q is required"))
			return
		}

		var provinceID *int
		if raw := strings.TrimSpace(r.URL.Query().Get("province_id")); raw != "" {
			id, err := strconv.Atoi(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.New(pkgerrors.CodeValidation, "province_id must be numeric"))
				return
			}
			provinceID = &id
		}

		payload := map[string]any{
			"districts": toDistrictResponses(resolver.SearchDistrict(query, provinceID)),
		}
		if provinceID == nil {
			payload["provinces"] = toProvinceResponses(resolver.SearchProvince(query))
		}
		responses.WriteSuccess(w, payload)
	}
}

func parsePathInt(r *http.Request, key string) (int, error) {
	raw := strings.TrimSpace(chi.URLParam(r, key))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, pkgerrors.New(pkgerrors.CodeValidation, "path parameter must be numeric").
			WithDetails(map[string]any{"field": key})
	}
	return value, nil
}

func toProvinceResponses(provinces []geo.Province) []provinceResponse {
	out := make([]provinceResponse, 0, len(provinces))
	for _, p := range provinces {
		out = append(out, provinceResponse{ID: p.ID, NameTH: p.NameTH, NameEN: p.NameEN})
	}
	return out
}

func toDistrictResponses(districts []geo.District) []districtResponse {
	out := make([]districtResponse, 0, len(districts))
	for _, d := range districts {
		out = append(out, districtResponse{
			ID:         d.ID,
			NameTH:     d.NameTH,
			NameEN:     d.NameEN,
			ProvinceID: d.ProvinceID,
			Province:   d.ProvinceNameTH,
		})
	}
	return out
}

func toSubDistrictResponses(subDistricts []geo.SubDistrict) []subDistrictResponse {
	out := make([]subDistrictResponse, 0, len(subDistricts))
	for _, s := range subDistricts {
		out = append(out, subDistrictResponse{
			ID:         s.ID,
			NameTH:     s.NameTH,
			NameEN:     s.NameEN,
			DistrictID: s.DistrictID,
			ProvinceID: s.ProvinceID,
			PostalCode: s.PostalCode,
		})
	}
	return out
}

func toCandidateResponses(candidates []geo.PostalCandidate) []postalCandidateResponse {
	out := make([]postalCandidateResponse, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, postalCandidateResponse{
			SubDistrictID: c.SubDistrictID,
			DistrictID:    c.DistrictID,
			ProvinceID:    c.ProvinceID,
			SubDistrict:   c.SubDistrictNameTH,
			District:      c.DistrictNameTH,
			Province:      c.ProvinceNameTH,
			PostalCode:    c.PostalCode,
		})
	}
	return out
}

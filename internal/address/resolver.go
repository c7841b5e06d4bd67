package address

import (
	"sort"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/prachya-dev/saithong-backend/internal/geo"
)

// Resolver is the stateless query layer over a built geo index. Sorted views
// are precomputed at construction (the index never changes), so every method
// is a pure read and the resolver can be shared across concurrent callers.
type Resolver struct {
	idx *geo.Index

	sortedProvinces    []geo.Province
	sortedDistricts    map[int][]geo.District
	sortedSubDistricts map[int][]geo.SubDistrict
}

// NewResolver precomputes locale-aware sorted views over the index.
func NewResolver(idx *geo.Index) *Resolver {
	coll := collate.New(language.Thai)

	provinces := idx.Provinces()
	sort.SliceStable(provinces, func(i, j int) bool {
		return coll.CompareString(provinces[i].NameTH, provinces[j].NameTH) < 0
	})

	districtsByProvince := make(map[int][]geo.District, len(provinces))
	subDistrictsByDistrict := make(map[int][]geo.SubDistrict)
	for _, p := range provinces {
		districts := idx.DistrictsOf(p.ID)
		sort.SliceStable(districts, func(i, j int) bool {
			return coll.CompareString(districts[i].NameTH, districts[j].NameTH) < 0
		})
		districtsByProvince[p.ID] = districts

		for _, d := range districts {
			subs := idx.SubDistrictsOf(d.ID)
			sort.SliceStable(subs, func(i, j int) bool {
				return coll.CompareString(subs[i].NameTH, subs[j].NameTH) < 0
			})
			subDistrictsByDistrict[d.ID] = subs
		}
	}

	return &Resolver{
		idx:                idx,
		sortedProvinces:    provinces,
		sortedDistricts:    districtsByProvince,
		sortedSubDistricts: subDistrictsByDistrict,
	}
}

// Index exposes the underlying geo index for ancestry checks.
func (r *Resolver) Index() *geo.Index {
	return r.idx
}

// ListProvinces returns every province sorted by Thai name.
func (r *Resolver) ListProvinces() []geo.Province {
	return r.sortedProvinces
}

// ListDistricts returns the province's districts sorted by Thai name.
// Unknown province ids yield an empty list, not an error.
func (r *Resolver) ListDistricts(provinceID int) []geo.District {
	return r.sortedDistricts[provinceID]
}

// ListSubDistricts returns the district's sub-districts sorted by Thai name.
// Unknown district ids yield an empty list, not an error.
func (r *Resolver) ListSubDistricts(districtID int) []geo.SubDistrict {
	return r.sortedSubDistricts[districtID]
}

// SearchProvince matches the query case-insensitively against both Thai and
// Latin province names.
func (r *Resolver) SearchProvince(query string) []geo.Province {
	query = normalizeQuery(query)
	if query == "" {
		return nil
	}
	var out []geo.Province
	for _, p := range r.sortedProvinces {
		if matches(query, p.NameTH, p.NameEN) {
			out = append(out, p)
		}
	}
	return out
}

// SearchDistrict matches districts by name; a non-nil provinceID restricts
// the search to that province's districts.
func (r *Resolver) SearchDistrict(query string, provinceID *int) []geo.District {
	query = normalizeQuery(query)
	if query == "" {
		return nil
	}

	var out []geo.District
	if provinceID != nil {
		for _, d := range r.sortedDistricts[*provinceID] {
			if matches(query, d.NameTH, d.NameEN) {
				out = append(out, d)
			}
		}
		return out
	}

	for _, p := range r.sortedProvinces {
		for _, d := range r.sortedDistricts[p.ID] {
			if matches(query, d.NameTH, d.NameEN) {
				out = append(out, d)
			}
		}
	}
	return out
}

// CandidatesForPostalCode returns every leaf-with-ancestry entry for the
// code; unknown codes yield an empty list.
func (r *Resolver) CandidatesForPostalCode(code string) []geo.PostalCandidate {
	return r.idx.CandidatesFor(strings.TrimSpace(code))
}

// ValidatePostalCode reports whether at least one candidate exists for the
// code and, when provinceID is non-nil, whether at least one candidate
// belongs to that province.
func (r *Resolver) ValidatePostalCode(code string, provinceID *int) bool {
	candidates := r.CandidatesForPostalCode(code)
	if len(candidates) == 0 {
		return false
	}
	if provinceID == nil {
		return true
	}
	for _, c := range candidates {
		if c.ProvinceID == *provinceID {
			return true
		}
	}
	return false
}

func normalizeQuery(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}

func matches(query string, names ...string) bool {
	for _, name := range names {
		if strings.Contains(strings.ToLower(name), query) {
			return true
		}
	}
	return false
}

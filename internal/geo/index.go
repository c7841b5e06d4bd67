package geo

import (
	"fmt"
	"sort"

	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
)

// Province is a top-level node of the immutable geo index.
type Province struct {
	ID     int
	NameTH string
	NameEN string
}

// District is a second-level node, denormalized with its province name for
// display without a second lookup.
type District struct {
	ID             int
	NameTH         string
	NameEN         string
	ProvinceID     int
	ProvinceNameTH string
}

// SubDistrict is a leaf node. PostalCode is the zero-padded 5-digit string
// form; coordinates may be absent in the source data.
type SubDistrict struct {
	ID             int
	NameTH         string
	NameEN         string
	DistrictID     int
	ProvinceID     int
	PostalCode     string
	DistrictNameTH string
	ProvinceNameTH string
	Latitude       *float64
	Longitude      *float64
}

// PostalCandidate is one leaf-with-ancestry entry for a postal code. A postal
// code is shared by multiple sub-districts, so lookups return a slice.
type PostalCandidate struct {
	SubDistrictID     int
	DistrictID        int
	ProvinceID        int
	SubDistrictNameTH string
	DistrictNameTH    string
	ProvinceNameTH    string
	PostalCode        string
}

// Index is the set of lookup maps built once from the static dataset.
// It is read-only after Build returns and may be shared freely across
// concurrent callers.
type Index struct {
	provinces    map[int]Province
	districts    map[int]District
	subDistricts map[int]SubDistrict

	districtIDsByProvince    map[int][]int
	subDistrictIDsByDistrict map[int][]int
	candidatesByPostalCode   map[string][]PostalCandidate
}

// FormatPostalCode renders the dataset's integer zip as the canonical
// 5-digit string.
func FormatPostalCode(zip int) string {
	return fmt.Sprintf("%05d", zip)
}

// Build validates the nested dataset and assembles the lookup indices.
// Any district or sub-district whose parent id is missing or does not resolve
// fails the whole build: a silently dropped node would corrupt cascading
// selection for every consumer.
func Build(raw []RawProvince) (*Index, error) {
	idx := &Index{
		provinces:                make(map[int]Province, len(raw)),
		districts:                make(map[int]District),
		subDistricts:             make(map[int]SubDistrict),
		districtIDsByProvince:    make(map[int][]int, len(raw)),
		subDistrictIDsByDistrict: make(map[int][]int),
		candidatesByPostalCode:   make(map[string][]PostalCandidate),
	}

	for _, p := range raw {
		if p.ID == 0 {
			return nil, malformed(fmt.Sprintf("province %q has no id", p.NameTH))
		}
		if _, exists := idx.provinces[p.ID]; exists {
			return nil, malformed(fmt.Sprintf("duplicate province id %d", p.ID))
		}
		idx.provinces[p.ID] = Province{ID: p.ID, NameTH: p.NameTH, NameEN: p.NameEN}
	}

	for _, p := range raw {
		for _, d := range p.Districts {
			if d.ID == 0 {
				return nil, malformed(fmt.Sprintf("district %q has no id", d.NameTH))
			}
			if d.ProvinceID == 0 {
				return nil, malformed(fmt.Sprintf("district %d (%s) has no province id", d.ID, d.NameTH))
			}
			parent, ok := idx.provinces[d.ProvinceID]
			if !ok {
				return nil, malformed(fmt.Sprintf("district %d (%s) references unknown province %d", d.ID, d.NameTH, d.ProvinceID))
			}
			if _, exists := idx.districts[d.ID]; exists {
				return nil, malformed(fmt.Sprintf("duplicate district id %d", d.ID))
			}
			idx.districts[d.ID] = District{
				ID:             d.ID,
				NameTH:         d.NameTH,
				NameEN:         d.NameEN,
				ProvinceID:     d.ProvinceID,
				ProvinceNameTH: parent.NameTH,
			}
			idx.districtIDsByProvince[d.ProvinceID] = append(idx.districtIDsByProvince[d.ProvinceID], d.ID)
		}
	}

	for _, p := range raw {
		for _, d := range p.Districts {
			for _, s := range d.SubDistricts {
				if s.ID == 0 {
					return nil, malformed(fmt.Sprintf("sub-district %q has no id", s.NameTH))
				}
				if s.DistrictID == 0 {
					return nil, malformed(fmt.Sprintf("sub-district %d (%s) has no district id", s.ID, s.NameTH))
				}
				parent, ok := idx.districts[s.DistrictID]
				if !ok {
					return nil, malformed(fmt.Sprintf("sub-district %d (%s) references unknown district %d", s.ID, s.NameTH, s.DistrictID))
				}
				if _, exists := idx.subDistricts[s.ID]; exists {
					return nil, malformed(fmt.Sprintf("duplicate sub-district id %d", s.ID))
				}
				code := FormatPostalCode(s.ZipCode)
				idx.subDistricts[s.ID] = SubDistrict{
					ID:             s.ID,
					NameTH:         s.NameTH,
					NameEN:         s.NameEN,
					DistrictID:     s.DistrictID,
					ProvinceID:     parent.ProvinceID,
					PostalCode:     code,
					DistrictNameTH: parent.NameTH,
					ProvinceNameTH: parent.ProvinceNameTH,
					Latitude:       s.Latitude,
					Longitude:      s.Longitude,
				}
				idx.subDistrictIDsByDistrict[s.DistrictID] = append(idx.subDistrictIDsByDistrict[s.DistrictID], s.ID)
				idx.candidatesByPostalCode[code] = append(idx.candidatesByPostalCode[code], PostalCandidate{
					SubDistrictID:     s.ID,
					DistrictID:        s.DistrictID,
					ProvinceID:        parent.ProvinceID,
					SubDistrictNameTH: s.NameTH,
					DistrictNameTH:    parent.NameTH,
					ProvinceNameTH:    parent.ProvinceNameTH,
					PostalCode:        code,
				})
			}
		}
	}

	// Candidates are ordered by sub-district id so reverse lookups have a
	// deterministic first winner.
	for code := range idx.candidatesByPostalCode {
		list := idx.candidatesByPostalCode[code]
		sort.Slice(list, func(i, j int) bool {
			return list[i].SubDistrictID < list[j].SubDistrictID
		})
		idx.candidatesByPostalCode[code] = list
	}

	return idx, nil
}

func malformed(detail string) error {
	return pkgerrors.New(pkgerrors.CodeMalformedHierarchy, "geo dataset is malformed").
		WithDetails(map[string]any{"node": detail})
}

// Province returns the province with the given id.
func (i *Index) Province(id int) (Province, bool) {
	p, ok := i.provinces[id]
	return p, ok
}

// District returns the district with the given id.
func (i *Index) District(id int) (District, bool) {
	d, ok := i.districts[id]
	return d, ok
}

// SubDistrict returns the sub-district with the given id.
func (i *Index) SubDistrict(id int) (SubDistrict, bool) {
	s, ok := i.subDistricts[id]
	return s, ok
}

// Provinces returns every province, in unspecified order.
func (i *Index) Provinces() []Province {
	out := make([]Province, 0, len(i.provinces))
	for _, p := range i.provinces {
		out = append(out, p)
	}
	return out
}

// DistrictsOf returns the districts belonging to the province, in unspecified
// order. Unknown province ids yield an empty slice.
func (i *Index) DistrictsOf(provinceID int) []District {
	ids := i.districtIDsByProvince[provinceID]
	out := make([]District, 0, len(ids))
	for _, id := range ids {
		out = append(out, i.districts[id])
	}
	return out
}

// SubDistrictsOf returns the sub-districts belonging to the district, in
// unspecified order. Unknown district ids yield an empty slice.
func (i *Index) SubDistrictsOf(districtID int) []SubDistrict {
	ids := i.subDistrictIDsByDistrict[districtID]
	out := make([]SubDistrict, 0, len(ids))
	for _, id := range ids {
		out = append(out, i.subDistricts[id])
	}
	return out
}

// CandidatesFor returns the leaf-with-ancestry entries for a postal code,
// ordered by sub-district id. Unknown codes yield an empty slice.
func (i *Index) CandidatesFor(postalCode string) []PostalCandidate {
	return i.candidatesByPostalCode[postalCode]
}

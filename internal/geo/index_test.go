package geo

import (
	"testing"

	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
)

func testDataset() []RawProvince {
	lat := 13.84
	lng := 100.56
	return []RawProvince{
		{
			ID: 1, NameTH: "กรุงเทพมหานคร", NameEN: "Bangkok",
			Districts: []RawDistrict{
				{
					ID: 10, NameTH: "จตุจักร", NameEN: "Chatuchak", ProvinceID: 1,
					SubDistricts: []RawSubDistrict{
						{ID: 100, NameTH: "ลาดยาว", NameEN: "Lat Yao", DistrictID: 10, ZipCode: 10900, Latitude: &lat, Longitude: &lng},
						{ID: 101, NameTH: "จอมพล", NameEN: "Chom Phon", DistrictID: 10, ZipCode: 10900},
					},
				},
				{
					ID: 11, NameTH: "บางรัก", NameEN: "Bang Rak", ProvinceID: 1,
					SubDistricts: []RawSubDistrict{
						{ID: 110, NameTH: "สีลม", NameEN: "Si Lom", DistrictID: 11, ZipCode: 10500},
					},
				},
			},
		},
		{
			ID: 2, NameTH: "เชียงใหม่", NameEN: "Chiang Mai",
			Districts: []RawDistrict{
				{
					ID: 20, NameTH: "เมืองเชียงใหม่", NameEN: "Mueang Chiang Mai", ProvinceID: 2,
					SubDistricts: []RawSubDistrict{
						{ID: 200, NameTH: "ศรีภูมิ", NameEN: "Si Phum", DistrictID: 20, ZipCode: 50200},
					},
				},
			},
		},
	}
}

func TestBuildIndexesAllLevels(t *testing.T) {
	idx, err := Build(testDataset())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	p, ok := idx.Province(1)
	if !ok || p.NameEN != "Bangkok" {
		t.Fatalf("expected Bangkok province, got %+v (ok=%v)", p, ok)
	}

	d, ok := idx.District(10)
	if !ok {
		t.Fatal("expected district 10")
	}
	if d.ProvinceNameTH != "กรุงเทพมหานคร" {
		t.Fatalf("expected denormalized province name, got %q", d.ProvinceNameTH)
	}

	s, ok := idx.SubDistrict(100)
	if !ok {
		t.Fatal("expected sub-district 100")
	}
	if s.PostalCode != "10900" {
		t.Fatalf("expected postal code 10900, got %q", s.PostalCode)
	}
	if s.ProvinceID != 1 || s.DistrictNameTH != "จตุจักร" {
		t.Fatalf("unexpected ancestry %+v", s)
	}
	if s.Latitude == nil || *s.Latitude != 13.84 {
		t.Fatalf("expected coordinates to survive, got %+v", s.Latitude)
	}
}

func TestBuildSharedPostalCodeKeepsAllCandidates(t *testing.T) {
	idx, err := Build(testDataset())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	candidates := idx.CandidatesFor("10900")
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates for shared code, got %d", len(candidates))
	}
	// Deterministic order: ascending sub-district id.
	if candidates[0].SubDistrictID != 100 || candidates[1].SubDistrictID != 101 {
		t.Fatalf("unexpected candidate order %+v", candidates)
	}

	if got := idx.CandidatesFor("99999"); len(got) != 0 {
		t.Fatalf("expected no candidates for unknown code, got %d", len(got))
	}
}

func TestBuildHierarchyConsistency(t *testing.T) {
	idx, err := Build(testDataset())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	for _, d := range []int{10, 11, 20} {
		district, _ := idx.District(d)
		found := false
		for _, candidate := range idx.DistrictsOf(district.ProvinceID) {
			if candidate.ID == d {
				found = true
			}
		}
		if !found {
			t.Fatalf("district %d missing from DistrictsOf(%d)", d, district.ProvinceID)
		}
	}

	for _, s := range []int{100, 101, 110, 200} {
		sub, _ := idx.SubDistrict(s)
		found := false
		for _, candidate := range idx.SubDistrictsOf(sub.DistrictID) {
			if candidate.ID == s {
				found = true
			}
		}
		if !found {
			t.Fatalf("sub-district %d missing from SubDistrictsOf(%d)", s, sub.DistrictID)
		}
	}
}

func TestBuildRejectsUnresolvedDistrictParent(t *testing.T) {
	raw := testDataset()
	raw[0].Districts[0].ProvinceID = 99

	_, err := Build(raw)
	if err == nil {
		t.Fatal("expected malformed hierarchy error")
	}
	if !pkgerrors.HasCode(err, pkgerrors.CodeMalformedHierarchy) {
		t.Fatalf("expected malformed hierarchy code, got %v", err)
	}
}

func TestBuildRejectsMissingSubDistrictParent(t *testing.T) {
	raw := testDataset()
	raw[0].Districts[0].SubDistricts[0].DistrictID = 0

	_, err := Build(raw)
	if !pkgerrors.HasCode(err, pkgerrors.CodeMalformedHierarchy) {
		t.Fatalf("expected malformed hierarchy code, got %v", err)
	}
}

func TestBuildRejectsDuplicateIDs(t *testing.T) {
	raw := testDataset()
	raw[1].ID = 1

	_, err := Build(raw)
	if !pkgerrors.HasCode(err, pkgerrors.CodeMalformedHierarchy) {
		t.Fatalf("expected malformed hierarchy code, got %v", err)
	}
}

func TestFormatPostalCodePadsToFiveDigits(t *testing.T) {
	if got := FormatPostalCode(900); got != "00900" {
		t.Fatalf("expected 00900, got %q", got)
	}
	if got := FormatPostalCode(10900); got != "10900" {
		t.Fatalf("expected 10900, got %q", got)
	}
}

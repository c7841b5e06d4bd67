package address

import (
	"testing"

	"github.com/prachya-dev/saithong-backend/internal/geo"
)

func testIndex(t *testing.T) *geo.Index {
	t.Helper()
	idx, err := geo.Build([]geo.RawProvince{
		{
			ID: 1, NameTH: "กรุงเทพมหานคร", NameEN: "Bangkok",
			Districts: []geo.RawDistrict{
				{
					ID: 10, NameTH: "จตุจักร", NameEN: "Chatuchak", ProvinceID: 1,
					SubDistricts: []geo.RawSubDistrict{
						{ID: 100, NameTH: "ลาดยาว", NameEN: "Lat Yao", DistrictID: 10, ZipCode: 10900},
						{ID: 101, NameTH: "จอมพล", NameEN: "Chom Phon", DistrictID: 10, ZipCode: 10900},
					},
				},
				{
					ID: 11, NameTH: "บางรัก", NameEN: "Bang Rak", ProvinceID: 1,
					SubDistricts: []geo.RawSubDistrict{
						{ID: 110, NameTH: "สีลม", NameEN: "Si Lom", DistrictID: 11, ZipCode: 10500},
					},
				},
			},
		},
		{
			ID: 2, NameTH: "เชียงใหม่", NameEN: "Chiang Mai",
			Districts: []geo.RawDistrict{
				{
					ID: 20, NameTH: "เมืองเชียงใหม่", NameEN: "Mueang Chiang Mai", ProvinceID: 2,
					SubDistricts: []geo.RawSubDistrict{
						{ID: 200, NameTH: "ศรีภูมิ", NameEN: "Si Phum", DistrictID: 20, ZipCode: 50200},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatalf("build index: %v", err)
	}
	return idx
}

func TestListProvincesSorted(t *testing.T) {
	r := NewResolver(testIndex(t))

	provinces := r.ListProvinces()
	if len(provinces) != 2 {
		t.Fatalf("expected 2 provinces, got %d", len(provinces))
	}
	// Thai collation: กรุงเทพมหานคร sorts before เชียงใหม่.
	if provinces[0].ID != 1 || provinces[1].ID != 2 {
		t.Fatalf("unexpected order: %+v", provinces)
	}
}

func TestListDistrictsUnknownProvinceIsEmpty(t *testing.T) {
	r := NewResolver(testIndex(t))

	if got := r.ListDistricts(999); len(got) != 0 {
		t.Fatalf("expected empty list for unknown province, got %d", len(got))
	}
	if got := r.ListSubDistricts(999); len(got) != 0 {
		t.Fatalf("expected empty list for unknown district, got %d", len(got))
	}
}

func TestSearchProvinceMatchesBothScripts(t *testing.T) {
	r := NewResolver(testIndex(t))

	if got := r.SearchProvince("bangk"); len(got) != 1 || got[0].ID != 1 {
		t.Fatalf("latin search failed: %+v", got)
	}
	if got := r.SearchProvince("เชียง"); len(got) != 1 || got[0].ID != 2 {
		t.Fatalf("thai search failed: %+v", got)
	}
	if got := r.SearchProvince("BANGKOK"); len(got) != 1 {
		t.Fatalf("search should be case-insensitive: %+v", got)
	}
	if got := r.SearchProvince("  "); got != nil {
		t.Fatalf("blank query should return nothing, got %+v", got)
	}
}

func TestSearchDistrictScopedToProvince(t *testing.T) {
	r := NewResolver(testIndex(t))

	all := r.SearchDistrict("mueang", nil)
	if len(all) != 1 || all[0].ID != 20 {
		t.Fatalf("unscoped search failed: %+v", all)
	}

	bangkok := 1
	scoped := r.SearchDistrict("chat", &bangkok)
	if len(scoped) != 1 || scoped[0].ID != 10 {
		t.Fatalf("scoped search failed: %+v", scoped)
	}

	chiangMai := 2
	if got := r.SearchDistrict("chat", &chiangMai); len(got) != 0 {
		t.Fatalf("expected no match outside province, got %+v", got)
	}
}

func TestCandidatesForPostalCode(t *testing.T) {
	r := NewResolver(testIndex(t))

	candidates := r.CandidatesForPostalCode("10900")
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ProvinceNameTH != "กรุงเทพมหานคร" {
		t.Fatalf("expected ancestry names on candidates, got %+v", candidates[0])
	}

	if got := r.CandidatesForPostalCode("11111"); len(got) != 0 {
		t.Fatalf("unknown code should yield empty list, got %d", len(got))
	}
}

func TestValidatePostalCode(t *testing.T) {
	r := NewResolver(testIndex(t))

	if !r.ValidatePostalCode("10500", nil) {
		t.Fatal("expected 10500 to validate without constraint")
	}

	bangkok := 1
	if !r.ValidatePostalCode("10500", &bangkok) {
		t.Fatal("expected 10500 to validate for Bangkok")
	}

	chiangMai := 2
	if r.ValidatePostalCode("10500", &chiangMai) {
		t.Fatal("10500 must not validate for Chiang Mai")
	}

	if r.ValidatePostalCode("99999", nil) {
		t.Fatal("unknown code must not validate")
	}
}

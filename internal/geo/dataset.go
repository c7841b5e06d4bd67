package geo

import (
	"encoding/json"
	"fmt"
	"os"
)

// RawProvince mirrors one top-level node of the static geography dataset:
// provinces embedding districts embedding sub-districts. The file is loaded
// once at process start and never re-read.
type RawProvince struct {
	ID        int           `json:"id"`
	NameTH    string        `json:"name_th"`
	NameEN    string        `json:"name_en"`
	Districts []RawDistrict `json:"districts"`
}

// RawDistrict carries an explicit parent id alongside its nesting so a
// corrupted export (node filed under the wrong province) is detectable.
type RawDistrict struct {
	ID           int              `json:"id"`
	NameTH       string           `json:"name_th"`
	NameEN       string           `json:"name_en"`
	ProvinceID   int              `json:"province_id"`
	SubDistricts []RawSubDistrict `json:"sub_districts"`
}

type RawSubDistrict struct {
	ID         int      `json:"id"`
	NameTH     string   `json:"name_th"`
	NameEN     string   `json:"name_en"`
	DistrictID int      `json:"district_id"`
	ZipCode    int      `json:"zip_code"`
	Latitude   *float64 `json:"latitude,omitempty"`
	Longitude  *float64 `json:"longitude,omitempty"`
}

// LoadFile reads the nested dataset from disk.
func LoadFile(path string) ([]RawProvince, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading geo dataset %s: %w", path, err)
	}
	var provinces []RawProvince
	if err := json.Unmarshal(data, &provinces); err != nil {
		return nil, fmt.Errorf("parsing geo dataset %s: %w", path, err)
	}
	return provinces, nil
}

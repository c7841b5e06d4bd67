package enums

import "fmt"

// LocationType classifies a physical or logical stock-holding place.
type LocationType string

const (
	LocationTypeStore     LocationType = "STORE"
	LocationTypeWarehouse LocationType = "WAREHOUSE"
	LocationTypeIOTPoint  LocationType = "IOT_POINT"
)

var validLocationTypes = []LocationType{
	LocationTypeStore,
	LocationTypeWarehouse,
	LocationTypeIOTPoint,
}

// String implements fmt.Stringer.
func (l LocationType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LocationType.
func (l LocationType) IsValid() bool {
	for _, candidate := range validLocationTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// AllowsPickup reports whether a customer may choose the location for an
// in-store order. Warehouses never front customers.
func (l LocationType) AllowsPickup() bool {
	return l == LocationTypeStore || l == LocationTypeIOTPoint
}

// ParseLocationType converts raw input into a LocationType.
func ParseLocationType(value string) (LocationType, error) {
	for _, candidate := range validLocationTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location type %q", value)
}

// LocationStatus tracks whether a location participates in fulfillment.
type LocationStatus string

const (
	LocationStatusActive   LocationStatus = "Active"
	LocationStatusInactive LocationStatus = "Inactive"
)

var validLocationStatuses = []LocationStatus{
	LocationStatusActive,
	LocationStatusInactive,
}

// String implements fmt.Stringer.
func (l LocationStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LocationStatus.
func (l LocationStatus) IsValid() bool {
	for _, candidate := range validLocationStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLocationStatus converts raw input into a LocationStatus.
func ParseLocationStatus(value string) (LocationStatus, error) {
	for _, candidate := range validLocationStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid location status %q", value)
}

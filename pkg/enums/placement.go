package enums

import "fmt"

// PlacementMode records how checkout bound an order to stock.
type PlacementMode string

const (
	PlacementModeInStore PlacementMode = "IN_STORE"
	PlacementModeOnline  PlacementMode = "ONLINE"
)

var validPlacementModes = []PlacementMode{
	PlacementModeInStore,
	PlacementModeOnline,
}

// String implements fmt.Stringer.
func (p PlacementMode) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PlacementMode.
func (p PlacementMode) IsValid() bool {
	for _, candidate := range validPlacementModes {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePlacementMode converts raw input into a PlacementMode.
func ParsePlacementMode(value string) (PlacementMode, error) {
	for _, candidate := range validPlacementModes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid placement mode %q", value)
}

// ShippingTier is the coarse fee/ETA bucket derived from whether the stock
// source and the delivery destination share a province.
type ShippingTier string

const (
	ShippingTierFast     ShippingTier = "FAST"
	ShippingTierStandard ShippingTier = "STANDARD"
)

var validShippingTiers = []ShippingTier{
	ShippingTierFast,
	ShippingTierStandard,
}

// String implements fmt.Stringer.
func (s ShippingTier) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ShippingTier.
func (s ShippingTier) IsValid() bool {
	for _, candidate := range validShippingTiers {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseShippingTier converts raw input into a ShippingTier.
func ParseShippingTier(value string) (ShippingTier, error) {
	for _, candidate := range validShippingTiers {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid shipping tier %q", value)
}

// Package selection implements the cascading address-entry state machine.
// The transition rules live in a pure function over AddressSelection so the
// invalidation logic is testable without any form harness; Controller is the
// thin stateful adapter a single address-entry session owns.
package selection

import (
	"fmt"
	"strings"

	"github.com/prachya-dev/saithong-backend/internal/address"
)

// AddressSelection is the partial selection one address-entry interaction
// holds. A child field never carries a value inconsistent with its parent.
type AddressSelection struct {
	ProvinceID    *int
	DistrictID    *int
	SubDistrictID *int
	PostalCode    *string
}

// Event is one user-driven transition.
type Event interface {
	isEvent()
}

// SetProvince selects a province, cascading invalidation downward.
type SetProvince struct {
	ID int
}

// SetDistrict selects a district; rejected unless it belongs to the current
// province.
type SetDistrict struct {
	ID int
}

// SetSubDistrict selects a leaf; rejected unless it belongs to the current
// district. On success the postal code is derived from the leaf.
type SetSubDistrict struct {
	ID int
}

// TypePostalCode feeds manually typed postal-code text. Only digits are
// kept, truncated to five; a complete valid code reverse-fills the hierarchy
// when no province is selected yet.
type TypePostalCode struct {
	Text string
}

func (SetProvince) isEvent()    {}
func (SetDistrict) isEvent()    {}
func (SetSubDistrict) isEvent() {}
func (TypePostalCode) isEvent() {}

// Rejection describes why a transition was a no-op. It is a diagnostic, not
// an error: the selection stays at its last consistent state and the form
// keeps working.
type Rejection struct {
	Reason string
}

const maxPostalDigits = 5

// Apply runs one transition against the selection and returns the resulting
// state. A non-nil Rejection means no state change occurred.
func Apply(resolver *address.Resolver, sel AddressSelection, ev Event) (AddressSelection, *Rejection) {
	switch e := ev.(type) {
	case SetProvince:
		return applyProvince(resolver, sel, e.ID)
	case SetDistrict:
		return applyDistrict(resolver, sel, e.ID)
	case SetSubDistrict:
		return applySubDistrict(resolver, sel, e.ID)
	case TypePostalCode:
		return applyPostalText(resolver, sel, e.Text), nil
	default:
		return sel, &Rejection{Reason: fmt.Sprintf("unknown event %T", ev)}
	}
}

func applyProvince(resolver *address.Resolver, sel AddressSelection, id int) (AddressSelection, *Rejection) {
	if _, ok := resolver.Index().Province(id); !ok {
		return sel, &Rejection{Reason: fmt.Sprintf("unknown province %d", id)}
	}

	sel.ProvinceID = &id

	if sel.DistrictID != nil {
		district, ok := resolver.Index().District(*sel.DistrictID)
		if !ok || district.ProvinceID != id {
			sel.DistrictID = nil
			sel.SubDistrictID = nil
			sel.PostalCode = nil
		}
	}
	return sel, nil
}

func applyDistrict(resolver *address.Resolver, sel AddressSelection, id int) (AddressSelection, *Rejection) {
	district, ok := resolver.Index().District(id)
	if !ok {
		return sel, &Rejection{Reason: fmt.Sprintf("unknown district %d", id)}
	}
	if sel.ProvinceID == nil || district.ProvinceID != *sel.ProvinceID {
		return sel, &Rejection{Reason: fmt.Sprintf("district %d does not belong to selected province", id)}
	}

	sel.DistrictID = &id

	if sel.SubDistrictID != nil {
		sub, ok := resolver.Index().SubDistrict(*sel.SubDistrictID)
		if !ok || sub.DistrictID != id {
			sel.SubDistrictID = nil
			sel.PostalCode = nil
		}
	}
	return sel, nil
}

func applySubDistrict(resolver *address.Resolver, sel AddressSelection, id int) (AddressSelection, *Rejection) {
	sub, ok := resolver.Index().SubDistrict(id)
	if !ok {
		return sel, &Rejection{Reason: fmt.Sprintf("unknown sub-district %d", id)}
	}
	if sel.DistrictID == nil || sub.DistrictID != *sel.DistrictID {
		return sel, &Rejection{Reason: fmt.Sprintf("sub-district %d does not belong to selected district", id)}
	}

	sel.SubDistrictID = &id
	// Derived code overwrites any manually typed value.
	code := sub.PostalCode
	sel.PostalCode = &code
	return sel, nil
}

func applyPostalText(resolver *address.Resolver, sel AddressSelection, text string) AddressSelection {
	digits := keepDigits(text)
	if len(digits) > maxPostalDigits {
		digits = digits[:maxPostalDigits]
	}
	sel.PostalCode = &digits

	if len(digits) < maxPostalDigits {
		return sel
	}

	candidates := resolver.CandidatesForPostalCode(digits)
	if len(candidates) == 0 || sel.ProvinceID != nil {
		return sel
	}

	// Best-effort reverse fill: ambiguity resolves to the first candidate
	// (lowest sub-district id), never an error.
	first := candidates[0]
	sel.ProvinceID = &first.ProvinceID
	sel.DistrictID = &first.DistrictID
	sel.SubDistrictID = &first.SubDistrictID
	return sel
}

func keepDigits(text string) string {
	var b strings.Builder
	for _, r := range text {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

package selection

import (
	"github.com/prachya-dev/saithong-backend/internal/address"
)

// Controller owns the AddressSelection for one address-entry session. It is
// not safe for sharing across concurrent sessions; each form instance gets
// its own controller.
type Controller struct {
	resolver *address.Resolver
	current  AddressSelection
	emit     func(AddressSelection)
}

// NewController seeds a controller, optionally from a stored address. The
// emit callback receives the post-invalidation selection after every
// transition, including rejected ones.
func NewController(resolver *address.Resolver, seed AddressSelection, emit func(AddressSelection)) *Controller {
	if emit == nil {
		emit = func(AddressSelection) {}
	}
	return &Controller{
		resolver: resolver,
		current:  seed,
		emit:     emit,
	}
}

// Selection returns the current consistent state.
func (c *Controller) Selection() AddressSelection {
	return c.current
}

// SetProvince applies a province change. A non-nil Rejection means the
// selection was left untouched.
func (c *Controller) SetProvince(id int) *Rejection {
	return c.apply(SetProvince{ID: id})
}

// SetDistrict applies a district change.
func (c *Controller) SetDistrict(id int) *Rejection {
	return c.apply(SetDistrict{ID: id})
}

// SetSubDistrict applies a leaf change, deriving the postal code.
func (c *Controller) SetSubDistrict(id int) *Rejection {
	return c.apply(SetSubDistrict{ID: id})
}

// SetPostalCodeManually feeds typed postal-code text.
func (c *Controller) SetPostalCodeManually(text string) *Rejection {
	return c.apply(TypePostalCode{Text: text})
}

func (c *Controller) apply(ev Event) *Rejection {
	next, rejection := Apply(c.resolver, c.current, ev)
	if rejection == nil {
		c.current = next
	}
	c.emit(c.current)
	return rejection
}

package checkout

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prachya-dev/saithong-backend/pkg/config"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
)

// ShippingQuote is the flat fee and coarse ETA window attached to one tier.
type ShippingQuote struct {
	Tier    enums.ShippingTier
	Fee     decimal.Decimal
	ETAFrom time.Duration
	ETATo   time.Duration
}

// shippingTable maps both tiers to their quotes. It is a pure configuration
// lookup: once built it cannot fail, so quoting is never a transient fault
// and never masks a no-stock condition.
type shippingTable struct {
	fast     ShippingQuote
	standard ShippingQuote
}

func newShippingTable(cfg config.ShippingConfig) (*shippingTable, error) {
	sameFee, err := decimal.NewFromString(cfg.SameProvinceFee)
	if err != nil {
		return nil, fmt.Errorf("parsing same-province fee %q: %w", cfg.SameProvinceFee, err)
	}
	crossFee, err := decimal.NewFromString(cfg.CrossProvinceFee)
	if err != nil {
		return nil, fmt.Errorf("parsing cross-province fee %q: %w", cfg.CrossProvinceFee, err)
	}
	if sameFee.IsNegative() || crossFee.IsNegative() {
		return nil, fmt.Errorf("shipping fees must not be negative")
	}

	return &shippingTable{
		fast: ShippingQuote{
			Tier:    enums.ShippingTierFast,
			Fee:     sameFee,
			ETAFrom: cfg.SameProvinceETAFrom,
			ETATo:   cfg.SameProvinceETATo,
		},
		standard: ShippingQuote{
			Tier:    enums.ShippingTierStandard,
			Fee:     crossFee,
			ETAFrom: cfg.CrossProvinceETAFrom,
			ETATo:   cfg.CrossProvinceETATo,
		},
	}, nil
}

// QuoteFor picks the tier from whether the stock source and the delivery
// destination share a province.
func (t *shippingTable) QuoteFor(sourceProvince, destinationProvince string) ShippingQuote {
	if sourceProvince != "" && sourceProvince == destinationProvince {
		return t.fast
	}
	return t.standard
}

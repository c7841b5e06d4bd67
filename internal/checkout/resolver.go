package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/prachya-dev/saithong-backend/internal/locations"
	"github.com/prachya-dev/saithong-backend/internal/stock"
	"github.com/prachya-dev/saithong-backend/pkg/config"
	"github.com/prachya-dev/saithong-backend/pkg/db/models"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
	"github.com/prachya-dev/saithong-backend/pkg/metrics"
)

// ResolveInput carries one checkout attempt.
type ResolveInput struct {
	CustomerID       uuid.UUID
	CustomerProvince string
	Items            []stock.Line
	ChosenLocationID *uuid.UUID
}

// Placement is the resolver's decision for one checkout attempt. It is
// derived from current ledger state and never persisted on its own; the
// order-creation step re-validates stock through Commit.
type Placement struct {
	Mode               enums.PlacementMode `json:"mode"`
	BoundLocationID    *uuid.UUID          `json:"bound_location_id,omitempty"`
	DeliveryLocationID *uuid.UUID          `json:"delivery_location_id,omitempty"`
	DeliveryAddressID  *uuid.UUID          `json:"delivery_address_id,omitempty"`
	DeliveryProvince   string              `json:"delivery_province,omitempty"`
	ShippingTier       enums.ShippingTier  `json:"shipping_tier"`
	ShippingFee        decimal.Decimal     `json:"shipping_fee"`
	ETAFrom            time.Duration       `json:"eta_from"`
	ETATo              time.Duration       `json:"eta_to"`
	StockWarnings      []stock.Shortfall   `json:"stock_warnings,omitempty"`
}

// Service decides between in-store and online placement for a cart.
type Service interface {
	Resolve(ctx context.Context, input ResolveInput) (*Placement, error)
	Commit(ctx context.Context, placement *Placement, items []stock.Line) error
	CreateAddress(ctx context.Context, address *models.DeliveryAddress) (*models.DeliveryAddress, error)
	ListAddresses(ctx context.Context, customerID uuid.UUID) ([]models.DeliveryAddress, error)
	RemoveAddress(ctx context.Context, id uuid.UUID) error
}

type service struct {
	locations locations.Service
	stock     stock.Service
	addresses AddressRepository
	shipping  *shippingTable
	metrics   *metrics.StockMetrics
}

// NewService wires the checkout resolver. Metrics may be nil.
func NewService(loc locations.Service, stk stock.Service, addresses AddressRepository, cfg config.ShippingConfig, m *metrics.StockMetrics) (Service, error) {
	if loc == nil {
		return nil, fmt.Errorf("locations service required")
	}
	if stk == nil {
		return nil, fmt.Errorf("stock service required")
	}
	if addresses == nil {
		return nil, fmt.Errorf("address repository required")
	}
	table, err := newShippingTable(cfg)
	if err != nil {
		return nil, fmt.Errorf("building shipping table: %w", err)
	}
	return &service{
		locations: loc,
		stock:     stk,
		addresses: addresses,
		shipping:  table,
		metrics:   m,
	}, nil
}

func (s *service) Resolve(ctx context.Context, input ResolveInput) (*Placement, error) {
	started := time.Now()
	if len(input.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "checkout requires at least one line item")
	}
	for _, item := range input.Items {
		if item.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "line item quantity must be positive").
				WithDetails(map[string]any{"product_id": item.ProductID, "quantity": item.Quantity})
		}
	}

	var (
		placement *Placement
		err       error
	)
	if input.ChosenLocationID != nil {
		placement, err = s.resolveInStore(ctx, input)
	} else {
		placement, err = s.resolveOnline(ctx, input)
	}
	if err != nil {
		return nil, err
	}

	s.metrics.ObserveResolution(placement.Mode.String(), time.Since(started))
	return placement, nil
}

// resolveInStore binds the order to the customer's chosen location. Stock is
// checked but insufficiency only warns: quantities are authoritative at
// commit time, not at quote time.
func (s *service) resolveInStore(ctx context.Context, input ResolveInput) (*Placement, error) {
	location, err := s.locations.Get(ctx, *input.ChosenLocationID)
	if err != nil {
		return nil, err
	}
	if !location.Type.AllowsPickup() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "chosen location does not accept customer pickup").
			WithDetails(map[string]any{"location_id": location.ID, "type": location.Type.String()})
	}
	if location.Status != enums.LocationStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "chosen location is not active").
			WithDetails(map[string]any{"location_id": location.ID})
	}

	warnings, err := s.stock.Check(ctx, location.ID, input.Items)
	if err != nil {
		return nil, err
	}

	quote := s.shipping.QuoteFor(location.Province, input.CustomerProvince)
	boundID := location.ID
	return &Placement{
		Mode:            enums.PlacementModeInStore,
		BoundLocationID: &boundID,
		ShippingTier:    quote.Tier,
		ShippingFee:     quote.Fee,
		ETAFrom:         quote.ETAFrom,
		ETATo:           quote.ETATo,
		StockWarnings:   warnings,
	}, nil
}

// resolveOnline picks a stock source among active locations that can cover
// every line item, preferring those in the delivery province. An order is
// fulfilled from exactly one source; there is no partial fulfillment.
func (s *service) resolveOnline(ctx context.Context, input ResolveInput) (*Placement, error) {
	address, err := s.defaultAddress(ctx, input.CustomerID)
	if err != nil {
		return nil, err
	}

	deliveryProvince := input.CustomerProvince
	if address != nil && address.Province != "" {
		deliveryProvince = address.Province
	}

	candidates, err := s.locations.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	var sameProvince, crossProvince []models.Location
	for _, candidate := range candidates {
		shortfalls, err := s.stock.Check(ctx, candidate.ID, input.Items)
		if err != nil {
			return nil, err
		}
		if len(shortfalls) > 0 {
			continue
		}
		if candidate.Province == deliveryProvince {
			sameProvince = append(sameProvince, candidate)
		} else {
			crossProvince = append(crossProvince, candidate)
		}
	}

	var source models.Location
	switch {
	case len(sameProvince) > 0:
		source = sameProvince[0]
	case len(crossProvince) > 0:
		source = crossProvince[0]
	default:
		return nil, pkgerrors.New(pkgerrors.CodeNoFulfillableLocation, "no location can cover every line item").
			WithDetails(map[string]any{"items": len(input.Items)})
	}

	quote := s.shipping.QuoteFor(source.Province, deliveryProvince)
	sourceID := source.ID
	placement := &Placement{
		Mode:               enums.PlacementModeOnline,
		DeliveryLocationID: &sourceID,
		DeliveryProvince:   deliveryProvince,
		ShippingTier:       quote.Tier,
		ShippingFee:        quote.Fee,
		ETAFrom:            quote.ETAFrom,
		ETATo:              quote.ETATo,
	}
	if address != nil {
		addressID := address.ID
		placement.DeliveryAddressID = &addressID
	}
	return placement, nil
}

func (s *service) defaultAddress(ctx context.Context, customerID uuid.UUID) (*models.DeliveryAddress, error) {
	if customerID == uuid.Nil {
		return nil, nil
	}
	addresses, err := s.addresses.ListActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, storageErr(err)
	}
	if len(addresses) == 0 {
		return nil, nil
	}
	return &addresses[0], nil
}

// Commit debits the placement's stock source atomically. Resolution is
// advisory; this is the authoritative check, so a cart that drained between
// quote and commit fails here with the same error kinds the ledger uses.
func (s *service) Commit(ctx context.Context, placement *Placement, items []stock.Line) error {
	if placement == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "placement is required")
	}

	var sourceID *uuid.UUID
	switch placement.Mode {
	case enums.PlacementModeInStore:
		sourceID = placement.BoundLocationID
	case enums.PlacementModeOnline:
		sourceID = placement.DeliveryLocationID
	default:
		return pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid placement mode %q", placement.Mode))
	}
	if sourceID == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "placement has no stock source")
	}

	return s.stock.Debit(ctx, *sourceID, items)
}

func (s *service) CreateAddress(ctx context.Context, address *models.DeliveryAddress) (*models.DeliveryAddress, error) {
	if address.ID == uuid.Nil {
		address.ID = uuid.New()
	}
	address.IsActive = true
	if err := s.addresses.Create(ctx, address); err != nil {
		return nil, storageErr(err)
	}
	return address, nil
}

func (s *service) ListAddresses(ctx context.Context, customerID uuid.UUID) ([]models.DeliveryAddress, error) {
	addresses, err := s.addresses.ListActiveByCustomer(ctx, customerID)
	if err != nil {
		return nil, storageErr(err)
	}
	return addresses, nil
}

func (s *service) RemoveAddress(ctx context.Context, id uuid.UUID) error {
	affected, err := s.addresses.Deactivate(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			affected = 0
		} else {
			return storageErr(err)
		}
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "delivery address does not exist").
			WithDetails(map[string]any{"address_id": id})
	}
	return nil
}

func storageErr(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "checkout store unavailable")
}

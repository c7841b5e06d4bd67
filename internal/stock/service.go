package stock

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prachya-dev/saithong-backend/pkg/db"
	"github.com/prachya-dev/saithong-backend/pkg/db/models"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
	"github.com/prachya-dev/saithong-backend/pkg/metrics"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Line is one (product, quantity) demand against a location.
type Line struct {
	ProductID uuid.UUID
	Quantity  int
}

// Shortfall reports why a location cannot cover one line.
type Shortfall struct {
	ProductID   uuid.UUID `json:"product_id"`
	Requested   int       `json:"requested"`
	Available   int       `json:"available"`
	Unavailable bool      `json:"unavailable"`
}

// MutateInput carries one quantity mutation request.
type MutateInput struct {
	LocationID uuid.UUID
	ProductID  uuid.UUID
	Amount     int
	Action     enums.StockAction
}

// TransferInput carries one location-to-location transfer request.
type TransferInput struct {
	FromLocationID uuid.UUID
	ToLocationID   uuid.UUID
	ProductID      uuid.UUID
	Amount         int
}

// Service owns the authoritative stock quantity for every
// (location, product) pair.
type Service interface {
	GetQuantity(ctx context.Context, locationID, productID uuid.UUID) (int, error)
	SetAvailability(ctx context.Context, locationID, productID uuid.UUID, isAvailable bool) error
	AddProduct(ctx context.Context, locationID, productID uuid.UUID, initialQuantity int, isAvailable bool) (*models.LocationStock, error)
	RemoveProduct(ctx context.Context, locationID, productID uuid.UUID) error
	Mutate(ctx context.Context, input MutateInput) (*models.LocationStock, error)
	Transfer(ctx context.Context, input TransferInput) error
	LowStock(ctx context.Context, locationID uuid.UUID, threshold int) ([]models.LocationStock, error)
	Check(ctx context.Context, locationID uuid.UUID, lines []Line) ([]Shortfall, error)
	Debit(ctx context.Context, locationID uuid.UUID, lines []Line) error
}

type service struct {
	tx      txRunner
	repo    Repository
	metrics *metrics.StockMetrics
}

// NewService wires the ledger service. Metrics may be nil.
func NewService(tx txRunner, repo Repository, m *metrics.StockMetrics) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("tx runner required")
	}
	if repo == nil {
		return nil, fmt.Errorf("stock repository required")
	}
	return &service{tx: tx, repo: repo, metrics: m}, nil
}

// GetQuantity returns the ledger quantity; a missing entry is 0, not an
// error.
func (s *service) GetQuantity(ctx context.Context, locationID, productID uuid.UUID) (int, error) {
	entry, err := s.repo.Get(ctx, locationID, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, storageErr(err)
	}
	return entry.Quantity, nil
}

func (s *service) SetAvailability(ctx context.Context, locationID, productID uuid.UUID, isAvailable bool) error {
	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err := repo.GetForUpdate(ctx, locationID, productID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entryNotFound(locationID, productID)
			}
			return storageErr(err)
		}
		entry.IsAvailable = isAvailable
		if err := repo.Save(ctx, entry); err != nil {
			return storageErr(err)
		}
		return nil
	})
}

func (s *service) AddProduct(ctx context.Context, locationID, productID uuid.UUID, initialQuantity int, isAvailable bool) (*models.LocationStock, error) {
	if initialQuantity < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "initial quantity must not be negative").
			WithDetails(map[string]any{"quantity": initialQuantity})
	}

	entry := &models.LocationStock{
		LocationID:  locationID,
		ProductID:   productID,
		Quantity:    initialQuantity,
		IsAvailable: isAvailable,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateEntry, err, "product already tracked at location").
				WithDetails(pairDetails(locationID, productID))
		}
		return nil, storageErr(err)
	}
	return entry, nil
}

// RemoveProduct drops the pair's entry. Other locations' entries for the
// same product are untouched.
func (s *service) RemoveProduct(ctx context.Context, locationID, productID uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, locationID, productID)
	if err != nil {
		return storageErr(err)
	}
	if affected == 0 {
		return entryNotFound(locationID, productID)
	}
	return nil
}

// Mutate applies one SET/ADD/SUBTRACT with all-or-nothing semantics. A
// SUBTRACT that would drive the quantity negative is rejected, never clamped:
// a silent clamp would hide a workflow error upstream.
func (s *service) Mutate(ctx context.Context, input MutateInput) (*models.LocationStock, error) {
	if !input.Action.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid stock action %q", input.Action))
	}
	if input.Amount < 0 {
		s.observeMutation(input.Action, "invalid_amount")
		return nil, pkgerrors.New(pkgerrors.CodeInvalidAmount, "amount must not be negative").
			WithDetails(map[string]any{"amount": input.Amount, "action": input.Action.String()})
	}

	var result *models.LocationStock
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		entry, err := repo.GetForUpdate(ctx, input.LocationID, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return entryNotFound(input.LocationID, input.ProductID)
			}
			return storageErr(err)
		}

		switch input.Action {
		case enums.StockActionSet:
			entry.Quantity = input.Amount
		case enums.StockActionAdd:
			entry.Quantity += input.Amount
		case enums.StockActionSubtract:
			if entry.Quantity < input.Amount {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "subtraction would drive quantity negative").
					WithDetails(map[string]any{
						"current":   entry.Quantity,
						"requested": input.Amount,
					})
			}
			entry.Quantity -= input.Amount
		}

		if err := repo.Save(ctx, entry); err != nil {
			return storageErr(err)
		}
		result = entry
		return nil
	})
	if err != nil {
		s.observeMutation(input.Action, outcomeLabel(err))
		return nil, err
	}
	s.observeMutation(input.Action, "ok")
	return result, nil
}

// Transfer atomically moves quantity between two locations. Rows are locked
// in location-id order so two opposing transfers cannot deadlock. The
// product's total across both locations is invariant across a successful
// transfer.
func (s *service) Transfer(ctx context.Context, input TransferInput) error {
	if input.FromLocationID == input.ToLocationID {
		s.observeTransfer("invalid_transfer")
		return pkgerrors.New(pkgerrors.CodeInvalidTransfer, "source and destination are the same location")
	}
	if input.Amount <= 0 {
		s.observeTransfer("invalid_amount")
		return pkgerrors.New(pkgerrors.CodeInvalidAmount, "transfer amount must be positive").
			WithDetails(map[string]any{"amount": input.Amount})
	}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		entries := map[uuid.UUID]*models.LocationStock{}
		ids := []uuid.UUID{input.FromLocationID, input.ToLocationID}
		sort.Slice(ids, func(i, j int) bool { return ids[i].String() < ids[j].String() })
		for _, id := range ids {
			entry, err := repo.GetForUpdate(ctx, id, input.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					continue
				}
				return storageErr(err)
			}
			entries[id] = entry
		}

		source := entries[input.FromLocationID]
		available := 0
		if source != nil {
			available = source.Quantity
		}
		if available < input.Amount {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "source location holds less than the transfer amount").
				WithDetails(map[string]any{
					"available": available,
					"requested": input.Amount,
				})
		}

		source.Quantity -= input.Amount
		if err := repo.Save(ctx, source); err != nil {
			return storageErr(err)
		}

		if dest := entries[input.ToLocationID]; dest != nil {
			dest.Quantity += input.Amount
			if err := repo.Save(ctx, dest); err != nil {
				return storageErr(err)
			}
			return nil
		}

		dest := &models.LocationStock{
			LocationID:  input.ToLocationID,
			ProductID:   input.ProductID,
			Quantity:    input.Amount,
			IsAvailable: true,
		}
		if err := repo.Create(ctx, dest); err != nil {
			return storageErr(err)
		}
		return nil
	})
	if err != nil {
		s.observeTransfer(outcomeLabel(err))
		return err
	}
	s.observeTransfer("ok")
	return nil
}

// LowStock lists the location's entries under the caller-supplied threshold.
// There is no stored default: different admin views use different cutoffs.
func (s *service) LowStock(ctx context.Context, locationID uuid.UUID, threshold int) ([]models.LocationStock, error) {
	entries, err := s.repo.ListBelowThreshold(ctx, locationID, threshold)
	if err != nil {
		return nil, storageErr(err)
	}
	return entries, nil
}

// Check reports, without mutating, every line the location cannot cover.
// An empty result means the location can fulfill all lines.
func (s *service) Check(ctx context.Context, locationID uuid.UUID, lines []Line) ([]Shortfall, error) {
	entries, err := s.repo.ListByLocation(ctx, locationID)
	if err != nil {
		return nil, storageErr(err)
	}
	byProduct := make(map[uuid.UUID]models.LocationStock, len(entries))
	for _, entry := range entries {
		byProduct[entry.ProductID] = entry
	}

	var shortfalls []Shortfall
	for _, line := range lines {
		entry, ok := byProduct[line.ProductID]
		switch {
		case !ok:
			shortfalls = append(shortfalls, Shortfall{ProductID: line.ProductID, Requested: line.Quantity})
		case !entry.IsAvailable:
			shortfalls = append(shortfalls, Shortfall{ProductID: line.ProductID, Requested: line.Quantity, Available: entry.Quantity, Unavailable: true})
		case entry.Quantity < line.Quantity:
			shortfalls = append(shortfalls, Shortfall{ProductID: line.ProductID, Requested: line.Quantity, Available: entry.Quantity})
		}
	}
	return shortfalls, nil
}

// Debit subtracts every line at the location inside one transaction. Any
// shortfall aborts the whole debit. This is the authoritative path checkout
// commits through; resolution-time checks are advisory only.
func (s *service) Debit(ctx context.Context, locationID uuid.UUID, lines []Line) error {
	for _, line := range lines {
		if line.Quantity <= 0 {
			return pkgerrors.New(pkgerrors.CodeInvalidAmount, "debit quantity must be positive").
				WithDetails(map[string]any{"product_id": line.ProductID, "quantity": line.Quantity})
		}
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		for _, line := range lines {
			entry, err := repo.GetForUpdate(ctx, locationID, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return pkgerrors.New(pkgerrors.CodeInsufficientStock, "product not stocked at location").
						WithDetails(map[string]any{"product_id": line.ProductID})
				}
				return storageErr(err)
			}
			if !entry.IsAvailable || entry.Quantity < line.Quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "location cannot cover order line").
					WithDetails(map[string]any{
						"product_id": line.ProductID,
						"available":  entry.Quantity,
						"requested":  line.Quantity,
					})
			}
			entry.Quantity -= line.Quantity
			if err := repo.Save(ctx, entry); err != nil {
				return storageErr(err)
			}
		}
		return nil
	})
}

func (s *service) observeMutation(action enums.StockAction, outcome string) {
	s.metrics.ObserveMutation(action.String(), outcome)
}

func (s *service) observeTransfer(outcome string) {
	s.metrics.ObserveTransfer(outcome)
}

func outcomeLabel(err error) string {
	typed := pkgerrors.As(err)
	if typed == nil {
		return "error"
	}
	switch typed.Code() {
	case pkgerrors.CodeInsufficientStock:
		return "insufficient_stock"
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeInvalidAmount:
		return "invalid_amount"
	case pkgerrors.CodeInvalidTransfer:
		return "invalid_transfer"
	default:
		return "error"
	}
}

func entryNotFound(locationID, productID uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "no ledger entry for product at location").
		WithDetails(pairDetails(locationID, productID))
}

func pairDetails(locationID, productID uuid.UUID) map[string]any {
	return map[string]any{
		"location_id": locationID,
		"product_id":  productID,
	}
}

func storageErr(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stock store unavailable")
}

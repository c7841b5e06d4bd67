package stock

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prachya-dev/saithong-backend/pkg/db/models"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
)

type pair struct {
	location uuid.UUID
	product  uuid.UUID
}

// stubRepo keeps ledger entries in a map. WithTx returns the same repo so
// service transaction bodies operate on shared state.
type stubRepo struct {
	entries map[pair]*models.LocationStock
}

func newStubRepo() *stubRepo {
	return &stubRepo{entries: map[pair]*models.LocationStock{}}
}

func (r *stubRepo) WithTx(tx *gorm.DB) Repository { return r }

func (r *stubRepo) Get(ctx context.Context, locationID, productID uuid.UUID) (*models.LocationStock, error) {
	entry, ok := r.entries[pair{locationID, productID}]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *entry
	return &clone, nil
}

func (r *stubRepo) GetForUpdate(ctx context.Context, locationID, productID uuid.UUID) (*models.LocationStock, error) {
	return r.Get(ctx, locationID, productID)
}

func (r *stubRepo) Create(ctx context.Context, entry *models.LocationStock) error {
	key := pair{entry.LocationID, entry.ProductID}
	if _, exists := r.entries[key]; exists {
		return gorm.ErrDuplicatedKey
	}
	clone := *entry
	r.entries[key] = &clone
	return nil
}

func (r *stubRepo) Save(ctx context.Context, entry *models.LocationStock) error {
	clone := *entry
	r.entries[pair{entry.LocationID, entry.ProductID}] = &clone
	return nil
}

func (r *stubRepo) Delete(ctx context.Context, locationID, productID uuid.UUID) (int64, error) {
	key := pair{locationID, productID}
	if _, ok := r.entries[key]; !ok {
		return 0, nil
	}
	delete(r.entries, key)
	return 1, nil
}

func (r *stubRepo) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]models.LocationStock, error) {
	var out []models.LocationStock
	for _, entry := range r.entries {
		if entry.LocationID == locationID {
			out = append(out, *entry)
		}
	}
	return out, nil
}

func (r *stubRepo) ListBelowThreshold(ctx context.Context, locationID uuid.UUID, threshold int) ([]models.LocationStock, error) {
	var out []models.LocationStock
	for _, entry := range r.entries {
		if entry.LocationID == locationID && entry.Quantity < threshold {
			out = append(out, *entry)
		}
	}
	return out, nil
}

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func newTestService(t *testing.T, repo *stubRepo) Service {
	t.Helper()
	svc, err := NewService(stubTxRunner{}, repo, nil)
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func seed(repo *stubRepo, locationID, productID uuid.UUID, quantity int, available bool) {
	repo.entries[pair{locationID, productID}] = &models.LocationStock{
		LocationID:  locationID,
		ProductID:   productID,
		Quantity:    quantity,
		IsAvailable: available,
	}
}

func TestGetQuantityMissingEntryIsZero(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	qty, err := svc.GetQuantity(context.Background(), uuid.New(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qty != 0 {
		t.Fatalf("expected 0 for untracked pair, got %d", qty)
	}
}

func TestAddProductRejectsNegativeInitialQuantity(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	_, err := svc.AddProduct(context.Background(), uuid.New(), uuid.New(), -1, true)
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidAmount) {
		t.Fatalf("expected invalid amount, got %v", err)
	}
}

func TestAddProductDuplicatePair(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	locationID, productID := uuid.New(), uuid.New()

	if _, err := svc.AddProduct(context.Background(), locationID, productID, 5, true); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	_, err := svc.AddProduct(context.Background(), locationID, productID, 5, true)
	if !pkgerrors.HasCode(err, pkgerrors.CodeDuplicateEntry) {
		t.Fatalf("expected duplicate entry, got %v", err)
	}
}

func TestRemoveProductUnknownPair(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	err := svc.RemoveProduct(context.Background(), uuid.New(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMutateSubtractThenOverdraw(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	locationID, productID := uuid.New(), uuid.New()
	seed(repo, locationID, productID, 5, true)

	entry, err := svc.Mutate(context.Background(), MutateInput{
		LocationID: locationID,
		ProductID:  productID,
		Amount:     3,
		Action:     enums.StockActionSubtract,
	})
	if err != nil {
		t.Fatalf("subtract failed: %v", err)
	}
	if entry.Quantity != 2 {
		t.Fatalf("expected 2 after subtracting 3 from 5, got %d", entry.Quantity)
	}

	_, err = svc.Mutate(context.Background(), MutateInput{
		LocationID: locationID,
		ProductID:  productID,
		Amount:     10,
		Action:     enums.StockActionSubtract,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	qty, err := svc.GetQuantity(context.Background(), locationID, productID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if qty != 2 {
		t.Fatalf("rejected overdraw must not change quantity, got %d", qty)
	}
}

func TestMutateSetIsIdempotent(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	locationID, productID := uuid.New(), uuid.New()
	seed(repo, locationID, productID, 7, true)

	for i := 0; i < 2; i++ {
		entry, err := svc.Mutate(context.Background(), MutateInput{
			LocationID: locationID,
			ProductID:  productID,
			Amount:     20,
			Action:     enums.StockActionSet,
		})
		if err != nil {
			t.Fatalf("set %d failed: %v", i, err)
		}
		if entry.Quantity != 20 {
			t.Fatalf("expected 20, got %d", entry.Quantity)
		}
	}
}

func TestMutateRejectsNegativeAmount(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	locationID, productID := uuid.New(), uuid.New()
	seed(repo, locationID, productID, 7, true)

	for _, action := range []enums.StockAction{enums.StockActionSet, enums.StockActionAdd, enums.StockActionSubtract} {
		_, err := svc.Mutate(context.Background(), MutateInput{
			LocationID: locationID,
			ProductID:  productID,
			Amount:     -1,
			Action:     action,
		})
		if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidAmount) {
			t.Fatalf("%s: expected invalid amount, got %v", action, err)
		}
	}
}

func TestMutateUnknownPair(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	_, err := svc.Mutate(context.Background(), MutateInput{
		LocationID: uuid.New(),
		ProductID:  uuid.New(),
		Amount:     1,
		Action:     enums.StockActionAdd,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTransferCreatesDestinationEntry(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	productID := uuid.New()
	from, to := uuid.New(), uuid.New()
	seed(repo, from, productID, 2, true)

	err := svc.Transfer(context.Background(), TransferInput{
		FromLocationID: from,
		ToLocationID:   to,
		ProductID:      productID,
		Amount:         2,
	})
	if err != nil {
		t.Fatalf("transfer failed: %v", err)
	}

	fromQty, _ := svc.GetQuantity(context.Background(), from, productID)
	toQty, _ := svc.GetQuantity(context.Background(), to, productID)
	if fromQty != 0 || toQty != 2 {
		t.Fatalf("expected 0/2 after transfer, got %d/%d", fromQty, toQty)
	}
	if fromQty+toQty != 2 {
		t.Fatalf("transfer must conserve total, got %d", fromQty+toQty)
	}
}

func TestTransferSameLocation(t *testing.T) {
	svc := newTestService(t, newStubRepo())
	id := uuid.New()

	err := svc.Transfer(context.Background(), TransferInput{
		FromLocationID: id,
		ToLocationID:   id,
		ProductID:      uuid.New(),
		Amount:         1,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidTransfer) {
		t.Fatalf("expected invalid transfer, got %v", err)
	}
}

func TestTransferNonPositiveAmount(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	for _, amount := range []int{0, -3} {
		err := svc.Transfer(context.Background(), TransferInput{
			FromLocationID: uuid.New(),
			ToLocationID:   uuid.New(),
			ProductID:      uuid.New(),
			Amount:         amount,
		})
		if !pkgerrors.HasCode(err, pkgerrors.CodeInvalidAmount) {
			t.Fatalf("amount %d: expected invalid amount, got %v", amount, err)
		}
	}
}

func TestTransferInsufficientSource(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	productID := uuid.New()
	from, to := uuid.New(), uuid.New()
	seed(repo, from, productID, 1, true)

	err := svc.Transfer(context.Background(), TransferInput{
		FromLocationID: from,
		ToLocationID:   to,
		ProductID:      productID,
		Amount:         2,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}

	fromQty, _ := svc.GetQuantity(context.Background(), from, productID)
	toQty, _ := svc.GetQuantity(context.Background(), to, productID)
	if fromQty != 1 || toQty != 0 {
		t.Fatalf("failed transfer must not move stock, got %d/%d", fromQty, toQty)
	}
}

func TestTransferFromUntrackedSource(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	err := svc.Transfer(context.Background(), TransferInput{
		FromLocationID: uuid.New(),
		ToLocationID:   uuid.New(),
		ProductID:      uuid.New(),
		Amount:         1,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestCheckReportsShortfalls(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	locationID := uuid.New()
	okProduct, shortProduct, offProduct, missingProduct := uuid.New(), uuid.New(), uuid.New(), uuid.New()
	seed(repo, locationID, okProduct, 10, true)
	seed(repo, locationID, shortProduct, 1, true)
	seed(repo, locationID, offProduct, 10, false)

	shortfalls, err := svc.Check(context.Background(), locationID, []Line{
		{ProductID: okProduct, Quantity: 5},
		{ProductID: shortProduct, Quantity: 3},
		{ProductID: offProduct, Quantity: 1},
		{ProductID: missingProduct, Quantity: 1},
	})
	if err != nil {
		t.Fatalf("check failed: %v", err)
	}
	if len(shortfalls) != 3 {
		t.Fatalf("expected 3 shortfalls, got %d: %+v", len(shortfalls), shortfalls)
	}

	byProduct := map[uuid.UUID]Shortfall{}
	for _, s := range shortfalls {
		byProduct[s.ProductID] = s
	}
	if s := byProduct[shortProduct]; s.Available != 1 || s.Requested != 3 || s.Unavailable {
		t.Fatalf("unexpected shortfall for low entry: %+v", s)
	}
	if s := byProduct[offProduct]; !s.Unavailable {
		t.Fatalf("disabled entry must be flagged unavailable: %+v", s)
	}
	if s, ok := byProduct[missingProduct]; !ok || s.Available != 0 {
		t.Fatalf("missing entry must report zero availability: %+v", s)
	}
}

func TestDebitAllOrNothing(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	locationID := uuid.New()
	first, second := uuid.New(), uuid.New()
	seed(repo, locationID, first, 5, true)
	seed(repo, locationID, second, 1, true)

	err := svc.Debit(context.Background(), locationID, []Line{
		{ProductID: first, Quantity: 2},
		{ProductID: second, Quantity: 3},
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
}

func TestDebitHappyPath(t *testing.T) {
	repo := newStubRepo()
	svc := newTestService(t, repo)
	locationID := uuid.New()
	first, second := uuid.New(), uuid.New()
	seed(repo, locationID, first, 5, true)
	seed(repo, locationID, second, 4, true)

	err := svc.Debit(context.Background(), locationID, []Line{
		{ProductID: first, Quantity: 2},
		{ProductID: second, Quantity: 4},
	})
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}

	firstQty, _ := svc.GetQuantity(context.Background(), locationID, first)
	secondQty, _ := svc.GetQuantity(context.Background(), locationID, second)
	if firstQty != 3 || secondQty != 0 {
		t.Fatalf("expected 3/0 after debit, got %d/%d", firstQty, secondQty)
	}
}

func TestSetAvailabilityUnknownPair(t *testing.T) {
	svc := newTestService(t, newStubRepo())

	err := svc.SetAvailability(context.Background(), uuid.New(), uuid.New(), false)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

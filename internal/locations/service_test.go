package locations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/prachya-dev/saithong-backend/pkg/db/models"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
)

func newTestService(t *testing.T) Service {
	t.Helper()
	conn, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		SkipDefaultTransaction: true,
	})
	if err != nil {
		t.Fatalf("opening sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.Location{}); err != nil {
		t.Fatalf("migrating schema: %v", err)
	}
	svc, err := NewService(NewRepository(conn))
	if err != nil {
		t.Fatalf("building service: %v", err)
	}
	return svc
}

func TestCreateAndGet(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), CreateInput{
		Name:     "Siam Square Flagship",
		Code:     "BKK-001",
		Type:     enums.LocationTypeStore,
		Province: "Bangkok",
		District: "Pathum Wan",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if created.Status != enums.LocationStatusActive {
		t.Fatalf("new locations must start active, got %s", created.Status)
	}

	fetched, err := svc.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if fetched.Code != "BKK-001" || fetched.Type != enums.LocationTypeStore {
		t.Fatalf("unexpected location: %+v", fetched)
	}
}

func TestCreateDuplicateCode(t *testing.T) {
	svc := newTestService(t)
	input := CreateInput{
		Name:     "First",
		Code:     "BKK-001",
		Type:     enums.LocationTypeStore,
		Province: "Bangkok",
	}
	if _, err := svc.Create(context.Background(), input); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	input.Name = "Second"
	_, err := svc.Create(context.Background(), input)
	if !pkgerrors.HasCode(err, pkgerrors.CodeDuplicateEntry) {
		t.Fatalf("expected duplicate entry, got %v", err)
	}
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Create(context.Background(), CreateInput{
		Name: "No Code", Type: enums.LocationTypeStore, Province: "Bangkok",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for missing code, got %v", err)
	}

	_, err = svc.Create(context.Background(), CreateInput{
		Name: "Bad Type", Code: "X-1", Type: enums.LocationType("KIOSK"), Province: "Bangkok",
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected validation error for bad type, got %v", err)
	}
}

func TestUpdatePartialFields(t *testing.T) {
	svc := newTestService(t)
	created, err := svc.Create(context.Background(), CreateInput{
		Name:     "Chiang Mai Depot",
		Code:     "CNX-101",
		Type:     enums.LocationTypeWarehouse,
		Province: "Chiang Mai",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	inactive := enums.LocationStatusInactive
	updated, err := svc.Update(context.Background(), created.ID, UpdateInput{Status: &inactive})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if updated.Status != enums.LocationStatusInactive {
		t.Fatalf("status not updated: %s", updated.Status)
	}
	if updated.Name != "Chiang Mai Depot" {
		t.Fatalf("untouched field changed: %s", updated.Name)
	}
}

func TestUpdateUnknownLocation(t *testing.T) {
	svc := newTestService(t)
	name := "Ghost"

	_, err := svc.Update(context.Background(), uuid.New(), UpdateInput{Name: &name})
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteUnknownLocation(t *testing.T) {
	svc := newTestService(t)

	err := svc.Delete(context.Background(), uuid.New())
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestListActiveFiltersInactive(t *testing.T) {
	svc := newTestService(t)

	store, err := svc.Create(context.Background(), CreateInput{
		Name: "Store", Code: "BKK-001", Type: enums.LocationTypeStore, Province: "Bangkok",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	closed, err := svc.Create(context.Background(), CreateInput{
		Name: "Closed", Code: "BKK-002", Type: enums.LocationTypeStore, Province: "Bangkok",
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	inactive := enums.LocationStatusInactive
	if _, err := svc.Update(context.Background(), closed.ID, UpdateInput{Status: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	active, err := svc.ListActive(context.Background())
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(active) != 1 || active[0].ID != store.ID {
		t.Fatalf("expected only the active store, got %+v", active)
	}
}

func TestListFilters(t *testing.T) {
	svc := newTestService(t)
	seedInputs := []CreateInput{
		{Name: "BKK Store", Code: "BKK-001", Type: enums.LocationTypeStore, Province: "Bangkok"},
		{Name: "BKK Warehouse", Code: "BKK-W01", Type: enums.LocationTypeWarehouse, Province: "Bangkok"},
		{Name: "CNX IoT", Code: "CNX-I01", Type: enums.LocationTypeIOTPoint, Province: "Chiang Mai"},
	}
	for _, input := range seedInputs {
		if _, err := svc.Create(context.Background(), input); err != nil {
			t.Fatalf("seeding %s: %v", input.Code, err)
		}
	}

	byProvince, err := svc.List(context.Background(), ListFilter{Province: "Bangkok"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(byProvince) != 2 {
		t.Fatalf("expected 2 Bangkok locations, got %d", len(byProvince))
	}
	if byProvince[0].Code > byProvince[1].Code {
		t.Fatalf("listing must be ordered by code: %+v", byProvince)
	}

	byType, err := svc.List(context.Background(), ListFilter{Type: enums.LocationTypeIOTPoint})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(byType) != 1 || byType[0].Code != "CNX-I01" {
		t.Fatalf("expected only the IoT point, got %+v", byType)
	}
}

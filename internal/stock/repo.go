package stock

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/prachya-dev/saithong-backend/pkg/db/models"
)

// Repository manages persistence for ledger entries.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, locationID, productID uuid.UUID) (*models.LocationStock, error)
	GetForUpdate(ctx context.Context, locationID, productID uuid.UUID) (*models.LocationStock, error)
	Create(ctx context.Context, entry *models.LocationStock) error
	Save(ctx context.Context, entry *models.LocationStock) error
	Delete(ctx context.Context, locationID, productID uuid.UUID) (int64, error)
	ListByLocation(ctx context.Context, locationID uuid.UUID) ([]models.LocationStock, error)
	ListBelowThreshold(ctx context.Context, locationID uuid.UUID, threshold int) ([]models.LocationStock, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context, locationID, productID uuid.UUID) (*models.LocationStock, error) {
	var entry models.LocationStock
	err := r.db.WithContext(ctx).
		Where("location_id = ? AND product_id = ?", locationID, productID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) GetForUpdate(ctx context.Context, locationID, productID uuid.UUID) (*models.LocationStock, error) {
	q := r.db.WithContext(ctx)
	// SQLite (tests) has no FOR UPDATE; its writes serialize anyway.
	if r.db.Dialector.Name() == "postgres" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var entry models.LocationStock
	err := q.Where("location_id = ? AND product_id = ?", locationID, productID).
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Create(ctx context.Context, entry *models.LocationStock) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Save(ctx context.Context, entry *models.LocationStock) error {
	return r.db.WithContext(ctx).
		Model(&models.LocationStock{}).
		Where("location_id = ? AND product_id = ?", entry.LocationID, entry.ProductID).
		Updates(map[string]any{
			"quantity":     entry.Quantity,
			"is_available": entry.IsAvailable,
		}).Error
}

func (r *repository) Delete(ctx context.Context, locationID, productID uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("location_id = ? AND product_id = ?", locationID, productID).
		Delete(&models.LocationStock{})
	return result.RowsAffected, result.Error
}

func (r *repository) ListByLocation(ctx context.Context, locationID uuid.UUID) ([]models.LocationStock, error) {
	var entries []models.LocationStock
	if err := r.db.WithContext(ctx).
		Where("location_id = ?", locationID).
		Order("product_id ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) ListBelowThreshold(ctx context.Context, locationID uuid.UUID, threshold int) ([]models.LocationStock, error) {
	var entries []models.LocationStock
	if err := r.db.WithContext(ctx).
		Where("location_id = ? AND quantity < ?", locationID, threshold).
		Order("quantity ASC").
		Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

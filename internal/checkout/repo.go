package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prachya-dev/saithong-backend/pkg/db/models"
)

// AddressRepository stores customer delivery addresses used as online-order
// destinations.
type AddressRepository interface {
	WithTx(tx *gorm.DB) AddressRepository
	Get(ctx context.Context, id uuid.UUID) (*models.DeliveryAddress, error)
	Create(ctx context.Context, address *models.DeliveryAddress) error
	ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.DeliveryAddress, error)
	Deactivate(ctx context.Context, id uuid.UUID) (int64, error)
}

type addressRepository struct {
	db *gorm.DB
}

func NewAddressRepository(db *gorm.DB) AddressRepository {
	return &addressRepository{db: db}
}

func (r *addressRepository) WithTx(tx *gorm.DB) AddressRepository {
	if tx == nil {
		return r
	}
	return &addressRepository{db: tx}
}

func (r *addressRepository) Get(ctx context.Context, id uuid.UUID) (*models.DeliveryAddress, error) {
	var address models.DeliveryAddress
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&address).Error
	if err != nil {
		return nil, err
	}
	return &address, nil
}

func (r *addressRepository) Create(ctx context.Context, address *models.DeliveryAddress) error {
	return r.db.WithContext(ctx).Create(address).Error
}

// ListActiveByCustomer returns newest first so the most recently captured
// address is the default online-order destination.
func (r *addressRepository) ListActiveByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.DeliveryAddress, error) {
	var out []models.DeliveryAddress
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND is_active = ?", customerID, true).
		Order("created_at desc").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *addressRepository) Deactivate(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.DeliveryAddress{}).
		Where("id = ?", id).
		Update("is_active", false)
	return result.RowsAffected, result.Error
}

package locations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prachya-dev/saithong-backend/pkg/db/models"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
)

// ListFilter narrows a location listing. Zero values mean "any".
type ListFilter struct {
	Status   enums.LocationStatus
	Type     enums.LocationType
	Province string
}

type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Get(ctx context.Context, id uuid.UUID) (*models.Location, error)
	GetByCode(ctx context.Context, code string) (*models.Location, error)
	Create(ctx context.Context, location *models.Location) error
	Save(ctx context.Context, location *models.Location) error
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	List(ctx context.Context, filter ListFilter) ([]models.Location, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Get(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repository) GetByCode(ctx context.Context, code string) (*models.Location, error) {
	var location models.Location
	err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&location).Error
	if err != nil {
		return nil, err
	}
	return &location, nil
}

func (r *repository) Create(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *repository) Save(ctx context.Context, location *models.Location) error {
	return r.db.WithContext(ctx).Save(location).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Location{})
	return result.RowsAffected, result.Error
}

func (r *repository) List(ctx context.Context, filter ListFilter) ([]models.Location, error) {
	query := r.db.WithContext(ctx).Model(&models.Location{})
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Type != "" {
		query = query.Where("type = ?", filter.Type)
	}
	if filter.Province != "" {
		query = query.Where("province = ?", filter.Province)
	}

	var out []models.Location
	if err := query.Order("code asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

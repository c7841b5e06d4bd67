package locations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/prachya-dev/saithong-backend/pkg/db"
	"github.com/prachya-dev/saithong-backend/pkg/db/models"
	"github.com/prachya-dev/saithong-backend/pkg/enums"
	pkgerrors "github.com/prachya-dev/saithong-backend/pkg/errors"
)

// CreateInput carries a new location registration.
type CreateInput struct {
	Name     string
	Code     string
	Type     enums.LocationType
	Province string
	District string
}

// UpdateInput carries a partial location update. Nil fields are untouched.
type UpdateInput struct {
	Name     *string
	Province *string
	District *string
	Status   *enums.LocationStatus
}

// Service manages the location registry checkout resolution draws from.
type Service interface {
	Get(ctx context.Context, id uuid.UUID) (*models.Location, error)
	Create(ctx context.Context, input CreateInput) (*models.Location, error)
	Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Location, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter ListFilter) ([]models.Location, error)
	ListActive(ctx context.Context) ([]models.Location, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("locations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Location, error) {
	location, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, locationNotFound(id)
		}
		return nil, storageErr(err)
	}
	return location, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Location, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid location type %q", input.Type))
	}
	if input.Name == "" || input.Code == "" || input.Province == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name, code and province are required")
	}

	location := &models.Location{
		ID:       uuid.New(),
		Name:     input.Name,
		Code:     input.Code,
		Type:     input.Type,
		Province: input.Province,
		District: input.District,
		Status:   enums.LocationStatusActive,
	}
	if err := s.repo.Create(ctx, location); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDuplicateEntry, err, "location code already in use").
				WithDetails(map[string]any{"code": input.Code})
		}
		return nil, storageErr(err)
	}
	return location, nil
}

func (s *service) Update(ctx context.Context, id uuid.UUID, input UpdateInput) (*models.Location, error) {
	if input.Status != nil && !input.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid location status %q", *input.Status))
	}

	location, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, locationNotFound(id)
		}
		return nil, storageErr(err)
	}

	if input.Name != nil {
		location.Name = *input.Name
	}
	if input.Province != nil {
		location.Province = *input.Province
	}
	if input.District != nil {
		location.District = *input.District
	}
	if input.Status != nil {
		location.Status = *input.Status
	}

	if err := s.repo.Save(ctx, location); err != nil {
		return nil, storageErr(err)
	}
	return location, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return storageErr(err)
	}
	if affected == 0 {
		return locationNotFound(id)
	}
	return nil
}

func (s *service) List(ctx context.Context, filter ListFilter) ([]models.Location, error) {
	out, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, storageErr(err)
	}
	return out, nil
}

// ListActive returns every location currently participating in fulfillment.
func (s *service) ListActive(ctx context.Context) ([]models.Location, error) {
	return s.List(ctx, ListFilter{Status: enums.LocationStatusActive})
}

func locationNotFound(id uuid.UUID) error {
	return pkgerrors.New(pkgerrors.CodeNotFound, "location does not exist").
		WithDetails(map[string]any{"location_id": id})
}

func storageErr(err error) error {
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "location store unavailable")
}

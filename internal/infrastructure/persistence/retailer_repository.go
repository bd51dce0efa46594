package persistence

import (
	"context"
	"errors"

	"github.com/retailportal/backend/internal/domain/partner"
	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/retailportal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRetailerRepository implements partner.RetailerRepository using GORM
type GormRetailerRepository struct {
	db *gorm.DB
}

// NewGormRetailerRepository creates a new GormRetailerRepository
func NewGormRetailerRepository(db *gorm.DB) *GormRetailerRepository {
	return &GormRetailerRepository{db: db}
}

// FindByID finds a retailer by its ID
func (r *GormRetailerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Retailer, error) {
	var model models.RetailerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a retailer by its unique code
func (r *GormRetailerRepository) FindByCode(ctx context.Context, code string) (*partner.Retailer, error) {
	var model models.RetailerModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// Save creates or updates a retailer
func (r *GormRetailerRepository) Save(ctx context.Context, retailer *partner.Retailer) error {
	var model models.RetailerModel
	model.FromDomain(retailer)
	if err := r.db.WithContext(ctx).Save(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure GormRetailerRepository implements RetailerRepository
var _ partner.RetailerRepository = (*GormRetailerRepository)(nil)

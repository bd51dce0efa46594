package persistence

import (
	"context"
	"errors"

	"github.com/retailportal/backend/internal/domain/catalog"
	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/retailportal/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSKURepository implements catalog.SKURepository using GORM
type GormSKURepository struct {
	db *gorm.DB
}

// NewGormSKURepository creates a new GormSKURepository
func NewGormSKURepository(db *gorm.DB) *GormSKURepository {
	return &GormSKURepository{db: db}
}

// FindByID finds a SKU by its ID with retailer entitlements
func (r *GormSKURepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SKU, error) {
	var model models.SKUModel
	if err := r.db.WithContext(ctx).
		Preload("Retailers").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCode finds a SKU by its unique code with retailer entitlements
func (r *GormSKURepository) FindByCode(ctx context.Context, code string) (*catalog.SKU, error) {
	var model models.SKUModel
	if err := r.db.WithContext(ctx).
		Preload("Retailers").
		Where("code = ?", code).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByCodes loads SKUs with retailer entitlements for the given codes.
// Missing codes are simply absent from the result.
func (r *GormSKURepository) FindByCodes(ctx context.Context, codes []string) ([]catalog.SKU, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	var rows []models.SKUModel
	if err := r.db.WithContext(ctx).
		Preload("Retailers").
		Where("code IN ?", codes).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	skus := make([]catalog.SKU, len(rows))
	for i := range rows {
		skus[i] = *rows[i].ToDomain()
	}
	return skus, nil
}

// Save creates or updates a SKU and its entitlements
func (r *GormSKURepository) Save(ctx context.Context, sku *catalog.SKU) error {
	var model models.SKUModel
	model.FromDomain(sku)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Retailers").Save(&model).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrAlreadyExists
			}
			return err
		}

		// Replace entitlements wholesale
		if err := tx.Where("sku_id = ?", model.ID).
			Delete(&models.RetailerSKUModel{}).Error; err != nil {
			return err
		}
		for i := range model.Retailers {
			model.Retailers[i].SKUID = model.ID
			if err := tx.Create(&model.Retailers[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Ensure GormSKURepository implements SKURepository
var _ catalog.SKURepository = (*GormSKURepository)(nil)

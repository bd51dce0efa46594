// Package models contains the GORM persistence models. Domain entities stay
// free of storage tags; each model converts to and from its domain
// counterpart.
package models

import (
	"time"

	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BaseModel provides common persistence fields for all models
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// AllModels returns every model for migration in tests
func AllModels() []any {
	return []any{
		&RetailerModel{},
		&SKUModel{},
		&RetailerSKUModel{},
		&OrderModel{},
		&OrderLineModel{},
		&ErpOrderMapModel{},
		&OrderEventModel{},
	}
}

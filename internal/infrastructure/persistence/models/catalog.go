package models

import (
	"time"

	"github.com/retailportal/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SKUModel is the persistence model for SKU
type SKUModel struct {
	BaseModel
	Code      string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Name      string          `gorm:"type:varchar(200);not null"`
	PackSize  int             `gorm:"not null;default:1"`
	BasePrice decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Active    bool            `gorm:"not null;default:true"`
	// ErpStockItemID is populated by the out-of-band stock id reconciliation
	ErpStockItemID *string            `gorm:"type:varchar(100)"`
	Retailers      []RetailerSKUModel `gorm:"foreignKey:SKUID;references:ID"`
}

// TableName returns the table name for GORM
func (SKUModel) TableName() string {
	return "skus"
}

// RetailerSKUModel links SKUs to entitled retailers
type RetailerSKUModel struct {
	SKUID         uuid.UUID        `gorm:"type:uuid;primaryKey"`
	RetailerID    uuid.UUID        `gorm:"type:uuid;primaryKey;index"`
	PriceOverride *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Active        bool             `gorm:"not null;default:true"`
	CreatedAt     time.Time        `gorm:"not null"`
}

// TableName returns the table name for GORM
func (RetailerSKUModel) TableName() string {
	return "retailer_skus"
}

// ToDomain converts the persistence model to a domain SKU
func (m *SKUModel) ToDomain() *catalog.SKU {
	sku := &catalog.SKU{
		BaseEntity:     m.BaseModel.ToDomain(),
		Code:           m.Code,
		Name:           m.Name,
		PackSize:       m.PackSize,
		BasePrice:      m.BasePrice,
		Active:         m.Active,
		ErpStockItemID: m.ErpStockItemID,
		Retailers:      make([]catalog.RetailerSKU, len(m.Retailers)),
	}
	for i, rs := range m.Retailers {
		sku.Retailers[i] = catalog.RetailerSKU{
			SKUID:         rs.SKUID,
			RetailerID:    rs.RetailerID,
			PriceOverride: rs.PriceOverride,
			Active:        rs.Active,
		}
	}
	return sku
}

// FromDomain populates the persistence model from a domain SKU
func (m *SKUModel) FromDomain(s *catalog.SKU) {
	m.FromDomainBaseEntity(s.BaseEntity)
	m.Code = s.Code
	m.Name = s.Name
	m.PackSize = s.PackSize
	m.BasePrice = s.BasePrice
	m.Active = s.Active
	m.ErpStockItemID = s.ErpStockItemID
	m.Retailers = make([]RetailerSKUModel, len(s.Retailers))
	for i, rs := range s.Retailers {
		m.Retailers[i] = RetailerSKUModel{
			SKUID:         rs.SKUID,
			RetailerID:    rs.RetailerID,
			PriceOverride: rs.PriceOverride,
			Active:        rs.Active,
		}
	}
}

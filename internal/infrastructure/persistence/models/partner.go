package models

import (
	"github.com/retailportal/backend/internal/domain/partner"
	"github.com/shopspring/decimal"
)

// RetailerModel is the persistence model for Retailer
type RetailerModel struct {
	BaseModel
	Code         string           `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name         string           `gorm:"type:varchar(200);not null"`
	ContactEmail string           `gorm:"type:varchar(200);not null"`
	Phone        string           `gorm:"type:varchar(50)"`
	AddressLine1 string           `gorm:"type:varchar(200)"`
	AddressLine2 string           `gorm:"type:varchar(200)"`
	AddressLine3 string           `gorm:"type:varchar(200)"`
	City         string           `gorm:"type:varchar(100)"`
	County       string           `gorm:"type:varchar(100)"`
	Postcode     string           `gorm:"type:varchar(20)"`
	Country      string           `gorm:"type:varchar(100)"`
	CasePrice    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	Active       bool             `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (RetailerModel) TableName() string {
	return "retailers"
}

// ToDomain converts the persistence model to a domain Retailer
func (m *RetailerModel) ToDomain() *partner.Retailer {
	return &partner.Retailer{
		BaseEntity:   m.BaseModel.ToDomain(),
		Code:         m.Code,
		Name:         m.Name,
		ContactEmail: m.ContactEmail,
		Phone:        m.Phone,
		AddressLine1: m.AddressLine1,
		AddressLine2: m.AddressLine2,
		AddressLine3: m.AddressLine3,
		City:         m.City,
		County:       m.County,
		Postcode:     m.Postcode,
		Country:      m.Country,
		CasePrice:    m.CasePrice,
		Active:       m.Active,
	}
}

// FromDomain populates the persistence model from a domain Retailer
func (m *RetailerModel) FromDomain(r *partner.Retailer) {
	m.FromDomainBaseEntity(r.BaseEntity)
	m.Code = r.Code
	m.Name = r.Name
	m.ContactEmail = r.ContactEmail
	m.Phone = r.Phone
	m.AddressLine1 = r.AddressLine1
	m.AddressLine2 = r.AddressLine2
	m.AddressLine3 = r.AddressLine3
	m.City = r.City
	m.County = r.County
	m.Postcode = r.Postcode
	m.Country = r.Country
	m.CasePrice = r.CasePrice
	m.Active = r.Active
}

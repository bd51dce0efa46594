package models

import (
	"time"

	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderModel is the persistence model for Order
type OrderModel struct {
	BaseModel
	RetailerID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	ExternalRef           string            `gorm:"type:varchar(50);not null;uniqueIndex"`
	PONumber              string            `gorm:"type:varchar(100)"`
	Notes                 string            `gorm:"type:text"`
	RequestedDeliveryDate *time.Time        `gorm:""`
	TotalAmount           decimal.Decimal   `gorm:"type:decimal(18,4);not null;default:0"`
	Status                string            `gorm:"type:varchar(30);not null;index"`
	IsTest                bool              `gorm:"not null;default:false"`
	Lines                 []OrderLineModel  `gorm:"foreignKey:OrderID;references:ID"`
	ErpMap                *ErpOrderMapModel `gorm:"foreignKey:OrderID;references:ID"`
}

// TableName returns the table name for GORM
func (OrderModel) TableName() string {
	return "orders"
}

// OrderLineModel is the persistence model for OrderLine
type OrderLineModel struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	SKUID     uuid.UUID       `gorm:"type:uuid;not null"`
	SKUCode   string          `gorm:"type:varchar(100);not null"`
	SKUName   string          `gorm:"type:varchar(200);not null"`
	Qty       int             `gorm:"not null"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	LineTotal decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (OrderLineModel) TableName() string {
	return "order_lines"
}

// ErpOrderMapModel records the ERP-side identifier for a pushed order.
// The unique index on OrderID enforces at most one mapping per order.
type ErpOrderMapModel struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	ErpOrderID string    `gorm:"type:varchar(100);not null;index"`
	CreatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (ErpOrderMapModel) TableName() string {
	return "erp_order_maps"
}

// OrderEventModel is the persistence model for the append-only event log
type OrderEventModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null;index"`
	Kind      string    `gorm:"type:varchar(30);not null"`
	Payload   []byte    `gorm:"type:jsonb"`
	CreatedAt time.Time `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (OrderEventModel) TableName() string {
	return "order_events"
}

// ToDomain converts the persistence model to a domain Order
func (m *OrderModel) ToDomain() *ordering.Order {
	order := &ordering.Order{
		BaseEntity:            m.BaseModel.ToDomain(),
		RetailerID:            m.RetailerID,
		ExternalRef:           m.ExternalRef,
		PONumber:              m.PONumber,
		Notes:                 m.Notes,
		RequestedDeliveryDate: m.RequestedDeliveryDate,
		TotalAmount:           m.TotalAmount,
		Status:                ordering.OrderStatus(m.Status),
		IsTest:                m.IsTest,
		Lines:                 make([]ordering.OrderLine, len(m.Lines)),
	}
	for i, l := range m.Lines {
		order.Lines[i] = l.ToDomain()
	}
	if m.ErpMap != nil {
		order.ErpMap = m.ErpMap.ToDomain()
	}
	return order
}

// FromDomain populates the persistence model from a domain Order
func (m *OrderModel) FromDomain(o *ordering.Order) {
	m.FromDomainBaseEntity(o.BaseEntity)
	m.RetailerID = o.RetailerID
	m.ExternalRef = o.ExternalRef
	m.PONumber = o.PONumber
	m.Notes = o.Notes
	m.RequestedDeliveryDate = o.RequestedDeliveryDate
	m.TotalAmount = o.TotalAmount
	m.Status = o.Status.String()
	m.IsTest = o.IsTest
	m.Lines = make([]OrderLineModel, len(o.Lines))
	for i, l := range o.Lines {
		m.Lines[i].FromDomain(l)
	}
}

// ToDomain converts the persistence model to a domain OrderLine
func (m *OrderLineModel) ToDomain() ordering.OrderLine {
	return ordering.OrderLine{
		ID:        m.ID,
		OrderID:   m.OrderID,
		SKUID:     m.SKUID,
		SKUCode:   m.SKUCode,
		SKUName:   m.SKUName,
		Qty:       m.Qty,
		UnitPrice: m.UnitPrice,
		LineTotal: m.LineTotal,
		CreatedAt: m.CreatedAt,
	}
}

// FromDomain populates the persistence model from a domain OrderLine
func (m *OrderLineModel) FromDomain(l ordering.OrderLine) {
	m.ID = l.ID
	m.OrderID = l.OrderID
	m.SKUID = l.SKUID
	m.SKUCode = l.SKUCode
	m.SKUName = l.SKUName
	m.Qty = l.Qty
	m.UnitPrice = l.UnitPrice
	m.LineTotal = l.LineTotal
	m.CreatedAt = l.CreatedAt
}

// ToDomain converts the persistence model to a domain ErpOrderMap
func (m *ErpOrderMapModel) ToDomain() *ordering.ErpOrderMap {
	return &ordering.ErpOrderMap{
		ID:         m.ID,
		OrderID:    m.OrderID,
		ErpOrderID: m.ErpOrderID,
		CreatedAt:  m.CreatedAt,
	}
}

// ToDomain converts the persistence model to a domain OrderEvent
func (m *OrderEventModel) ToDomain() ordering.OrderEvent {
	return ordering.OrderEvent{
		ID:        m.ID,
		OrderID:   m.OrderID,
		Kind:      ordering.EventKind(m.Kind),
		Payload:   m.Payload,
		CreatedAt: m.CreatedAt,
	}
}

package ordering

import (
	"time"

	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the lifecycle status of an order
type OrderStatus string

const (
	OrderStatusSubmitted    OrderStatus = "SUBMITTED"
	OrderStatusCreatedInERP OrderStatus = "CREATED_IN_LINNWORKS"
	OrderStatusFailed       OrderStatus = "FAILED"
	OrderStatusProcessing   OrderStatus = "PROCESSING"
	OrderStatusShipped      OrderStatus = "SHIPPED"
	OrderStatusDelivered    OrderStatus = "DELIVERED"
	OrderStatusCancelled    OrderStatus = "CANCELLED"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusSubmitted, OrderStatusCreatedInERP, OrderStatusFailed,
		OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status.
// No transition ever returns to SUBMITTED.
func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	switch s {
	case OrderStatusSubmitted:
		return target == OrderStatusCreatedInERP || target == OrderStatusFailed || target == OrderStatusCancelled
	case OrderStatusFailed:
		return target == OrderStatusCreatedInERP || target == OrderStatusFailed || target == OrderStatusCancelled
	case OrderStatusCreatedInERP:
		return target == OrderStatusProcessing || target == OrderStatusShipped ||
			target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusProcessing:
		return target == OrderStatusShipped || target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusShipped:
		return target == OrderStatusDelivered || target == OrderStatusCancelled
	case OrderStatusDelivered, OrderStatusCancelled:
		return false // Terminal states
	}
	return false
}

// EventKind tags an entry in the order event log
type EventKind string

const (
	EventOrderCreated    EventKind = "ORDER_CREATED"
	EventERPRequest      EventKind = "LINNWORKS_REQUEST"
	EventERPSuccess      EventKind = "LINNWORKS_SUCCESS"
	EventERPFailure      EventKind = "LINNWORKS_FAILURE"
	EventRetryAttempt    EventKind = "RETRY_ATTEMPT"
	EventOrderProcessing EventKind = "ORDER_PROCESSING"
	EventOrderShipped    EventKind = "ORDER_SHIPPED"
	EventOrderDelivered  EventKind = "ORDER_DELIVERED"
	EventOrderCancelled  EventKind = "ORDER_CANCELLED"
)

// EventKindForStatus returns the event-log kind recorded alongside a
// transition into the given status.
func EventKindForStatus(status OrderStatus) EventKind {
	switch status {
	case OrderStatusProcessing:
		return EventOrderProcessing
	case OrderStatusShipped:
		return EventOrderShipped
	case OrderStatusDelivered:
		return EventOrderDelivered
	case OrderStatusCancelled:
		return EventOrderCancelled
	}
	return ""
}

// OrderLine is a line item of an order. Prices are snapshots captured at
// order time; later catalog changes must not affect persisted lines.
type OrderLine struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	SKUID     uuid.UUID
	SKUCode   string
	SKUName   string
	Qty       int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	CreatedAt time.Time
}

// ErpOrderMap links an order to the ERP's own order identifier. Its presence
// is the single source of truth for whether the order has been pushed.
type ErpOrderMap struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	ErpOrderID string
	CreatedAt  time.Time
}

// OrderEvent is an append-only audit entry for an order
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	Kind      EventKind
	Payload   []byte // optional JSON detail
	CreatedAt time.Time
}

// Order is the aggregate root for a submitted order
type Order struct {
	shared.BaseEntity
	RetailerID            uuid.UUID
	ExternalRef           string
	PONumber              string
	Notes                 string
	RequestedDeliveryDate *time.Time
	TotalAmount           decimal.Decimal
	Status                OrderStatus
	IsTest                bool
	Lines                 []OrderLine
	ErpMap                *ErpOrderMap
}

// NewOrder creates a submitted order from priced lines. The total is the sum
// of line totals and is immutable after creation.
func NewOrder(retailerID uuid.UUID, externalRef string, lines []OrderLine) (*Order, error) {
	if retailerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_RETAILER", "Retailer ID cannot be empty")
	}
	if externalRef == "" {
		return nil, shared.NewDomainError("INVALID_REFERENCE", "External reference cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY", "Order must contain at least one line item")
	}

	order := &Order{
		BaseEntity:  shared.NewBaseEntity(),
		RetailerID:  retailerID,
		ExternalRef: externalRef,
		Status:      OrderStatusSubmitted,
		TotalAmount: decimal.Zero,
	}
	for _, line := range lines {
		line.OrderID = order.ID
		if line.ID == uuid.Nil {
			line.ID = uuid.New()
		}
		order.Lines = append(order.Lines, line)
		order.TotalAmount = order.TotalAmount.Add(line.LineTotal)
	}
	return order, nil
}

// IsSynced reports whether the order has been pushed to the ERP
func (o *Order) IsSynced() bool {
	return o.ErpMap != nil
}

// CanRetrySync reports whether a failed push may be retried: the order must
// be FAILED and must not already have an ERP mapping.
func (o *Order) CanRetrySync() bool {
	return o.Status == OrderStatusFailed && o.ErpMap == nil
}

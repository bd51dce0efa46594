package ordering

import (
	"time"

	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmitOrderLineInput is one line of an order submission
type SubmitOrderLineInput struct {
	SKUCode string `json:"sku_code" binding:"required,min=1,max=100"`
	Qty     int    `json:"qty" binding:"required"`
}

// SubmitOrderRequest represents an order submission from the portal
type SubmitOrderRequest struct {
	Lines                 []SubmitOrderLineInput `json:"lines" binding:"required,min=1"`
	PONumber              string                 `json:"po_number" binding:"max=100"`
	Notes                 string                 `json:"notes" binding:"max=2000"`
	RequestedDeliveryDate *time.Time             `json:"requested_delivery_date"`
	IsTest                bool                   `json:"is_test"`
}

// OrderListFilter represents filter options for the order list
type OrderListFilter struct {
	Status   string `form:"status"`
	Page     int    `form:"page"`
	PageSize int    `form:"page_size" binding:"omitempty,max=100"`
}

// OrderLineResponse represents an order line in API responses
type OrderLineResponse struct {
	ID        uuid.UUID       `json:"id"`
	SKUCode   string          `json:"sku_code"`
	SKUName   string          `json:"sku_name"`
	Qty       int             `json:"qty"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
}

// OrderResponse represents an order in API responses
type OrderResponse struct {
	ID                    uuid.UUID           `json:"id"`
	RetailerID            uuid.UUID           `json:"retailer_id"`
	ExternalRef           string              `json:"external_ref"`
	PONumber              string              `json:"po_number,omitempty"`
	Notes                 string              `json:"notes,omitempty"`
	RequestedDeliveryDate *time.Time          `json:"requested_delivery_date,omitempty"`
	TotalAmount           decimal.Decimal     `json:"total_amount"`
	Status                string              `json:"status"`
	IsTest                bool                `json:"is_test"`
	ErpOrderID            string              `json:"erp_order_id,omitempty"`
	Lines                 []OrderLineResponse `json:"lines"`
	CreatedAt             time.Time           `json:"created_at"`
	UpdatedAt             time.Time           `json:"updated_at"`
}

// SubmitOrderResponse is the result of an order submission. Duplicate is
// set when the submission matched an existing same-day order and that
// order was returned instead of creating a new one.
type SubmitOrderResponse struct {
	Order     OrderResponse `json:"order"`
	Duplicate bool          `json:"duplicate"`
}

// OrderEventResponse represents an audit log entry in API responses
type OrderEventResponse struct {
	ID        uuid.UUID `json:"id"`
	Kind      string    `json:"kind"`
	Payload   string    `json:"payload,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToOrderResponse converts a domain order to its API representation
func ToOrderResponse(order *ordering.Order) OrderResponse {
	resp := OrderResponse{
		ID:                    order.ID,
		RetailerID:            order.RetailerID,
		ExternalRef:           order.ExternalRef,
		PONumber:              order.PONumber,
		Notes:                 order.Notes,
		RequestedDeliveryDate: order.RequestedDeliveryDate,
		TotalAmount:           order.TotalAmount,
		Status:                order.Status.String(),
		IsTest:                order.IsTest,
		Lines:                 make([]OrderLineResponse, len(order.Lines)),
		CreatedAt:             order.CreatedAt,
		UpdatedAt:             order.UpdatedAt,
	}
	if order.ErpMap != nil {
		resp.ErpOrderID = order.ErpMap.ErpOrderID
	}
	for i, line := range order.Lines {
		resp.Lines[i] = OrderLineResponse{
			ID:        line.ID,
			SKUCode:   line.SKUCode,
			SKUName:   line.SKUName,
			Qty:       line.Qty,
			UnitPrice: line.UnitPrice,
			LineTotal: line.LineTotal,
		}
	}
	return resp
}

// ToOrderEventResponses converts domain events to their API representation
func ToOrderEventResponses(events []ordering.OrderEvent) []OrderEventResponse {
	out := make([]OrderEventResponse, len(events))
	for i, event := range events {
		out[i] = OrderEventResponse{
			ID:        event.ID,
			Kind:      string(event.Kind),
			Payload:   string(event.Payload),
			CreatedAt: event.CreatedAt,
		}
	}
	return out
}

// ValidationFailedError carries field-level validation failures up to the
// HTTP layer, which renders them as a 422 with per-field details.
type ValidationFailedError struct {
	Result ordering.ValidationResult
}

// Error implements the error interface
func (e *ValidationFailedError) Error() string {
	if len(e.Result.Errors) == 0 {
		return "order validation failed"
	}
	return "order validation failed: " + e.Result.Errors[0].Message
}

package ordering

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/retailportal/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WebhookEvent is a status notification pushed by the ERP. The sender
// identifies the order by its own order id, falling back to the portal
// reference. Field names follow Linnworks' webhook body.
type WebhookEvent struct {
	EventName       string          `json:"event" binding:"required"`
	ErpOrderID      string          `json:"pkOrderId"`
	ReferenceNumber string          `json:"orderReference"`
	Data            json.RawMessage `json:"data,omitempty"`
}

// WebhookResult reports what a webhook delivery changed
type WebhookResult struct {
	Applied        bool   `json:"applied"`
	OrderID        string `json:"orderId,omitempty"`
	OrderRef       string `json:"orderReference,omitempty"`
	PreviousStatus string `json:"previousStatus,omitempty"`
	NewStatus      string `json:"newStatus,omitempty"`
	Reason         string `json:"reason,omitempty"`
}

// Sources recorded in transition event payloads, so the audit trail
// distinguishes webhook-driven changes from reconciliation-driven ones
const (
	statusSourceSync    = "linnworks_sync"
	statusSourceWebhook = "linnworks_webhook"
)

// statusChangeDetail is the event-log payload appended with every
// ERP-observed status transition
type statusChangeDetail struct {
	PreviousStatus string `json:"previousStatus"`
	NewStatus      string `json:"newStatus"`
	Source         string `json:"source"`
	Event          string `json:"event,omitempty"`
	ErpOrderID     string `json:"pkOrderId,omitempty"`
	Processed      bool   `json:"processed,omitempty"`
	InvoicePrinted bool   `json:"invoicePrinted,omitempty"`
}

// WebhookService applies ERP push notifications to orders. Deliveries are
// at-least-once and unordered, so replays and out-of-sequence events must
// land as no-ops rather than failures.
type WebhookService struct {
	orders ordering.OrderRepository
	logger *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(orders ordering.OrderRepository, logger *zap.Logger) *WebhookService {
	return &WebhookService{orders: orders, logger: logger}
}

// Handle resolves the order an event refers to and advances its status.
// Unknown event names and transitions the lifecycle forbids are accepted
// and ignored so the sender never retries them forever.
func (s *WebhookService) Handle(ctx context.Context, event WebhookEvent) (*WebhookResult, error) {
	order, err := s.resolve(ctx, event)
	if err != nil {
		return nil, err
	}

	target, kind := statusForEventName(event.EventName)
	if target == "" {
		s.logger.Info("ignoring unknown webhook event",
			zap.String("event", event.EventName),
			zap.String("external_ref", order.ExternalRef))
		return &WebhookResult{OrderID: order.ID.String(), OrderRef: order.ExternalRef, Reason: "unknown event"}, nil
	}

	if order.Status == target {
		return &WebhookResult{
			OrderID:        order.ID.String(),
			OrderRef:       order.ExternalRef,
			PreviousStatus: order.Status.String(),
			NewStatus:      target.String(),
			Reason:         "already applied",
		}, nil
	}
	if !order.Status.CanTransitionTo(target) {
		s.logger.Info("ignoring webhook transition the lifecycle forbids",
			zap.String("external_ref", order.ExternalRef),
			zap.String("from", order.Status.String()),
			zap.String("to", target.String()))
		return &WebhookResult{
			OrderID:        order.ID.String(),
			OrderRef:       order.ExternalRef,
			PreviousStatus: order.Status.String(),
			Reason:         "transition not allowed",
		}, nil
	}

	detail, _ := json.Marshal(statusChangeDetail{
		PreviousStatus: order.Status.String(),
		NewStatus:      target.String(),
		Source:         statusSourceWebhook,
		Event:          event.EventName,
		ErpOrderID:     event.ErpOrderID,
	})
	if err := s.orders.UpdateStatus(ctx, order.ID, target, kind, detail); err != nil {
		return nil, err
	}

	s.logger.Info("webhook applied",
		zap.String("external_ref", order.ExternalRef),
		zap.String("event", event.EventName),
		zap.String("from", order.Status.String()),
		zap.String("to", target.String()))

	return &WebhookResult{
		Applied:        true,
		OrderID:        order.ID.String(),
		OrderRef:       order.ExternalRef,
		PreviousStatus: order.Status.String(),
		NewStatus:      target.String(),
	}, nil
}

// resolve finds the order, preferring the ERP order id over the portal
// reference
func (s *WebhookService) resolve(ctx context.Context, event WebhookEvent) (*ordering.Order, error) {
	if event.ErpOrderID != "" {
		order, err := s.orders.FindByErpOrderID(ctx, event.ErpOrderID)
		if err == nil {
			return order, nil
		}
		if !errors.Is(err, shared.ErrNotFound) {
			return nil, err
		}
	}
	if event.ReferenceNumber != "" {
		return s.orders.FindByExternalRef(ctx, event.ReferenceNumber)
	}
	return nil, shared.ErrNotFound
}

// statusForEventName maps sender event names to order statuses. Matching
// is case-insensitive and tolerant of prefixes like "order." or "order_".
func statusForEventName(name string) (ordering.OrderStatus, ordering.EventKind) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	normalized = strings.TrimPrefix(normalized, "order.")
	normalized = strings.TrimPrefix(normalized, "order_")

	switch normalized {
	case "invoice_printed", "po_generated", "processing":
		return ordering.OrderStatusProcessing, ordering.EventOrderProcessing
	case "shipped", "dispatched":
		return ordering.OrderStatusShipped, ordering.EventOrderShipped
	case "delivered":
		return ordering.OrderStatusDelivered, ordering.EventOrderDelivered
	case "cancelled", "canceled":
		return ordering.OrderStatusCancelled, ordering.EventOrderCancelled
	}
	return "", ""
}

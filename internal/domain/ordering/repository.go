package ordering

import (
	"context"

	"github.com/google/uuid"
)

// ListFilter narrows order listings
type ListFilter struct {
	Status   *OrderStatus
	Page     int
	PageSize int
}

// StatusChange records a reconciliation- or webhook-driven transition
type StatusChange struct {
	OrderID     uuid.UUID
	ExternalRef string
	Previous    OrderStatus
	New         OrderStatus
}

// OrderRepository defines persistence operations for orders, their lines,
// ERP mappings and the append-only event log.
//
// The compound operations (Create, MarkSynced, MarkSyncFailed,
// UpdateStatus) are transactional: either every write inside them commits
// or none does. Implementations must enforce uniqueness of
// Order.ExternalRef and of one ErpOrderMap per order at the storage layer
// and report violations as shared.ErrAlreadyExists.
type OrderRepository interface {
	// Create persists the order, its lines and an ORDER_CREATED event in
	// one transaction.
	Create(ctx context.Context, order *Order) error

	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByExternalRef(ctx context.Context, externalRef string) (*Order, error)
	FindByErpOrderID(ctx context.Context, erpOrderID string) (*Order, error)
	FindForRetailer(ctx context.Context, retailerID uuid.UUID, filter ListFilter) ([]Order, int64, error)

	// FindSyncCandidates returns orders whose ERP-side progress should be
	// polled: status CREATED_IN_LINNWORKS or PROCESSING with a mapping.
	FindSyncCandidates(ctx context.Context) ([]Order, error)

	// MarkSynced sets the order status to CREATED_IN_LINNWORKS, creates the
	// ERP mapping and appends a LINNWORKS_SUCCESS event in one transaction.
	MarkSynced(ctx context.Context, orderID uuid.UUID, erpOrderID string, payload []byte) error

	// MarkSyncFailed sets the order status to FAILED and appends a
	// LINNWORKS_FAILURE event in one transaction.
	MarkSyncFailed(ctx context.Context, orderID uuid.UUID, payload []byte) error

	// UpdateStatus transitions the order and appends the paired event entry
	// in one transaction.
	UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus OrderStatus, kind EventKind, payload []byte) error

	// AppendEvent adds a single audit entry outside any status change
	AppendEvent(ctx context.Context, orderID uuid.UUID, kind EventKind, payload []byte) error

	// ListEvents returns the order's event log ordered by creation time
	ListEvents(ctx context.Context, orderID uuid.UUID) ([]OrderEvent, error)
}

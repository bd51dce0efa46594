package ordering

import (
	"context"
	"encoding/json"
	"time"

	"github.com/retailportal/backend/internal/domain/catalog"
	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/retailportal/backend/internal/domain/partner"
	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PayloadBuilder translates a priced order into the ERP create-order schema
type PayloadBuilder interface {
	Build(order *ordering.Order, retailer *partner.Retailer, skus map[string]*catalog.SKU, now time.Time) (erp.OrderPayload, error)
}

// SyncService pushes orders into the ERP and records the outcome. A push
// is a state machine over the order row: the request is journaled, the
// ERP is called, and either the mapping plus CREATED_IN_LINNWORKS or a
// FAILED status is committed. ERP rejection is a recorded outcome, not an
// error; callers get the updated order either way.
type SyncService struct {
	orders    ordering.OrderRepository
	retailers partner.RetailerRepository
	skus      catalog.SKURepository
	client    erp.Client
	builder   PayloadBuilder
	logger    *zap.Logger
}

// NewSyncService creates a new SyncService
func NewSyncService(
	orders ordering.OrderRepository,
	retailers partner.RetailerRepository,
	skus catalog.SKURepository,
	client erp.Client,
	builder PayloadBuilder,
	logger *zap.Logger,
) *SyncService {
	return &SyncService{
		orders:    orders,
		retailers: retailers,
		skus:      skus,
		client:    client,
		builder:   builder,
		logger:    logger,
	}
}

// Push sends one order to the ERP. Pushing an already-synced order is a
// no-op returning the current state.
func (s *SyncService) Push(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.IsSynced() {
		return order, nil
	}

	retailer, err := s.retailers.FindByID(ctx, order.RetailerID)
	if err != nil {
		return nil, err
	}

	skus, err := s.loadSKUs(ctx, order)
	if err != nil {
		return nil, err
	}

	payload, err := s.builder.Build(order, retailer, skus, time.Now())
	if err != nil {
		return s.recordFailure(ctx, order, err.Error())
	}

	requestDetail, _ := json.Marshal(payload)
	if err := s.orders.AppendEvent(ctx, order.ID, ordering.EventERPRequest, requestDetail); err != nil {
		return nil, err
	}

	results, err := s.client.CreateOrders(ctx, []erp.OrderPayload{payload})
	if err != nil {
		s.logger.Error("ERP push failed",
			zap.String("order_id", order.ID.String()),
			zap.String("external_ref", order.ExternalRef),
			zap.Error(err))
		return s.recordFailure(ctx, order, err.Error())
	}
	if len(results) != 1 {
		return s.recordFailure(ctx, order, "unexpected result count from ERP")
	}

	result := results[0]
	if !result.Success {
		s.logger.Warn("ERP rejected order",
			zap.String("order_id", order.ID.String()),
			zap.String("external_ref", order.ExternalRef),
			zap.String("error", result.Error))
		return s.recordFailure(ctx, order, result.Error)
	}

	successDetail, _ := json.Marshal(result)
	if err := s.orders.MarkSynced(ctx, order.ID, result.ErpOrderID, successDetail); err != nil {
		return nil, err
	}

	// New channel orders may land in the held-for-review queue; releasing
	// them is best effort
	if err := s.client.UnparkOrder(ctx, result.ErpOrderID); err != nil {
		s.logger.Warn("unpark failed",
			zap.String("erp_order_id", result.ErpOrderID),
			zap.Error(err))
	}

	s.logger.Info("order pushed to ERP",
		zap.String("order_id", order.ID.String()),
		zap.String("external_ref", order.ExternalRef),
		zap.String("erp_order_id", result.ErpOrderID))

	return s.orders.FindByID(ctx, order.ID)
}

// Retry re-pushes a failed order. Only orders in FAILED without an ERP
// mapping are eligible.
func (s *SyncService) Retry(ctx context.Context, orderID uuid.UUID) (*ordering.Order, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if !order.CanRetrySync() {
		return nil, shared.NewDomainError("NOT_RETRYABLE",
			"Only failed orders without an ERP mapping can be retried")
	}

	if err := s.orders.AppendEvent(ctx, order.ID, ordering.EventRetryAttempt, nil); err != nil {
		return nil, err
	}
	return s.Push(ctx, orderID)
}

// loadSKUs fetches the catalog entries for every line of the order
func (s *SyncService) loadSKUs(ctx context.Context, order *ordering.Order) (map[string]*catalog.SKU, error) {
	codes := make([]string, len(order.Lines))
	for i, line := range order.Lines {
		codes[i] = line.SKUCode
	}

	found, err := s.skus.FindByCodes(ctx, codes)
	if err != nil {
		return nil, err
	}

	skus := make(map[string]*catalog.SKU, len(found))
	for i := range found {
		skus[found[i].Code] = &found[i]
	}
	return skus, nil
}

// recordFailure marks the order FAILED and returns its updated state
func (s *SyncService) recordFailure(ctx context.Context, order *ordering.Order, message string) (*ordering.Order, error) {
	detail, _ := json.Marshal(map[string]string{"error": message})
	if err := s.orders.MarkSyncFailed(ctx, order.ID, detail); err != nil {
		return nil, err
	}
	return s.orders.FindByID(ctx, order.ID)
}

package ordering

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/retailportal/backend/internal/domain/ordering"
	"go.uber.org/zap"
)

// ReconcileReport summarizes one reconciliation run
type ReconcileReport struct {
	Checked int      `json:"checked"`
	Synced  int      `json:"synced"`
	Errors  int      `json:"errors"`
	Details []string `json:"details,omitempty"`
}

// ReconcileService polls the ERP for the progress of pushed orders and
// advances their portal status. It only ever promotes to PROCESSING, from
// the processed-orders set or the invoice flag of open orders; shipped,
// delivered and cancelled come from the webhook path alone.
type ReconcileService struct {
	orders ordering.OrderRepository
	client erp.Client
	logger *zap.Logger
}

// NewReconcileService creates a new ReconcileService
func NewReconcileService(orders ordering.OrderRepository, client erp.Client, logger *zap.Logger) *ReconcileService {
	return &ReconcileService{
		orders: orders,
		client: client,
		logger: logger,
	}
}

// Run executes one reconciliation pass. A failure on one order is
// recorded in the report and does not stop the rest of the batch.
func (s *ReconcileService) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}

	candidates, err := s.orders.FindSyncCandidates(ctx)
	if err != nil {
		return nil, err
	}
	report.Checked = len(candidates)
	if len(candidates) == 0 {
		return report, nil
	}

	erpIDs := make([]string, 0, len(candidates))
	byErpID := make(map[string]*ordering.Order, len(candidates))
	for i := range candidates {
		order := &candidates[i]
		if order.ErpMap == nil {
			continue
		}
		erpIDs = append(erpIDs, order.ErpMap.ErpOrderID)
		byErpID[order.ErpMap.ErpOrderID] = order
	}

	processed, err := s.client.GetProcessedOrderIDs(ctx, erpIDs)
	if err != nil {
		return nil, err
	}
	processedSet := make(map[string]bool, len(processed))
	for _, id := range processed {
		processedSet[id] = true
	}

	// Open-order details drive the intermediate PROCESSING step; a failure
	// here only affects that step, so log and carry on
	openInfo := make(map[string]erp.OrderInfo)
	if infos, err := s.client.GetOrdersByID(ctx, erpIDs); err != nil {
		s.logger.Warn("open-order lookup failed during reconciliation", zap.Error(err))
	} else {
		for _, info := range infos {
			openInfo[info.ErpOrderID] = info
		}
	}

	for _, erpID := range erpIDs {
		order := byErpID[erpID]
		target, kind := nextStatus(order, processedSet[erpID], openInfo[erpID])
		if target == "" {
			continue
		}

		detail, _ := json.Marshal(statusChangeDetail{
			PreviousStatus: order.Status.String(),
			NewStatus:      target.String(),
			Source:         statusSourceSync,
			ErpOrderID:     erpID,
			Processed:      processedSet[erpID],
			InvoicePrinted: openInfo[erpID].InvoicePrinted,
		})
		if err := s.orders.UpdateStatus(ctx, order.ID, target, kind, detail); err != nil {
			report.Errors++
			report.Details = append(report.Details,
				fmt.Sprintf("%s: %v", order.ExternalRef, err))
			s.logger.Error("status update failed during reconciliation",
				zap.String("order_id", order.ID.String()),
				zap.String("target", target.String()),
				zap.Error(err))
			continue
		}

		report.Synced++
		report.Details = append(report.Details,
			fmt.Sprintf("%s: %s -> %s", order.ExternalRef, order.Status, target))
		s.logger.Info("order status reconciled",
			zap.String("order_id", order.ID.String()),
			zap.String("external_ref", order.ExternalRef),
			zap.String("from", order.Status.String()),
			zap.String("to", target.String()))
	}

	return report, nil
}

// nextStatus decides the advancement for one order. Membership in the
// processed set promotes to PROCESSING unless the order is already
// PROCESSING or DELIVERED; otherwise a printed invoice promotes an order
// that is exactly CREATED_IN_LINNWORKS. Empty means no change.
func nextStatus(order *ordering.Order, processed bool, info erp.OrderInfo) (ordering.OrderStatus, ordering.EventKind) {
	if processed {
		if order.Status != ordering.OrderStatusProcessing && order.Status != ordering.OrderStatusDelivered {
			return ordering.OrderStatusProcessing, ordering.EventOrderProcessing
		}
		return "", ""
	}
	if info.InvoicePrinted && order.Status == ordering.OrderStatusCreatedInERP {
		return ordering.OrderStatusProcessing, ordering.EventOrderProcessing
	}
	return "", ""
}

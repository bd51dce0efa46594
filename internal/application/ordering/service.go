package ordering

import (
	"context"
	"errors"
	"time"

	"github.com/retailportal/backend/internal/domain/catalog"
	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/retailportal/backend/internal/domain/partner"
	"github.com/retailportal/backend/internal/domain/shared"
	"github.com/retailportal/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderService handles order submission and reads. Submission is
// idempotent per retailer, cart content and calendar day: resubmitting the
// same cart on the same day returns the original order instead of creating
// a second one.
type OrderService struct {
	orders    ordering.OrderRepository
	retailers partner.RetailerRepository
	skus      catalog.SKURepository
	validator *Validator
	sync      *SyncService
	cfg       config.OrderingConfig
	logger    *zap.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders ordering.OrderRepository,
	retailers partner.RetailerRepository,
	skus catalog.SKURepository,
	validator *Validator,
	sync *SyncService,
	cfg config.OrderingConfig,
	logger *zap.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		retailers: retailers,
		skus:      skus,
		validator: validator,
		sync:      sync,
		cfg:       cfg,
		logger:    logger,
	}
}

// Create validates, prices and persists a submission, then pushes the new
// order to the ERP. The returned order reflects the push outcome: synced
// orders come back CREATED_IN_LINNWORKS, rejected ones FAILED.
func (s *OrderService) Create(ctx context.Context, retailerID uuid.UUID, req SubmitOrderRequest) (*SubmitOrderResponse, error) {
	retailer, err := s.retailers.FindByID(ctx, retailerID)
	if err != nil {
		return nil, err
	}

	result := s.validator.ValidateRetailer(retailer)
	if !result.Valid() {
		return nil, &ValidationFailedError{Result: result}
	}

	externalRef := s.externalRef(retailerID, req)
	if existing, err := s.orders.FindByExternalRef(ctx, externalRef); err == nil {
		s.logger.Info("duplicate submission, returning existing order",
			zap.String("external_ref", externalRef),
			zap.String("order_id", existing.ID.String()))
		resp := ToOrderResponse(existing)
		return &SubmitOrderResponse{Order: resp, Duplicate: true}, nil
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	codes := make([]string, len(req.Lines))
	for i, line := range req.Lines {
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

	lines, lineResult := s.validator.ValidateLines(retailer, req.Lines, skus)
	result.Merge(lineResult)
	if result.Valid() {
		total := decimalSum(lines)
		result.Merge(s.validator.ValidateTotal(total))
	}
	if !result.Valid() {
		return nil, &ValidationFailedError{Result: result}
	}

	order, err := ordering.NewOrder(retailerID, externalRef, lines)
	if err != nil {
		return nil, err
	}
	order.PONumber = req.PONumber
	order.Notes = req.Notes
	order.RequestedDeliveryDate = req.RequestedDeliveryDate
	order.IsTest = req.IsTest

	if err := s.orders.Create(ctx, order); err != nil {
		// A concurrent submission of the same cart won the unique-index
		// race; return its order as the duplicate
		if errors.Is(err, shared.ErrAlreadyExists) {
			existing, findErr := s.orders.FindByExternalRef(ctx, externalRef)
			if findErr != nil {
				return nil, findErr
			}
			resp := ToOrderResponse(existing)
			return &SubmitOrderResponse{Order: resp, Duplicate: true}, nil
		}
		return nil, err
	}

	s.logger.Info("order created",
		zap.String("order_id", order.ID.String()),
		zap.String("external_ref", externalRef),
		zap.String("retailer_id", retailerID.String()),
		zap.String("total", order.TotalAmount.StringFixed(2)))

	pushed, err := s.sync.Push(ctx, order.ID)
	if err != nil {
		return nil, err
	}

	resp := ToOrderResponse(pushed)
	return &SubmitOrderResponse{Order: resp}, nil
}

// GetByID retrieves one of the retailer's orders
func (s *OrderService) GetByID(ctx context.Context, retailerID, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RetailerID != retailerID {
		return nil, shared.ErrNotFound
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// List retrieves the retailer's orders newest first
func (s *OrderService) List(ctx context.Context, retailerID uuid.UUID, filter OrderListFilter) ([]OrderResponse, int64, error) {
	domainFilter := ordering.ListFilter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if filter.Status != "" {
		status := ordering.OrderStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewDomainError("INVALID_STATUS", "Unknown order status filter")
		}
		domainFilter.Status = &status
	}

	orders, total, err := s.orders.FindForRetailer(ctx, retailerID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses, total, nil
}

// ListEvents retrieves the audit log of one of the retailer's orders
func (s *OrderService) ListEvents(ctx context.Context, retailerID, orderID uuid.UUID) ([]OrderEventResponse, error) {
	order, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.RetailerID != retailerID {
		return nil, shared.ErrNotFound
	}

	events, err := s.orders.ListEvents(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderEventResponses(events), nil
}

// Retry re-pushes a failed order to the ERP
func (s *OrderService) Retry(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	order, err := s.sync.Retry(ctx, orderID)
	if err != nil {
		return nil, err
	}
	resp := ToOrderResponse(order)
	return &resp, nil
}

// decimalSum totals the line amounts
func decimalSum(lines []ordering.OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.LineTotal)
	}
	return total
}

// externalRef derives the deterministic reference for a submission
func (s *OrderService) externalRef(retailerID uuid.UUID, req SubmitOrderRequest) string {
	input := ordering.RefInput{
		RetailerID: retailerID,
		Lines:      make([]ordering.RefLine, len(req.Lines)),
		PONumber:   req.PONumber,
	}
	for i, line := range req.Lines {
		input.Lines[i] = ordering.RefLine{SKUCode: line.SKUCode, Qty: line.Qty}
	}
	if req.RequestedDeliveryDate != nil {
		input.RequestedDeliveryDate = req.RequestedDeliveryDate.Format("2006-01-02")
	}
	return ordering.GenerateExternalRef(s.cfg.RefPrefix, time.Now(), input)
}

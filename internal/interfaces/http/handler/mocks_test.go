package handler

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	appordering "github.com/retailportal/backend/internal/application/ordering"
	"github.com/retailportal/backend/internal/domain/catalog"
	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/retailportal/backend/internal/domain/ordering"
	"github.com/retailportal/backend/internal/domain/partner"
)

// MockOrderRepository is a mock implementation of ordering.OrderRepository
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) Create(ctx context.Context, order *ordering.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*ordering.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByExternalRef(ctx context.Context, externalRef string) (*ordering.Order, error) {
	args := m.Called(ctx, externalRef)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindByErpOrderID(ctx context.Context, erpOrderID string) (*ordering.Order, error) {
	args := m.Called(ctx, erpOrderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) FindForRetailer(ctx context.Context, retailerID uuid.UUID, filter ordering.ListFilter) ([]ordering.Order, int64, error) {
	args := m.Called(ctx, retailerID, filter)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]ordering.Order), args.Get(1).(int64), args.Error(2)
}

func (m *MockOrderRepository) FindSyncCandidates(ctx context.Context) ([]ordering.Order, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.Order), args.Error(1)
}

func (m *MockOrderRepository) MarkSynced(ctx context.Context, orderID uuid.UUID, erpOrderID string, payload []byte) error {
	args := m.Called(ctx, orderID, erpOrderID, payload)
	return args.Error(0)
}

func (m *MockOrderRepository) MarkSyncFailed(ctx context.Context, orderID uuid.UUID, payload []byte) error {
	args := m.Called(ctx, orderID, payload)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateStatus(ctx context.Context, orderID uuid.UUID, newStatus ordering.OrderStatus, kind ordering.EventKind, payload []byte) error {
	args := m.Called(ctx, orderID, newStatus, kind, payload)
	return args.Error(0)
}

func (m *MockOrderRepository) AppendEvent(ctx context.Context, orderID uuid.UUID, kind ordering.EventKind, payload []byte) error {
	args := m.Called(ctx, orderID, kind, payload)
	return args.Error(0)
}

func (m *MockOrderRepository) ListEvents(ctx context.Context, orderID uuid.UUID) ([]ordering.OrderEvent, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]ordering.OrderEvent), args.Error(1)
}

// MockRetailerRepository is a mock implementation of partner.RetailerRepository
type MockRetailerRepository struct {
	mock.Mock
}

func (m *MockRetailerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Retailer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Retailer), args.Error(1)
}

func (m *MockRetailerRepository) FindByCode(ctx context.Context, code string) (*partner.Retailer, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Retailer), args.Error(1)
}

func (m *MockRetailerRepository) Save(ctx context.Context, retailer *partner.Retailer) error {
	args := m.Called(ctx, retailer)
	return args.Error(0)
}

// MockSKURepository is a mock implementation of catalog.SKURepository
type MockSKURepository struct {
	mock.Mock
}

func (m *MockSKURepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.SKU, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) FindByCode(ctx context.Context, code string) (*catalog.SKU, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) FindByCodes(ctx context.Context, codes []string) ([]catalog.SKU, error) {
	args := m.Called(ctx, codes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.SKU), args.Error(1)
}

func (m *MockSKURepository) Save(ctx context.Context, sku *catalog.SKU) error {
	args := m.Called(ctx, sku)
	return args.Error(0)
}

// MockERPClient is a mock implementation of erp.Client
type MockERPClient struct {
	mock.Mock
}

func (m *MockERPClient) CreateOrders(ctx context.Context, orders []erp.OrderPayload) ([]erp.CreateOrderResult, error) {
	args := m.Called(ctx, orders)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.CreateOrderResult), args.Error(1)
}

func (m *MockERPClient) GetOrdersByID(ctx context.Context, erpOrderIDs []string) ([]erp.OrderInfo, error) {
	args := m.Called(ctx, erpOrderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]erp.OrderInfo), args.Error(1)
}

func (m *MockERPClient) GetProcessedOrderIDs(ctx context.Context, erpOrderIDs []string) ([]string, error) {
	args := m.Called(ctx, erpOrderIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockERPClient) UnparkOrder(ctx context.Context, erpOrderID string) error {
	args := m.Called(ctx, erpOrderID)
	return args.Error(0)
}

// fixedPayloadBuilder returns a fixed payload without touching the catalog
type fixedPayloadBuilder struct{}

func (b *fixedPayloadBuilder) Build(order *ordering.Order, retailer *partner.Retailer, skus map[string]*catalog.SKU, now time.Time) (erp.OrderPayload, error) {
	return erp.OrderPayload{
		Source:            "MANUAL",
		SubSource:         retailer.Code,
		ReferenceNumber:   order.ExternalRef,
		ExternalReference: order.ExternalRef,
	}, nil
}

// stubReconciler returns a canned reconciliation report
type stubReconciler struct {
	report *appordering.ReconcileReport
	err    error
}

func (r *stubReconciler) Run(ctx context.Context) (*appordering.ReconcileReport, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.report, nil
}

package linnworks

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MockClient is the offline erp.Client used in development and test
// environments where no ERP credentials exist. It accepts every order,
// fabricates ERP order ids and remembers what it was sent so that later
// lookups behave like the real system. A small random latency keeps the
// calling code honest about timeouts.
type MockClient struct {
	logger *zap.Logger

	mu        sync.Mutex
	orders    map[string]erp.OrderPayload // by fabricated ERP order id
	processed map[string]bool
	unparked  map[string]bool
}

// NewMockClient creates the offline ERP client
func NewMockClient(logger *zap.Logger) *MockClient {
	return &MockClient{
		logger:    logger,
		orders:    make(map[string]erp.OrderPayload),
		processed: make(map[string]bool),
		unparked:  make(map[string]bool),
	}
}

// CreateOrders accepts every payload and fabricates an ERP order id per order
func (c *MockClient) CreateOrders(ctx context.Context, orders []erp.OrderPayload) ([]erp.CreateOrderResult, error) {
	if err := c.simulateLatency(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	results := make([]erp.CreateOrderResult, len(orders))
	for i, order := range orders {
		id := uuid.NewString()
		c.orders[id] = order
		results[i] = erp.CreateOrderResult{
			ErpOrderID:      id,
			ReferenceNumber: order.ReferenceNumber,
			Success:         true,
		}
		c.logger.Info("mock ERP accepted order",
			zap.String("erp_order_id", id),
			zap.String("reference", order.ReferenceNumber))
	}
	return results, nil
}

// GetOrdersByID returns details for previously created orders; unknown ids
// are simply absent from the result
func (c *MockClient) GetOrdersByID(ctx context.Context, erpOrderIDs []string) ([]erp.OrderInfo, error) {
	if err := c.simulateLatency(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	infos := make([]erp.OrderInfo, 0, len(erpOrderIDs))
	for _, id := range erpOrderIDs {
		order, ok := c.orders[id]
		if !ok {
			continue
		}
		infos = append(infos, erp.OrderInfo{
			ErpOrderID:      id,
			ReferenceNumber: order.ReferenceNumber,
			Status:          0,
			InvoicePrinted:  c.processed[id],
			LabelPrinted:    c.processed[id],
		})
	}
	return infos, nil
}

// GetProcessedOrderIDs returns the ids previously marked processed via
// MarkProcessed
func (c *MockClient) GetProcessedOrderIDs(ctx context.Context, erpOrderIDs []string) ([]string, error) {
	if err := c.simulateLatency(ctx); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var processed []string
	for _, id := range erpOrderIDs {
		if c.processed[id] {
			processed = append(processed, id)
		}
	}
	return processed, nil
}

// UnparkOrder records the unpark request
func (c *MockClient) UnparkOrder(ctx context.Context, erpOrderID string) error {
	if err := c.simulateLatency(ctx); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.unparked[erpOrderID] = true
	return nil
}

// MarkProcessed flags an order as dispatched, driving the next
// reconciliation run. Test hook, not part of erp.Client.
func (c *MockClient) MarkProcessed(erpOrderID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.processed[erpOrderID] = true
}

// SentOrders returns a copy of every payload the mock has accepted.
// Test hook, not part of erp.Client.
func (c *MockClient) SentOrders() map[string]erp.OrderPayload {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make(map[string]erp.OrderPayload, len(c.orders))
	for id, order := range c.orders {
		out[id] = order
	}
	return out
}

// simulateLatency sleeps briefly, honoring context cancellation
func (c *MockClient) simulateLatency(ctx context.Context) error {
	delay := time.Duration(20+rand.Intn(80)) * time.Millisecond
	select {
	case <-time.After(delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Ensure MockClient implements the ERP client interface
var _ erp.Client = (*MockClient)(nil)

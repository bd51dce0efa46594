package linnworks

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/retailportal/backend/internal/domain/erp"
	"github.com/retailportal/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxResponseSize is the maximum allowed response size from the ERP API (10MB)
const maxResponseSize = 10 * 1024 * 1024

// Client is the real HTTP implementation of erp.Client. All
// endpoints are form-encoded POSTs against the region server returned by
// authentication; request payloads travel as JSON inside form fields.
type Client struct {
	config     config.LinnworksConfig
	tokens     TokenStore
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates the real ERP client
func NewClient(cfg config.LinnworksConfig, tokens TokenStore, logger *zap.Logger) (*Client, error) {
	if !cfg.HasCredentials() {
		return nil, erp.ErrNotConfigured
	}
	return &Client{
		config: cfg,
		tokens: tokens,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		logger: logger,
	}, nil
}

// CreateOrders pushes a batch of orders and returns one result per payload,
// in order
func (c *Client) CreateOrders(ctx context.Context, orders []erp.OrderPayload) ([]erp.CreateOrderResult, error) {
	if len(orders) == 0 {
		return nil, nil
	}

	encoded, err := json.Marshal(orders)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode orders: %v", erp.ErrInvalidResponse, err)
	}

	body, err := c.doRequest(ctx, "/api/Orders/CreateOrders", url.Values{
		"orders": {string(encoded)},
	})
	if err != nil {
		return nil, err
	}

	var raw []createOrderRawResult
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse create response: %v", erp.ErrInvalidResponse, err)
	}
	if len(raw) != len(orders) {
		return nil, fmt.Errorf("%w: expected %d results, got %d", erp.ErrInvalidResponse, len(orders), len(raw))
	}

	results := make([]erp.CreateOrderResult, len(raw))
	for i := range raw {
		id := raw[i].orderID()
		results[i] = erp.CreateOrderResult{
			ErpOrderID:      id,
			ReferenceNumber: orders[i].ReferenceNumber,
			Success:         id != "",
			Error:           raw[i].errorMessage(),
		}
		if id == "" && results[i].Error == "" {
			results[i].Error = "no order id in response"
		}
	}
	return results, nil
}

// GetOrdersByID returns open-order details for the given ERP order ids
func (c *Client) GetOrdersByID(ctx context.Context, erpOrderIDs []string) ([]erp.OrderInfo, error) {
	if len(erpOrderIDs) == 0 {
		return nil, nil
	}

	encoded, err := json.Marshal(erpOrderIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to encode order ids: %v", erp.ErrInvalidResponse, err)
	}

	body, err := c.doRequest(ctx, "/api/Orders/GetOrdersById", url.Values{
		"pkOrderIds": {string(encoded)},
	})
	if err != nil {
		return nil, err
	}

	var raw []openOrderRaw
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: failed to parse open orders: %v", erp.ErrInvalidResponse, err)
	}

	infos := make([]erp.OrderInfo, 0, len(raw))
	for i := range raw {
		info := erp.OrderInfo{ErpOrderID: raw[i].id()}
		if gi := raw[i].GeneralInfo; gi != nil {
			info.Status = gi.Status
			info.ReferenceNumber = gi.ReferenceNum
			info.InvoicePrinted = gi.InvoicePrinted
			info.LabelPrinted = gi.LabelPrinted
		}
		infos = append(infos, info)
	}
	return infos, nil
}

// GetProcessedOrderIDs returns the subset of ids the ERP has dispatched.
// The API only answers per order, so the check runs one call per id; ids
// that fail the check are skipped rather than failing the whole batch.
func (c *Client) GetProcessedOrderIDs(ctx context.Context, erpOrderIDs []string) ([]string, error) {
	var processed []string
	for _, id := range erpOrderIDs {
		ok, err := c.isProcessed(ctx, id)
		if err != nil {
			c.logger.Warn("processed-order check failed",
				zap.String("erp_order_id", id),
				zap.Error(err))
			continue
		}
		if ok {
			processed = append(processed, id)
		}
	}
	return processed, nil
}

// isProcessed asks the ERP whether one order has been dispatched
func (c *Client) isProcessed(ctx context.Context, erpOrderID string) (bool, error) {
	body, err := c.doRequest(ctx, "/api/ProcessedOrders/GetProcessedOrderDetails", url.Values{
		"pkOrderId": {erpOrderID},
	})
	if err != nil {
		return false, err
	}

	var resp processedOrderResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return false, fmt.Errorf("%w: failed to parse processed order: %v", erp.ErrInvalidResponse, err)
	}
	if resp.OrderID != "" {
		return true, nil
	}
	if resp.ProcessedOrders != nil && len(resp.ProcessedOrders.Data) > 0 {
		return true, nil
	}
	return false, nil
}

// UnparkOrder removes an order from the held-for-review queue
func (c *Client) UnparkOrder(ctx context.Context, erpOrderID string) error {
	_, err := c.doRequest(ctx, "/api/Orders/UnparkOrder", url.Values{
		"pkOrderId": {erpOrderID},
	})
	return err
}

// ---------------------------------------------------------------------------
// Internal Helpers
// ---------------------------------------------------------------------------

// session returns a valid ERP session, authenticating when the cache is
// empty or stale
func (c *Client) session(ctx context.Context) (*Session, error) {
	cached, err := c.tokens.Get(ctx)
	if err != nil {
		c.logger.Warn("token store read failed, re-authenticating", zap.Error(err))
	}
	if cached.Valid() {
		return cached, nil
	}
	return c.authenticate(ctx)
}

// authenticate performs AuthorizeByApplication and caches the session
func (c *Client) authenticate(ctx context.Context) (*Session, error) {
	values := url.Values{
		"ApplicationId":     {c.config.AppID},
		"ApplicationSecret": {c.config.AppSecret},
		"Token":             {c.config.InstallToken},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.AuthURL, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, fmt.Errorf("erp: failed to create auth request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", erp.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("erp: failed to read auth response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("%w: HTTP %d", erp.ErrAuthFailed, resp.StatusCode)
	}

	var auth authResponse
	if err := json.Unmarshal(body, &auth); err != nil {
		return nil, fmt.Errorf("%w: failed to parse auth response: %v", erp.ErrInvalidResponse, err)
	}
	if auth.Token == "" || auth.Server == "" {
		return nil, fmt.Errorf("%w: auth response missing token or server", erp.ErrAuthFailed)
	}

	session := &Session{
		Token:     auth.Token,
		Server:    strings.TrimRight(auth.Server, "/"),
		ExpiresAt: time.Now().Add(c.config.TokenTTL),
	}
	if err := c.tokens.Set(ctx, session); err != nil {
		c.logger.Warn("token store write failed", zap.Error(err))
	}
	return session, nil
}

// doRequest performs a form-encoded POST against the session's region
// server. A 401 invalidates the cached session and retries once with a
// fresh one.
func (c *Client) doRequest(ctx context.Context, path string, values url.Values) ([]byte, error) {
	session, err := c.session(ctx)
	if err != nil {
		return nil, err
	}

	body, status, err := c.post(ctx, session, path, values)
	if err != nil {
		return nil, err
	}
	if status == http.StatusUnauthorized {
		if err := c.tokens.Invalidate(ctx); err != nil {
			c.logger.Warn("token store invalidate failed", zap.Error(err))
		}
		session, err = c.authenticate(ctx)
		if err != nil {
			return nil, err
		}
		body, status, err = c.post(ctx, session, path, values)
		if err != nil {
			return nil, err
		}
	}
	if status >= 400 {
		return nil, fmt.Errorf("%w: %s returned HTTP %d", erp.ErrRequestFailed, path, status)
	}
	return body, nil
}

// post executes one form-encoded call and returns the body and status
func (c *Client) post(ctx context.Context, session *Session, path string, values url.Values) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, session.Server+path, strings.NewReader(values.Encode()))
	if err != nil {
		return nil, 0, fmt.Errorf("erp: failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", session.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", erp.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("erp: failed to read response: %w", err)
	}
	return body, resp.StatusCode, nil
}

// Ensure Client implements the ERP client interface
var _ erp.Client = (*Client)(nil)

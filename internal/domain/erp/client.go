package erp

import (
	"context"
	"errors"
)

// ---------------------------------------------------------------------------
// ERP Errors
// ---------------------------------------------------------------------------

var (
	// ErrNotConfigured indicates missing ERP credentials
	ErrNotConfigured = errors.New("erp: client not configured")
	// ErrUnavailable indicates a network failure or timeout reaching the ERP
	ErrUnavailable = errors.New("erp: temporarily unavailable")
	// ErrRequestFailed indicates an HTTP-level rejection from the ERP
	ErrRequestFailed = errors.New("erp: request failed")
	// ErrAuthFailed indicates authentication with the ERP was rejected
	ErrAuthFailed = errors.New("erp: authentication failed")
	// ErrInvalidResponse indicates the ERP returned a body that could not
	// be parsed
	ErrInvalidResponse = errors.New("erp: invalid response")
	// ErrRejected indicates an application-level rejection inside a
	// successful HTTP response, e.g. a create result without an order id
	ErrRejected = errors.New("erp: order rejected")
)

// ---------------------------------------------------------------------------
// Wire types
// ---------------------------------------------------------------------------

// OrderItem is one line of an ERP create-order request. SKU must match the
// ERP inventory SKU string exactly.
type OrderItem struct {
	ItemNumber          string  `json:"ItemNumber"`
	SKU                 string  `json:"SKU"`
	ChannelSKU          string  `json:"ChannelSKU"`
	ItemTitle           string  `json:"ItemTitle"`
	Qty                 int     `json:"Qty"`
	PricePerUnit        float64 `json:"PricePerUnit"`
	TaxRate             float64 `json:"TaxRate"`
	TaxCostInclusive    bool    `json:"TaxCostInclusive"`
	LinePercentDiscount float64 `json:"LinePercentDiscount"`
	// BinRack carries the ERP stock item id as a secondary strong inventory
	// link, robust to SKU string mismatches.
	BinRack string `json:"BinRack,omitempty"`
}

// Address is a delivery or billing address on an ERP order
type Address struct {
	FullName     string `json:"FullName"`
	Company      string `json:"Company,omitempty"`
	Address1     string `json:"Address1,omitempty"`
	Address2     string `json:"Address2,omitempty"`
	Address3     string `json:"Address3,omitempty"`
	Town         string `json:"Town,omitempty"`
	Region       string `json:"Region,omitempty"`
	PostCode     string `json:"PostCode,omitempty"`
	Country      string `json:"Country,omitempty"`
	PhoneNumber  string `json:"PhoneNumber,omitempty"`
	EmailAddress string `json:"EmailAddress,omitempty"`
}

// OrderNote is a note attached to an ERP order
type OrderNote struct {
	Note          string `json:"Note"`
	NoteEntryDate string `json:"NoteEntryDate"`
	NoteUserName  string `json:"NoteUserName"`
	IsInternal    bool   `json:"IsInternal"`
}

// OrderPayload is the ERP create-order request schema
type OrderPayload struct {
	Source                  string      `json:"Source"`
	SubSource               string      `json:"SubSource"`
	ReferenceNumber         string      `json:"ReferenceNumber"`
	ExternalReference       string      `json:"ExternalReference"`
	ReceivedDate            string      `json:"ReceivedDate"`
	DispatchBy              string      `json:"DispatchBy,omitempty"`
	Currency                string      `json:"Currency"`
	ChannelBuyerName        string      `json:"ChannelBuyerName"`
	DeliveryNotes           string      `json:"DeliveryNotes,omitempty"`
	OrderItems              []OrderItem `json:"OrderItems"`
	DeliveryAddress         *Address    `json:"DeliveryAddress,omitempty"`
	BillingAddress          *Address    `json:"BillingAddress,omitempty"`
	Notes                   []OrderNote `json:"Notes,omitempty"`
	PaymentStatus           string      `json:"PaymentStatus,omitempty"`
	PaidAmount              float64     `json:"PaidAmount"`
	Locked                  bool        `json:"Locked"`
	HoldOrCancel            bool        `json:"HoldOrCancel"`
	Status                  int         `json:"Status"`
	AutomaticallyLinkBySKU  bool        `json:"AutomaticallyLinkBySKU"`
}

// ---------------------------------------------------------------------------
// Results
// ---------------------------------------------------------------------------

// CreateOrderResult is the normalized outcome of a single order within a
// create-orders call. The ERP response mixes bare identifier strings with
// objects; the client resolves both shapes into this one type.
type CreateOrderResult struct {
	ErpOrderID      string
	ReferenceNumber string
	Success         bool
	Error           string
}

// OrderInfo carries the lifecycle flags of an open ERP order
type OrderInfo struct {
	ErpOrderID      string
	ReferenceNumber string
	Status          int
	InvoicePrinted  bool
	LabelPrinted    bool
}

// Client is the capability interface to the external order-management
// system. Two implementations exist: the real HTTP client and an offline
// mock, selected by configuration at process start. Callers cannot and must
// not distinguish which one they hold.
type Client interface {
	// CreateOrders pushes a batch of orders and returns one result per
	// payload, in order.
	CreateOrders(ctx context.Context, orders []OrderPayload) ([]CreateOrderResult, error)

	// GetOrdersByID returns open-order details for the given ERP order ids
	GetOrdersByID(ctx context.Context, erpOrderIDs []string) ([]OrderInfo, error)

	// GetProcessedOrderIDs returns the subset of the given ids that the ERP
	// has dispatched/processed.
	GetProcessedOrderIDs(ctx context.Context, erpOrderIDs []string) ([]string, error)

	// UnparkOrder removes an order from the ERP's held-for-review queue.
	// Best-effort: callers log failures but never escalate them.
	UnparkOrder(ctx context.Context, erpOrderID string) error
}

package linnworks

import (
	"encoding/json"
	"strings"
)

// authResponse is the body of a successful AuthorizeByApplication call.
// Server is the region host every subsequent API call must target.
type authResponse struct {
	Token  string `json:"Token"`
	Server string `json:"Server"`
}

// createOrderRawResult is one element of a CreateOrders response. The API
// mixes two shapes in the same array: a bare GUID string for a plainly
// accepted order, or an object carrying the id under one of several field
// spellings plus an optional error.
type createOrderRawResult struct {
	guid string
	obj  map[string]json.RawMessage
}

// UnmarshalJSON accepts either shape
func (r *createOrderRawResult) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &r.guid)
	}
	return json.Unmarshal(data, &r.obj)
}

// orderID extracts the ERP order id from whichever field the API used
func (r *createOrderRawResult) orderID() string {
	if r.guid != "" {
		return r.guid
	}
	for _, key := range []string{"pkOrderId", "pkOrderID", "OrderId", "orderId"} {
		if raw, ok := r.obj[key]; ok {
			var id string
			if err := json.Unmarshal(raw, &id); err == nil && id != "" {
				return id
			}
		}
	}
	return ""
}

// errorMessage extracts the per-order error, if any
func (r *createOrderRawResult) errorMessage() string {
	for _, key := range []string{"Error", "error"} {
		if raw, ok := r.obj[key]; ok {
			var msg string
			if err := json.Unmarshal(raw, &msg); err == nil {
				return msg
			}
		}
	}
	return ""
}

// openOrderRaw is one element of a GetOrdersById response
type openOrderRaw struct {
	OrderID     string         `json:"OrderId"`
	PkOrderID   string         `json:"pkOrderID"`
	NumOrderID  int            `json:"NumOrderId"`
	GeneralInfo *openOrderInfo `json:"GeneralInfo"`
}

// openOrderInfo carries the lifecycle flags of an open order
type openOrderInfo struct {
	Status         int    `json:"Status"`
	ReferenceNum   string `json:"ReferenceNum"`
	SecondaryRef   string `json:"SecondaryReference"`
	ExternalRef    string `json:"ExternalReferenceNum"`
	InvoicePrinted bool   `json:"InvoicePrinted"`
	LabelPrinted   bool   `json:"LabelPrinted"`
	HoldOrCancel   bool   `json:"HoldOrCancel"`
}

// id returns the order identifier under either field spelling
func (o *openOrderRaw) id() string {
	if o.OrderID != "" {
		return o.OrderID
	}
	return o.PkOrderID
}

// processedOrderResponse is the body of a GetProcessedOrderDetails call
type processedOrderResponse struct {
	ProcessedOrders *struct {
		Data []struct {
			OrderID string `json:"pkOrderID"`
		} `json:"Data"`
	} `json:"ProcessedOrders"`
	OrderID string `json:"pkOrderID"`
}

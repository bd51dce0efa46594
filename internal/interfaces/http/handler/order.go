package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	appordering "github.com/retailportal/backend/internal/application/ordering"
	"github.com/retailportal/backend/internal/interfaces/http/middleware"
)

// OrderHandler handles order submission and tracking endpoints
type OrderHandler struct {
	BaseHandler
	orderService *appordering.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *appordering.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RegisterRoutes registers order routes on the given group
func (h *OrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/:id", h.GetByID)
		orders.GET("/:id/events", h.ListEvents)
		orders.POST("/:id/retry", h.Retry)
	}
}

// Create submits a new order on behalf of the authenticated retailer.
// Same-day resubmissions of identical content return the existing order
// with a 200 instead of creating a second one.
func (h *OrderHandler) Create(c *gin.Context) {
	retailerID, ok := middleware.GetRetailerID(c)
	if !ok {
		h.Unauthorized(c, "Retailer identity missing")
		return
	}

	var req appordering.SubmitOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.orderService.Create(c.Request.Context(), retailerID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	if result.Duplicate {
		h.Success(c, result)
		return
	}
	h.Created(c, result)
}

// GetByID returns one of the retailer's orders
func (h *OrderHandler) GetByID(c *gin.Context) {
	retailerID, ok := middleware.GetRetailerID(c)
	if !ok {
		h.Unauthorized(c, "Retailer identity missing")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), retailerID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns the retailer's orders, newest first
func (h *OrderHandler) List(c *gin.Context) {
	retailerID, ok := middleware.GetRetailerID(c)
	if !ok {
		h.Unauthorized(c, "Retailer identity missing")
		return
	}

	var filter appordering.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	orders, total, err := h.orderService.List(c.Request.Context(), retailerID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, orders, total, filter.Page, filter.PageSize)
}

// ListEvents returns the audit trail of one of the retailer's orders
func (h *OrderHandler) ListEvents(c *gin.Context) {
	retailerID, ok := middleware.GetRetailerID(c)
	if !ok {
		h.Unauthorized(c, "Retailer identity missing")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	events, err := h.orderService.ListEvents(c.Request.Context(), retailerID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, events)
}

// Retry re-attempts the ERP push for a failed order
func (h *OrderHandler) Retry(c *gin.Context) {
	retailerID, ok := middleware.GetRetailerID(c)
	if !ok {
		h.Unauthorized(c, "Retailer identity missing")
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	// Scope check before the retry touches the ERP
	if _, err := h.orderService.GetByID(c.Request.Context(), retailerID, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	order, err := h.orderService.Retry(c.Request.Context(), orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

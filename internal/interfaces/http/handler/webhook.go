package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appordering "github.com/retailportal/backend/internal/application/ordering"
)

// WebhookHandler receives order status notifications pushed by the ERP
type WebhookHandler struct {
	BaseHandler
	webhookService *appordering.WebhookService
}

// NewWebhookHandler creates a new WebhookHandler
func NewWebhookHandler(webhookService *appordering.WebhookService) *WebhookHandler {
	return &WebhookHandler{webhookService: webhookService}
}

// RegisterRoutes registers webhook routes on the given group
func (h *WebhookHandler) RegisterRoutes(rg *gin.RouterGroup) {
	webhooks := rg.Group("/webhooks")
	{
		webhooks.GET("/linnworks", h.Info)
		webhooks.POST("/linnworks", h.Receive)
	}
}

// Info lets the ERP's webhook setup verify the endpoint is reachable.
// Registration sends a challenge query parameter and expects it echoed.
func (h *WebhookHandler) Info(c *gin.Context) {
	if challenge := c.Query("challenge"); challenge != "" {
		c.String(http.StatusOK, challenge)
		return
	}

	h.Success(c, gin.H{
		"endpoint": "linnworks",
		"accepts":  []string{"invoice_printed", "po_generated", "processing", "shipped", "delivered", "cancelled"},
	})
}

// Receive applies a status notification. Unknown events and transitions
// the order lifecycle forbids are acknowledged with a 200 so the sender
// does not retry them; only unresolvable orders and infrastructure
// failures are reported as errors.
func (h *WebhookHandler) Receive(c *gin.Context) {
	var event appordering.WebhookEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.webhookService.Handle(c.Request.Context(), event)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

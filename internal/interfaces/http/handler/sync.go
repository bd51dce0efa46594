package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	appordering "github.com/retailportal/backend/internal/application/ordering"
	"github.com/retailportal/backend/internal/infrastructure/config"
)

// Reconciler runs one reconciliation pass against the ERP
type Reconciler interface {
	Run(ctx context.Context) (*appordering.ReconcileReport, error)
}

// SyncHandler exposes the reconciliation pass over HTTP for cron jobs
// and operators
type SyncHandler struct {
	BaseHandler
	reconciler Reconciler
	cfg        config.SyncConfig
}

// NewSyncHandler creates a new SyncHandler
func NewSyncHandler(reconciler Reconciler, cfg config.SyncConfig) *SyncHandler {
	return &SyncHandler{reconciler: reconciler, cfg: cfg}
}

// RegisterRoutes registers sync routes on the given group
func (h *SyncHandler) RegisterRoutes(rg *gin.RouterGroup) {
	sync := rg.Group("/sync")
	{
		sync.GET("", h.Info)
		sync.POST("", h.Run)
		sync.POST("/run", h.Run)
	}
}

// Info reports whether the in-process interval trigger is active
func (h *SyncHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"scheduler_enabled": h.cfg.Enabled,
		"interval":          h.cfg.Interval.String(),
	})
}

// Run triggers a reconciliation pass and returns its report
func (h *SyncHandler) Run(c *gin.Context) {
	report, err := h.reconciler.Run(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

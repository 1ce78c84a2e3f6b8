package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/costing"
	"github.com/mamadbah2/foodcost/internal/domain/models"
)

// PurchaseService is the purchase use-case consumed by the HTTP layer.
type PurchaseService interface {
	Record(ctx context.Context, in costing.PurchaseInput) (models.PurchaseRecord, error)
	List(ctx context.Context) ([]models.PurchaseRecord, error)
	Prices(ctx context.Context) (costing.Prices, error)
}

// PurchaseHandler serves the purchase ledger endpoints.
type PurchaseHandler struct {
	svc    PurchaseService
	logger *zap.Logger
}

// NewPurchaseHandler constructs the HTTP handler adapter.
func NewPurchaseHandler(svc PurchaseService, logger *zap.Logger) *PurchaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseHandler{svc: svc, logger: logger}
}

// Create records a purchase.
func (h *PurchaseHandler) Create(c *gin.Context) {
	var in costing.PurchaseInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid purchase payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rec, err := h.svc.Record(c.Request.Context(), in)
	if err != nil {
		respondError(c, h.logger, "failed to record purchase", err)
		return
	}

	c.JSON(http.StatusCreated, rec)
}

// List returns the ledger.
func (h *PurchaseHandler) List(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to load purchases", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"purchases": records})
}

// Prices returns the latest unit cost per ingredient.
func (h *PurchaseHandler) Prices(c *gin.Context) {
	prices, err := h.svc.Prices(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to load prices", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"prices": prices.Sorted()})
}

// Units lists the supported purchase units.
func (h *PurchaseHandler) Units(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"units": costing.Units()})
}

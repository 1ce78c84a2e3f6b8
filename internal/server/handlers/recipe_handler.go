package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/domain/models"
	"github.com/mamadbah2/foodcost/internal/service/recipes"
)

// RecipeService is the recipe costing use-case consumed by the HTTP layer.
type RecipeService interface {
	Analyze(ctx context.Context, req recipes.AnalyzeRequest) (models.RecipeCostResult, error)
	Save(ctx context.Context, req recipes.AnalyzeRequest) (models.MenuAnalysis, error)
	History(ctx context.Context, dish string, limit int64) ([]models.AnalysisDocument, error)
}

// RecipeHandler serves recipe cost analysis endpoints.
type RecipeHandler struct {
	svc    RecipeService
	logger *zap.Logger
}

// NewRecipeHandler constructs the HTTP handler adapter.
func NewRecipeHandler(svc RecipeService, logger *zap.Logger) *RecipeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecipeHandler{svc: svc, logger: logger}
}

type analysisResponse struct {
	Dish    string                   `json:"dish,omitempty"`
	Result  models.RecipeCostResult  `json:"result"`
	Summary models.RecipeCostSummary `json:"summary"`
}

// Analyze computes the cost of a recipe without saving it.
func (h *RecipeHandler) Analyze(c *gin.Context) {
	var req recipes.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recipe payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.svc.Analyze(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "failed to analyze recipe", err)
		return
	}

	c.JSON(http.StatusOK, analysisResponse{Dish: req.Dish, Result: result, Summary: result.Display()})
}

// Save computes and records a menu analysis.
func (h *RecipeHandler) Save(c *gin.Context) {
	var req recipes.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid recipe payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	analysis, err := h.svc.Save(c.Request.Context(), req)
	if err != nil {
		respondError(c, h.logger, "failed to save analysis", err)
		return
	}

	c.JSON(http.StatusCreated, analysisResponse{Dish: analysis.Dish, Result: analysis.Result, Summary: analysis.Result.Display()})
}

// History lists saved analyses; ?dish= filters and ?limit= caps the count.
func (h *RecipeHandler) History(c *gin.Context) {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be an integer"})
		return
	}

	docs, err := h.svc.History(c.Request.Context(), c.Query("dish"), limit)
	if err != nil {
		respondError(c, h.logger, "failed to load analyses", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"analyses": docs})
}

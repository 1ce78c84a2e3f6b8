package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/costing"
	"github.com/mamadbah2/foodcost/internal/ledger"
	"github.com/mamadbah2/foodcost/internal/repository/sheets"
	"github.com/mamadbah2/foodcost/internal/service/recipes"
)

var validationErrors = []error{
	costing.ErrInvalidQuantity,
	costing.ErrUnknownUnit,
	costing.ErrDivisionByZero,
	costing.ErrNegativePrice,
	costing.ErrNegativeQuantity,
	costing.ErrUnknownOverheadMode,
	costing.ErrEmptyIngredient,
}

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, logger *zap.Logger, msg string, err error) {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	switch {
	case errors.Is(err, ledger.ErrReadOnly), errors.Is(err, sheets.ErrReadOnlyCredentials):
		c.JSON(http.StatusConflict, gin.H{"error": "ledger is read-only"})
	case errors.Is(err, recipes.ErrNoAnalysisStorage):
		c.JSON(http.StatusNotImplemented, gin.H{"error": err.Error()})
	default:
		logger.Error(msg, zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": msg})
	}
}

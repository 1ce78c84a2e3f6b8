package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/foodcost/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted on the engine.
type Handlers struct {
	Purchases *handlers.PurchaseHandler
	Recipes   *handlers.RecipeHandler
	Reports   *handlers.ReportHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/units", h.Purchases.Units)
	r.GET("/prices", h.Purchases.Prices)

	purchases := r.Group("/purchases")
	purchases.POST("", h.Purchases.Create)
	purchases.GET("", h.Purchases.List)

	recipes := r.Group("/recipes")
	recipes.POST("/analyze", h.Recipes.Analyze)
	recipes.POST("/analyses", h.Recipes.Save)
	recipes.GET("/analyses", h.Recipes.History)

	r.GET("/reports/digest", h.Reports.Digest)
	r.GET("/export.xlsx", h.Reports.Export)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}

package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamour/pharmastock/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(stock *handlers.StockHandler, ledger *handlers.LedgerHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.GET("/stock", stock.List)
		api.GET("/stock/:id", stock.Get)
		api.GET("/stock/stats", stock.Stats)
		api.GET("/stock/dispense-order", stock.DispenseOrder)
		api.GET("/stock/low", stock.LowStock)
		api.GET("/stock/expiring", stock.Expiring)
		api.PUT("/stock/:id", stock.Update)
		api.DELETE("/stock/:id", stock.Delete)
		api.POST("/stock/:id/adjust", stock.Adjust)
		api.POST("/stock/bulk-adjust", stock.BulkAdjust)

		api.GET("/transactions", ledger.Transactions)
		api.POST("/transactions/refresh", ledger.RefreshTransactions)
		api.DELETE("/transactions/sales/:id", ledger.DeleteSale)
		api.DELETE("/transactions/sales", ledger.ClearSales)

		api.POST("/sales", ledger.RecordSale)
		api.POST("/purchases", ledger.RecordPurchase)

		api.GET("/suppliers", ledger.Suppliers)
		api.POST("/suppliers", ledger.CreateSupplier)

		api.GET("/report/daily", ledger.DailyReport)
	}

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

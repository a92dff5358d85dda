package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paibudget/budget-service/internal/middleware"
	"github.com/paibudget/budget-service/internal/web"
)

// NewRouter wires the middleware, the frontend page, the health check and the
// transaction routes.
func NewRouter(transactionHandler *TransactionHandler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), middleware.CORS(), middleware.LoggingMiddleware())

	router.GET("/", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", web.IndexHTML)
	})

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	transactions := router.Group("/transactions")
	{
		transactions.POST("", transactionHandler.CreateTransaction)
		transactions.GET("", transactionHandler.ListTransactions)
		transactions.GET("/:id", transactionHandler.GetTransaction)
		transactions.PUT("/:id", transactionHandler.UpdateTransaction)
		transactions.DELETE("/:id", transactionHandler.DeleteTransaction)
	}

	return router
}

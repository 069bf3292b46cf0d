package handlers

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes регистрирует все маршруты API
func RegisterRoutes(
	router *gin.Engine,
	quotations *QuotationHandler,
	comparisons *ComparisonHandler,
	system *SystemHandler,
) {
	router.GET("/health", system.HandleHealth)

	api := router.Group("/api")
	{
		api.GET("/metrics/errors", system.HandleErrorMetrics)

		q := api.Group("/quotations")
		{
			q.POST("", quotations.HandleCreateQuotation)
			q.GET("", quotations.HandleListQuotations)
			q.POST("/extract", quotations.HandleExtractQuotation)
			q.GET("/:id", quotations.HandleGetQuotation)
			q.PUT("/:id", quotations.HandleUpdateQuotation)
			q.DELETE("/:id", quotations.HandleDeleteQuotation)
		}

		cmp := api.Group("/comparisons")
		{
			cmp.POST("", comparisons.HandleRunComparison)
			cmp.GET("", comparisons.HandleListComparisons)
			cmp.GET("/:id", comparisons.HandleGetComparison)
			cmp.DELETE("/:id", comparisons.HandleDeleteComparison)
			cmp.GET("/:id/export", comparisons.HandleExportComparison)
		}
	}
}

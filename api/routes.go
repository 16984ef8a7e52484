package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/couchbase/capi-es-bridge/internal/bridge"
	"github.com/couchbase/capi-es-bridge/internal/metrics"
)

// SetupRoutes defines the CAPI surface the Source talks to, plus a plain
// metrics endpoint for operators.
func SetupRoutes(router *gin.Engine, b *bridge.Bridge, metricsSink *metrics.Sink) {
	handlers := NewCapiHandlers(b)

	router.GET("/", handlers.Welcome)

	if metricsSink != nil {
		router.GET("/_metrics", func(c *gin.Context) {
			c.JSON(http.StatusOK, metricsSink.Snapshot())
		})
	}

	dbRoutes := router.Group("/:db")
	{
		dbRoutes.HEAD("", handlers.DatabaseExists)
		dbRoutes.GET("", handlers.GetDatabaseDetails)
		dbRoutes.PUT("", handlers.CreateDatabase)
		dbRoutes.DELETE("", handlers.DeleteDatabase)

		dbRoutes.POST("/_revs_diff", handlers.RevsDiff)
		dbRoutes.POST("/_bulk_docs", handlers.BulkDocs)
		dbRoutes.POST("/_ensure_full_commit", handlers.EnsureFullCommit)

		dbRoutes.GET("/_local/:localID", handlers.GetLocalDoc)
		dbRoutes.PUT("/_local/:localID", handlers.PutLocalDoc)
	}
}

package server

import (
	"net/http"

	"github.com/comfy-catalog/catalog-server/internal/api"
	"github.com/comfy-catalog/catalog-server/internal/app"
	"github.com/gin-gonic/gin"
)

func (s *Server) SetupRoutes(app *app.App) {
	// Health check endpoint
	s.ginEngine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Not an API, just a simple file server endpoint for stored exports
	s.ginEngine.GET("/file/:filename", handlerWrapper(app, api.GetFile))

	apiV1 := s.ginEngine.Group("/api/v1")

	apiV1.GET("/models", handlerWrapper(app, api.ListModels))
	apiV1.GET("/models/export", handlerWrapper(app, api.ExportModels))

	apiV1.GET("/workflows", handlerWrapper(app, api.ListWorkflows))
	apiV1.GET("/workflows/export", handlerWrapper(app, api.ExportWorkflows))

	apiV1.POST("/refresh", handlerWrapper(app, api.RefreshCatalog))
}

func handlerWrapper(app *app.App, f func(c *gin.Context)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Set("app", app)
		f(ctx)
	}
}

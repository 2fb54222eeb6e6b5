package server

import (
	"plexus/internal/server/middleware"
	"plexus/internal/server/routes"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo) {
	// Health check route
	e.GET("/health", func(c echo.Context) error {
		return c.String(200, "OK")
	})

	apiRoutes := e.Group("/api", middleware.AuthMiddleware)

	// Notebook routes
	apiRoutes.GET("/notebooks", routes.GetNotebooksHandler)
	apiRoutes.POST("/notebooks", routes.CreateNotebookHandler)
	apiRoutes.GET("/notebooks/:id", routes.GetNotebookHandler)
	apiRoutes.PATCH("/notebooks/:id", routes.EditNotebookHandler)
	apiRoutes.DELETE("/notebooks/:id", routes.DeleteNotebookHandler)

	// Document routes
	apiRoutes.GET("/notebooks/:id/documents", routes.GetDocumentsHandler)
	apiRoutes.POST("/notebooks/:id/documents", routes.UploadDocumentsHandler)
	apiRoutes.DELETE("/notebooks/:id/documents/:documentId", routes.DeleteDocumentHandler)
	apiRoutes.GET("/notebooks/:id/documents/:documentId/download", routes.GetDocumentDownloadHandler)

	// Graph routes
	apiRoutes.GET("/notebooks/:id/graph", routes.GetGraphHandler)
	apiRoutes.GET("/notebooks/:id/graph/search", routes.SearchGraphHandler)

	// Layout routes
	apiRoutes.GET("/notebooks/:id/layout", routes.GetLayoutHandler)
	apiRoutes.POST("/notebooks/:id/layout", routes.SaveLayoutHandler)
	apiRoutes.POST("/notebooks/:id/layout/run", routes.RunLayoutHandler)

	// Export routes
	apiRoutes.GET("/notebooks/:id/export.svg", routes.ExportSVGHandler)
}

package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/server/middleware"
	"plexus/internal/storage"
	"plexus/internal/store"
	"plexus/pkg/logger"
)

// GetDocumentsHandler lists a notebook's documents in upload order.
func GetDocumentsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)
	ctx := c.Request().Context()

	if _, err := st.GetNotebook(ctx, c.Param("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook not found"})
		}
		logger.Error("Failed to get notebook", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	documents, err := st.ListDocuments(ctx, c.Param("id"))
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"documents": documents})
}

// GetDocumentDownloadHandler returns a short-lived presigned URL for
// the original uploaded file.
func GetDocumentDownloadHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)
	ctx := c.Request().Context()

	document, err := st.GetDocument(ctx, c.Param("documentId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
		}
		logger.Error("Failed to get document", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	link, err := storage.GenerateDownloadLink(ctx, app.S3, document.ObjectKey)
	if err != nil {
		logger.Error("Failed to generate download link", "key", document.ObjectKey, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"url": link})
}

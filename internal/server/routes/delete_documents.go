package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/queue"
	"plexus/internal/server/middleware"
	"plexus/internal/storage"
	"plexus/internal/store"
	"plexus/pkg/common"
	"plexus/pkg/logger"
)

// DeleteDocumentHandler removes one document from a notebook and
// re-extracts the graph from the documents that remain.
func DeleteDocumentHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)
	ctx := c.Request().Context()
	notebookID := c.Param("id")

	document, err := st.GetDocument(ctx, c.Param("documentId"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Document not found"})
		}
		logger.Error("Failed to get document", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if err := storage.DeleteFile(ctx, app.S3, document.ObjectKey); err != nil {
		logger.Error("Failed to delete stored file", "key", document.ObjectKey, "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if err := st.DeleteDocument(ctx, document.PublicID); err != nil && !errors.Is(err, store.ErrNotFound) {
		logger.Error("Failed to delete document", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	remaining, err := st.ListDocuments(ctx, notebookID)
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if len(remaining) == 0 {
		// Nothing left to extract from. Clear the graph instead of
		// queueing a job that would fail on an empty corpus.
		if err := st.ReplaceGraph(ctx, notebookID, &common.GraphData{}, nil); err != nil {
			logger.Error("Failed to clear graph", "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		if err := st.DeleteLayout(ctx, notebookID); err != nil && !errors.Is(err, store.ErrNotFound) {
			logger.Error("Failed to clear layout", "err", err)
		}
		if err := st.SetNotebookStatus(ctx, notebookID, store.NotebookStatusEmpty); err != nil {
			logger.Error("Failed to update notebook status", "err", err)
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Document deleted"})
	}

	err = queue.PublishExtractJob(app.Queue, queue.ExtractJobMsg{NotebookID: notebookID})
	if err != nil {
		logger.Error("Failed to enqueue extract job", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}
	if err := st.SetNotebookStatus(ctx, notebookID, store.NotebookStatusProcessing); err != nil {
		logger.Error("Failed to update notebook status", "err", err)
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Document deleted, re-extraction queued"})
}

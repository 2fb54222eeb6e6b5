package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"

	"plexus/internal/queue"
	"plexus/internal/server/middleware"
	"plexus/internal/storage"
	"plexus/internal/store"
	"plexus/pkg/logger"
)

// UploadDocumentsHandler accepts multipart file uploads for a notebook.
// Each file is stored in S3 and recorded as a pending document, then a
// single extract job re-processes the whole notebook.
func UploadDocumentsHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)
	ctx := c.Request().Context()

	notebook, err := st.GetNotebook(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook not found"})
		}
		logger.Error("Failed to get notebook", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	uploads := form.File["files"]
	if len(uploads) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "No files provided"})
	}

	documents := make([]store.Document, 0, len(uploads))
	for _, upload := range uploads {
		src, err := upload.Open()
		if err != nil {
			logger.Error("Failed to open upload", "name", upload.Filename, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		fileID, err := gonanoid.New()
		if err != nil {
			src.Close()
			logger.Error("Failed to generate file id", "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		prefix := fmt.Sprintf("notebooks/%s/documents", notebook.PublicID)
		key, err := storage.PutFile(ctx, app.S3, prefix, upload.Filename, fileID, src)
		src.Close()
		if err != nil {
			logger.Error("Failed to upload file", "name", upload.Filename, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}

		document, err := st.CreateDocument(ctx, notebook.PublicID, upload.Filename, key)
		if err != nil {
			logger.Error("Failed to record document", "name", upload.Filename, "err", err)
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
		}
		documents = append(documents, document)
	}

	err = queue.PublishExtractJob(app.Queue, queue.ExtractJobMsg{
		NotebookID: notebook.PublicID,
		DocumentID: documents[0].PublicID,
	})
	if err != nil {
		logger.Error("Failed to enqueue extract job", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	if err := st.SetNotebookStatus(ctx, notebook.PublicID, store.NotebookStatusProcessing); err != nil {
		logger.Error("Failed to update notebook status", "err", err)
	}

	return c.JSON(http.StatusAccepted, map[string]any{
		"message":   "Documents queued for extraction",
		"documents": documents,
	})
}

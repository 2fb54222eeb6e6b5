package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/server/middleware"
	"plexus/internal/store"
	"plexus/internal/timing"
	"plexus/pkg/logger"
)

// GetNotebooksHandler lists all notebooks.
func GetNotebooksHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)

	notebooks, err := st.ListNotebooks(c.Request().Context())
	if err != nil {
		logger.Error("Failed to list notebooks", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"notebooks": notebooks})
}

// GetNotebookHandler returns one notebook with its documents. While
// the notebook is processing the response carries an ETA based on
// recent job durations.
func GetNotebookHandler(c echo.Context) error {
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

	documents, err := st.ListDocuments(ctx, notebook.PublicID)
	if err != nil {
		logger.Error("Failed to list documents", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	resp := map[string]any{
		"notebook":  notebook,
		"documents": documents,
	}

	if notebook.Status == store.NotebookStatusProcessing {
		if eta, err := timing.PredictJobDuration(ctx, app.DBConn, timing.JobTypeExtract); err == nil && eta > 0 {
			resp["eta_ms"] = eta.Milliseconds()
		}
	}

	return c.JSON(http.StatusOK, resp)
}

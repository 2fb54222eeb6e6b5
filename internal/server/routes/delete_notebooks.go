package routes

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/queue"
	"plexus/internal/server/middleware"
	"plexus/internal/store"
	"plexus/pkg/logger"
)

// DeleteNotebookHandler queues deletion of a notebook, its documents
// in object storage, and all derived rows. Deletion is asynchronous;
// the handler answers 202 once the job is enqueued.
func DeleteNotebookHandler(c echo.Context) error {
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

	err = queue.PublishDeleteJob(app.Queue, queue.DeleteJobMsg{
		NotebookID: notebook.PublicID,
		S3Prefix:   fmt.Sprintf("notebooks/%s/", notebook.PublicID),
	})
	if err != nil {
		logger.Error("Failed to enqueue delete job", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Notebook deletion queued"})
}

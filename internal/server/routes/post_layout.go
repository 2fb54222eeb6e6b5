package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/queue"
	"plexus/internal/server/middleware"
	"plexus/internal/store"
	"plexus/pkg/layout"
	"plexus/pkg/logger"
)

type saveLayoutBody struct {
	Seed      int64             `json:"seed" validate:"required"`
	Ticks     int               `json:"ticks" validate:"gte=0"`
	Positions []layout.Position `json:"positions" validate:"required,min=1"`
	Viewport  layout.Viewport   `json:"viewport"`
}

// SaveLayoutHandler stores a client-computed layout snapshot, for
// arrangements the user adjusted by dragging.
func SaveLayoutHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)

	var body saveLayoutBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	err := st.SaveLayout(c.Request().Context(), c.Param("id"), store.LayoutSnapshot{
		Seed:      body.Seed,
		Ticks:     body.Ticks,
		Positions: body.Positions,
		Viewport:  body.Viewport,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook not found"})
		}
		logger.Error("Failed to save layout", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Layout saved"})
}

type runLayoutBody struct {
	Seed int64 `json:"seed"`
}

// RunLayoutHandler queues a fresh server-side layout run. An explicit
// seed reproduces a specific arrangement; zero reuses the stored seed.
func RunLayoutHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)
	ctx := c.Request().Context()
	notebookID := c.Param("id")

	if _, err := st.GetNotebook(ctx, notebookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook not found"})
		}
		logger.Error("Failed to get notebook", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	var body runLayoutBody
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	err := queue.PublishLayoutJob(app.Queue, queue.LayoutJobMsg{
		NotebookID: notebookID,
		Seed:       body.Seed,
	})
	if err != nil {
		logger.Error("Failed to enqueue layout job", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusAccepted, map[string]string{"message": "Layout queued"})
}

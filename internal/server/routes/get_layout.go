package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/server/middleware"
	"plexus/internal/store"
	"plexus/pkg/logger"
)

// GetLayoutHandler returns the stored layout snapshot for a notebook.
func GetLayoutHandler(c echo.Context) error {
	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)

	snap, err := st.GetLayout(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "No layout snapshot"})
		}
		logger.Error("Failed to load layout", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"layout": snap})
}

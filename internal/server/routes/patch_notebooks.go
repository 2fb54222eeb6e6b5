package routes

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/server/middleware"
	"plexus/internal/store"
	"plexus/pkg/logger"
)

// EditNotebookHandler updates a notebook's name and description.
func EditNotebookHandler(c echo.Context) error {
	type editNotebookBody struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	data := new(editNotebookBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)

	notebook, err := st.UpdateNotebook(c.Request().Context(), c.Param("id"), data.Name, data.Description)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Notebook not found"})
		}
		logger.Error("Failed to update notebook", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusOK, map[string]any{"notebook": notebook})
}

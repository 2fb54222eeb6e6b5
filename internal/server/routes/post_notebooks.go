package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"plexus/internal/server/middleware"
	"plexus/internal/store"
	"plexus/pkg/logger"
)

// CreateNotebookHandler creates an empty notebook.
func CreateNotebookHandler(c echo.Context) error {
	type createNotebookBody struct {
		Name        string `json:"name" validate:"required"`
		Description string `json:"description"`
	}

	data := new(createNotebookBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if err := c.Validate(data); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	app := c.(*middleware.AppContext).App
	st := store.New(app.DBConn)

	notebook, err := st.CreateNotebook(c.Request().Context(), data.Name, data.Description)
	if err != nil {
		logger.Error("Failed to create notebook", "err", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Internal server error"})
	}

	return c.JSON(http.StatusCreated, map[string]any{"notebook": notebook})
}
